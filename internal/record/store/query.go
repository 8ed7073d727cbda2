package store

import (
	"fmt"
	"strings"

	"staffdir/internal/record/models"
)

// likeEscaper escapes LIKE metacharacters so text search is a literal substring match.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause translates a filter into a SQL WHERE clause (without the
// keyword) and its positional arguments, numbered from argStart.
// MatchAll yields an empty clause.
func whereClause(filter models.Filter, argStart int) (string, []any, error) {
	switch f := filter.(type) {
	case nil, models.MatchAll:
		return "", nil, nil
	case models.AllOf:
		parts := make([]string, 0, len(f.Conditions))
		args := make([]any, 0, len(f.Conditions))
		for _, c := range f.Conditions {
			col := c.Field.Column()
			if col == "" {
				return "", nil, fmt.Errorf("unknown filter field %q", c.Field)
			}
			args = append(args, c.Value)
			parts = append(parts, fmt.Sprintf("%s = $%d", col, argStart+len(args)-1))
		}
		return strings.Join(parts, " AND "), args, nil
	case models.AnyContains:
		if len(f.Fields) == 0 {
			return "FALSE", nil, nil
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Text)) + "%"
		parts := make([]string, 0, len(f.Fields))
		for _, field := range f.Fields {
			if !field.IsText() {
				return "", nil, fmt.Errorf("field %q is not text-searchable", field)
			}
			parts = append(parts, fmt.Sprintf(`LOWER(%s) LIKE $%d ESCAPE '\'`, field.Column(), argStart))
		}
		return "(" + strings.Join(parts, " OR ") + ")", []any{pattern}, nil
	default:
		return "", nil, fmt.Errorf("unsupported filter %T", filter)
	}
}

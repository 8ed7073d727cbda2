package models

import (
	"fmt"
	"strings"
)

// Field names a searchable record column.
type Field string

const (
	FieldFullName   Field = "fullName"
	FieldAge        Field = "age"
	FieldPosition   Field = "position"
	FieldDepartment Field = "department"
)

// TextFields are the fields covered by free-text search. Age is excluded.
var TextFields = []Field{FieldFullName, FieldPosition, FieldDepartment}

// Column returns the storage column backing the field.
func (f Field) Column() string {
	switch f {
	case FieldFullName:
		return "full_name"
	case FieldAge:
		return "age"
	case FieldPosition:
		return "position"
	case FieldDepartment:
		return "department"
	default:
		return ""
	}
}

// IsText reports whether the field holds string values.
func (f Field) IsText() bool {
	return f == FieldFullName || f == FieldPosition || f == FieldDepartment
}

// Filter is a closed set of predicate shapes evaluated by a record store.
// The concrete types are MatchAll, AllOf and AnyContains.
type Filter interface {
	isFilter()
}

// MatchAll matches every record.
type MatchAll struct{}

// Equals is an exact-equality condition on one field. Value is a string for
// text fields and an int for FieldAge.
type Equals struct {
	Field Field
	Value any
}

// AllOf matches records satisfying every condition.
type AllOf struct {
	Conditions []Equals
}

// AnyContains matches records where at least one of Fields contains Text,
// ignoring case.
type AnyContains struct {
	Fields []Field
	Text   string
}

func (MatchAll) isFilter()    {}
func (AllOf) isFilter()       {}
func (AnyContains) isFilter() {}

// CriteriaFilter turns optional criteria into an AND of equality conditions.
// With no criteria supplied it returns MatchAll.
func CriteriaFilter(c Criteria) Filter {
	var conds []Equals
	if c.FullName != "" {
		conds = append(conds, Equals{Field: FieldFullName, Value: c.FullName})
	}
	if c.Age != nil {
		conds = append(conds, Equals{Field: FieldAge, Value: *c.Age})
	}
	if c.Position != "" {
		conds = append(conds, Equals{Field: FieldPosition, Value: c.Position})
	}
	if c.Department != "" {
		conds = append(conds, Equals{Field: FieldDepartment, Value: c.Department})
	}
	if len(conds) == 0 {
		return MatchAll{}
	}
	return AllOf{Conditions: conds}
}

// TextFilter turns a free-text query into a case-insensitive OR over the
// text fields. An empty query returns MatchAll.
func TextFilter(text string) Filter {
	if text == "" {
		return MatchAll{}
	}
	return AnyContains{Fields: TextFields, Text: text}
}

// Matches evaluates f against r in memory.
func Matches(f Filter, r *Record) bool {
	switch f := f.(type) {
	case nil, MatchAll:
		return true
	case AllOf:
		for _, c := range f.Conditions {
			if !c.matches(r) {
				return false
			}
		}
		return true
	case AnyContains:
		needle := strings.ToLower(f.Text)
		for _, field := range f.Fields {
			if v, ok := textValue(field, r); ok && strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	default:
		panic(fmt.Sprintf("models: unknown filter %T", f))
	}
}

func (c Equals) matches(r *Record) bool {
	if c.Field == FieldAge {
		age, ok := c.Value.(int)
		return ok && r.Age == age
	}
	want, ok := c.Value.(string)
	if !ok {
		return false
	}
	got, ok := textValue(c.Field, r)
	return ok && got == want
}

func textValue(f Field, r *Record) (string, bool) {
	switch f {
	case FieldFullName:
		return r.FullName, true
	case FieldPosition:
		return r.Position, true
	case FieldDepartment:
		return r.Department, true
	default:
		return "", false
	}
}

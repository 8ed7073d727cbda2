package httputil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	dErrors "staffdir/pkg/domain-errors"
)

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or blank.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

// QueryOptionalInt reads an integer query parameter, returning nil when the
// parameter is absent or blank.
func QueryOptionalInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	n := int(v)
	return &n, nil
}

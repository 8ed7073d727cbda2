package handler

import (
	"net/http"
	"unicode/utf8"

	"staffdir/internal/record/models"
	"staffdir/pkg/platform/httputil"
	"staffdir/pkg/platform/validation"
)

// HTTP request DTOs, bound from query parameters.

type pageParams struct {
	PageNum  int `validate:"min=1"`
	PageSize int `validate:"min=1"`
}

type SearchRequest struct {
	FullName   string
	Age        *int
	Position   string
	Department string
	pageParams
}

type TextSearchRequest struct {
	Text string
	pageParams
}

func bindPage(r *http.Request) (pageParams, error) {
	num, err := httputil.QueryInt(r, "pageNum", validation.MinPageNum)
	if err != nil {
		return pageParams{}, err
	}
	size, err := httputil.QueryInt(r, "pageSize", validation.MinPageSize)
	if err != nil {
		return pageParams{}, err
	}
	return pageParams{PageNum: num, PageSize: size}, nil
}

// bindSearchRequest reads criteria verbatim; values are matched exactly, so
// they are not trimmed.
func bindSearchRequest(r *http.Request) (*SearchRequest, error) {
	q := r.URL.Query()
	age, err := httputil.QueryOptionalInt(r, "age")
	if err != nil {
		return nil, err
	}
	page, err := bindPage(r)
	if err != nil {
		return nil, err
	}
	req := &SearchRequest{
		FullName:   q.Get("fullName"),
		Age:        age,
		Position:   q.Get("position"),
		Department: q.Get("department"),
		pageParams: page,
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

func bindTextSearchRequest(r *http.Request) (*TextSearchRequest, error) {
	page, err := bindPage(r)
	if err != nil {
		return nil, err
	}
	req := &TextSearchRequest{
		Text:       r.URL.Query().Get("text"),
		pageParams: page,
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *SearchRequest) Criteria() models.Criteria {
	return models.Criteria{
		FullName:   r.FullName,
		Age:        r.Age,
		Position:   r.Position,
		Department: r.Department,
	}
}

func (p pageParams) PageRequest() (models.PageRequest, error) {
	return models.NewPageRequest(p.PageNum, p.PageSize)
}

// parseDelimiter returns the single rune in raw, or utf8.RuneError when raw
// is empty or longer than one character, which no delimiter set contains.
func parseDelimiter(raw string) rune {
	if utf8.RuneCountInString(raw) != 1 {
		return utf8.RuneError
	}
	d, _ := utf8.DecodeRuneInString(raw)
	return d
}

// delimiterParam reads the delimiter from the query string or the multipart
// form; surrounding whitespace is significant.
func delimiterParam(r *http.Request) string {
	if v, ok := r.URL.Query()["delimiter"]; ok && len(v) > 0 {
		return v[0]
	}
	if r.MultipartForm != nil {
		if v := r.MultipartForm.Value["delimiter"]; len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

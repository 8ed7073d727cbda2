package models

import (
	"fmt"
	"math"

	dErrors "staffdir/pkg/domain-errors"
)

// PageRequest addresses one page of a result ordered by ID ascending.
// Number is 0-based.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest converts a caller's 1-based page number into a PageRequest.
func NewPageRequest(pageNum, pageSize int) (PageRequest, error) {
	if pageNum < 1 {
		return PageRequest{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("page number must be at least 1, got %d", pageNum))
	}
	if pageSize < 1 {
		return PageRequest{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("page size must be at least 1, got %d", pageSize))
	}
	return PageRequest{Number: pageNum - 1, Size: pageSize}, nil
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt64 so a page far past the end stays past the end.
func (p PageRequest) Offset() int64 {
	if p.Size > 0 && int64(p.Number) > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return int64(p.Number) * int64(p.Size)
}

// Capacity is the number of rows this page can hold out of total matches.
func (p PageRequest) Capacity(total int64) int {
	offset := p.Offset()
	if total <= offset {
		return 0
	}
	return int(min(int64(p.Size), total-offset))
}

// Page is one slice of a result plus the total number of matching rows.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

// NewPage assembles a page for the given request.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	return &Page[T]{Content: content, Number: req.Number, Size: req.Size, TotalElements: total}
}

// TotalPages is the number of pages needed to hold TotalElements.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 1
	}
	pages := p.TotalElements / int64(p.Size)
	if p.TotalElements%int64(p.Size) != 0 {
		pages++
	}
	return int(pages)
}

// NumberOfElements is the size of this page's content.
func (p *Page[T]) NumberOfElements() int {
	return len(p.Content)
}

func (p *Page[T]) First() bool {
	return p.Number == 0
}

func (p *Page[T]) Last() bool {
	return p.Number+1 >= p.TotalPages()
}

func (p *Page[T]) Empty() bool {
	return len(p.Content) == 0
}

// Map converts the page content while keeping its paging metadata.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, v := range p.Content {
		out = append(out, fn(v))
	}
	return &Page[U]{Content: out, Number: p.Number, Size: p.Size, TotalElements: p.TotalElements}
}

package handler

import "staffdir/internal/record/models"

// RecordView is the public shape of a record. The id is never exposed and
// null fields are omitted; empty strings are kept.
type RecordView struct {
	FullName   *string `json:"fullName,omitempty"`
	Age        *int    `json:"age,omitempty"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
}

type PageResponse struct {
	Content          []RecordView `json:"content"`
	TotalElements    int64        `json:"totalElements"`
	TotalPages       int          `json:"totalPages"`
	Number           int          `json:"number"`
	Size             int          `json:"size"`
	NumberOfElements int          `json:"numberOfElements"`
	First            bool         `json:"first"`
	Last             bool         `json:"last"`
	Empty            bool         `json:"empty"`
}

func toRecordView(r *models.Record) RecordView {
	if r == nil {
		return RecordView{}
	}
	fullName, age, position, department := r.FullName, r.Age, r.Position, r.Department
	return RecordView{
		FullName:   &fullName,
		Age:        &age,
		Position:   &position,
		Department: &department,
	}
}

func toPageResponse(p *models.Page[*models.Record]) *PageResponse {
	views := models.Map(p, toRecordView)
	return &PageResponse{
		Content:          views.Content,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages(),
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements(),
		First:            p.First(),
		Last:             p.Last(),
		Empty:            p.Empty(),
	}
}

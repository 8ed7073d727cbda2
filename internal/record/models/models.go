// Package models holds the record entity, the typed search filters and the
// paging primitives shared by the record stores, service and handlers.
package models

// Record is one persisted row of an uploaded CSV file.
// ID is assigned by the store on insert and never changes afterwards.
type Record struct {
	ID         int64
	FullName   string
	Age        int
	Position   string
	Department string
}

// NewRecord builds an unsaved record; the store assigns its ID.
func NewRecord(fullName string, age int, position, department string) *Record {
	return &Record{
		FullName:   fullName,
		Age:        age,
		Position:   position,
		Department: department,
	}
}

// Criteria holds the optional field-level search parameters.
// Empty strings and a nil Age impose no constraint.
type Criteria struct {
	FullName   string
	Age        *int
	Position   string
	Department string
}

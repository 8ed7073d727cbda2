// Package ingest validates CSV uploads and maps rows positionally onto
// records: name, age, position, department. Every row is data; a header
// line is parsed like any other row.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"staffdir/internal/record/models"
	dErrors "staffdir/pkg/domain-errors"
)

// MinFields is the number of positional columns a row must carry.
const MinFields = 4

// ValidDelimiters is the accepted delimiter set.
var ValidDelimiters = []rune{',', ';', '|', ':', '-', '.'}

// Error messages surfaced to callers.
const (
	MsgFileUpload       = "Failed to upload file"
	MsgInvalidDelimiter = "Invalid delimiter"
	MsgCSVParsing       = "Failed to parse CSV file"
)

// IsValidDelimiter reports whether d is in the accepted delimiter set.
func IsValidDelimiter(d rune) bool {
	return slices.Contains(ValidDelimiters, d)
}

// Validate checks the upload before any parsing: emptiness first, then the
// delimiter.
func Validate(file []byte, delimiter rune) error {
	if len(file) == 0 {
		return dErrors.New(dErrors.CodeFileUpload, MsgFileUpload)
	}
	if !IsValidDelimiter(delimiter) {
		return dErrors.New(dErrors.CodeInvalidDelimiter, MsgInvalidDelimiter)
	}
	return nil
}

// Parse validates file and delimiter and converts every row into an unsaved
// record. It fails on the first malformed row, returning no records.
func Parse(file []byte, delimiter rune) ([]*models.Record, error) {
	if err := Validate(file, delimiter); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(file))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var records []*models.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeCSVParsing, fmt.Sprintf("%s: %v", MsgCSVParsing, err))
		}
		line, _ := reader.FieldPos(0)
		rec, err := toRecord(row)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeCSVParsing, fmt.Sprintf("%s: line %d: %v", MsgCSVParsing, line, err))
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRecord(row []string) (*models.Record, error) {
	if len(row) < MinFields {
		return nil, fmt.Errorf("expected at least %d fields, got %d", MinFields, len(row))
	}
	age, err := strconv.ParseInt(row[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("age %q is not an integer", row[1])
	}
	return models.NewRecord(row[0], int(age), row[2], row[3]), nil
}

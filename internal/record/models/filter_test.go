package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCriteriaFilter(t *testing.T) {
	t.Run("no criteria matches all", func(t *testing.T) {
		assert.Equal(t, MatchAll{}, CriteriaFilter(Criteria{}))
	})

	t.Run("empty strings impose no constraint", func(t *testing.T) {
		f := CriteriaFilter(Criteria{FullName: "", Position: "", Department: "Sales"})
		assert.Equal(t, AllOf{Conditions: []Equals{{Field: FieldDepartment, Value: "Sales"}}}, f)
	})

	t.Run("all criteria become ANDed equality conditions in field order", func(t *testing.T) {
		f := CriteriaFilter(Criteria{FullName: "Alice", Age: intPtr(30), Position: "Engineer", Department: "R&D"})
		require.IsType(t, AllOf{}, f)
		assert.Equal(t, []Equals{
			{Field: FieldFullName, Value: "Alice"},
			{Field: FieldAge, Value: 30},
			{Field: FieldPosition, Value: "Engineer"},
			{Field: FieldDepartment, Value: "R&D"},
		}, f.(AllOf).Conditions)
	})

	t.Run("zero age is still a constraint", func(t *testing.T) {
		f := CriteriaFilter(Criteria{Age: intPtr(0)})
		assert.Equal(t, AllOf{Conditions: []Equals{{Field: FieldAge, Value: 0}}}, f)
	})
}

func TestTextFilter(t *testing.T) {
	assert.Equal(t, MatchAll{}, TextFilter(""))
	assert.Equal(t, AnyContains{Fields: []Field{FieldFullName, FieldPosition, FieldDepartment}, Text: "eng"}, TextFilter("eng"))
}

func TestMatches(t *testing.T) {
	alice := NewRecord("Alice", 30, "Engineer", "Platform")
	bob := NewRecord("Bob", 41, "Manager", "Engineering")
	carol := NewRecord("Carol", 30, "Designer", "Product")

	tests := []struct {
		name   string
		filter Filter
		want   []*Record
	}{
		{"match all", MatchAll{}, []*Record{alice, bob, carol}},
		{"nil filter matches all", nil, []*Record{alice, bob, carol}},
		{"exact name", CriteriaFilter(Criteria{FullName: "Alice"}), []*Record{alice}},
		{"name match is case sensitive", CriteriaFilter(Criteria{FullName: "alice"}), nil},
		{"age", CriteriaFilter(Criteria{Age: intPtr(30)}), []*Record{alice, carol}},
		{"age and position", CriteriaFilter(Criteria{Age: intPtr(30), Position: "Designer"}), []*Record{carol}},
		{"text is case insensitive across fields", TextFilter("eng"), []*Record{alice, bob}},
		{"text does not search age", TextFilter("41"), nil},
		{"text matches department", TextFilter("PROD"), []*Record{carol}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []*Record
			for _, r := range []*Record{alice, bob, carol} {
				if Matches(tt.filter, r) {
					got = append(got, r)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEqualsWithMismatchedValueType(t *testing.T) {
	r := NewRecord("Alice", 30, "Engineer", "Platform")
	assert.False(t, Matches(AllOf{Conditions: []Equals{{Field: FieldAge, Value: "30"}}}, r))
	assert.False(t, Matches(AllOf{Conditions: []Equals{{Field: FieldFullName, Value: 1}}}, r))
}

func TestFieldColumn(t *testing.T) {
	assert.Equal(t, "full_name", FieldFullName.Column())
	assert.Equal(t, "age", FieldAge.Column())
	assert.Equal(t, "position", FieldPosition.Column())
	assert.Equal(t, "department", FieldDepartment.Column())
	assert.Empty(t, Field("salary").Column())
	assert.False(t, FieldAge.IsText())
	assert.True(t, FieldDepartment.IsText())
}

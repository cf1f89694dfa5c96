package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Rahnken/recipe-tracker/internal/service"
)

type child struct {
	ID   string
	Text string
}

func childID(c child) string { return c.ID }

func TestDiff_KeepsUpdatesDropsMissingInsertsNew(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	plan := service.Diff([]uuid.UUID{a, b, c}, []child{
		{ID: b.String(), Text: "B'"},
		{Text: "D"},
	}, childID)

	assert.Equal(t, []uuid.UUID{a, c}, plan.ToDelete)
	assert.Equal(t, []child{{ID: b.String(), Text: "B'"}}, plan.ToUpdate)
	assert.Equal(t, []child{{Text: "D"}}, plan.ToInsert)
}

func TestDiff_ForeignMalformedAndRepeatedIDsAreInserts(t *testing.T) {
	a := uuid.New()
	foreign := uuid.New().String()

	plan := service.Diff([]uuid.UUID{a}, []child{
		{ID: a.String(), Text: "first"},
		{ID: a.String(), Text: "repeat"},
		{ID: foreign, Text: "foreign"},
		{ID: "not-a-uuid", Text: "junk"},
	}, childID)

	assert.Empty(t, plan.ToDelete)
	assert.Equal(t, []child{{ID: a.String(), Text: "first"}}, plan.ToUpdate)
	assert.Equal(t, []string{"repeat", "foreign", "junk"}, texts(plan.ToInsert))
}

func TestDiff_EmptySides(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	plan := service.Diff([]uuid.UUID{a, b}, nil, childID)
	assert.Equal(t, []uuid.UUID{a, b}, plan.ToDelete)
	assert.Empty(t, plan.ToUpdate)
	assert.Empty(t, plan.ToInsert)

	plan = service.Diff(nil, []child{{Text: "x"}, {Text: "y"}}, childID)
	assert.Empty(t, plan.ToDelete)
	assert.Equal(t, []string{"x", "y"}, texts(plan.ToInsert))
}

func texts(cs []child) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}

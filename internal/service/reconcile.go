package service

import (
	"github.com/google/uuid"
)

// ChildDiff is the plan for bringing a recipe's child rows in line with an
// update payload.
type ChildDiff[T any] struct {
	ToDelete []uuid.UUID
	ToUpdate []T
	ToInsert []T
}

// Diff compares the ids of a recipe's existing child rows with the incoming
// entries. An entry whose id names an existing child is an update; an entry
// with an empty, malformed or foreign id is an insert. Existing children not
// named by any entry are deleted. Order of the incoming entries is preserved.
func Diff[T any](existing []uuid.UUID, incoming []T, idOf func(T) string) ChildDiff[T] {
	current := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		current[id] = true
	}

	var out ChildDiff[T]
	kept := make(map[uuid.UUID]bool, len(incoming))
	for _, item := range incoming {
		id, err := uuid.Parse(idOf(item))
		if err == nil && current[id] && !kept[id] {
			kept[id] = true
			out.ToUpdate = append(out.ToUpdate, item)
			continue
		}
		out.ToInsert = append(out.ToInsert, item)
	}

	for _, id := range existing {
		if !kept[id] {
			out.ToDelete = append(out.ToDelete, id)
		}
	}
	return out
}

// Package view computes view-ready projections of the cached chore list.
// Every function is pure: safe to call on each render, never mutating its
// inputs.
package view

import (
	"sort"

	"choreboard/internal/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// FilterByStatus keeps chores matching the filter. "all" passes everything
// through, including in_progress; "pending" and "completed" match their
// status exactly, so in_progress chores appear under neither. That
// narrowing is intentional.
func FilterByStatus(chores []model.Chore, filter Filter) []model.Chore {
	if filter == FilterAll {
		return append([]model.Chore(nil), chores...)
	}
	var out []model.Chore
	for _, c := range chores {
		if string(c.Status) == string(filter) {
			out = append(out, c)
		}
	}
	return out
}

// SortForList orders chores for the list view. Completed chores always sort
// after everything else. Within each partition, two chores that both appear
// in manualOrder keep their relative manual position; any other pair falls
// back to due date ascending.
func SortForList(chores []model.Chore, manualOrder []int64) []model.Chore {
	pos := make(map[int64]int, len(manualOrder))
	for i, id := range manualOrder {
		pos[id] = i
	}

	out := append([]model.Chore(nil), chores...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		aDone := a.Status == model.StatusCompleted
		bDone := b.Status == model.StatusCompleted
		if aDone != bDone {
			return !aDone
		}

		ai, aOK := pos[a.ID]
		bi, bOK := pos[b.ID]
		if aOK && bOK {
			return ai < bi
		}

		return a.DueDate.Before(b.DueDate)
	})
	return out
}

// CalendarEvent is an all-day calendar entry projected from one chore.
// Start and end are both the due date; no time of day is introduced.
type CalendarEvent struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Start     model.Date     `json:"start"`
	End       model.Date     `json:"end"`
	Priority  model.Priority `json:"priority"`
	Completed bool           `json:"completed"`
}

// ToCalendarEvents maps chores one-to-one onto calendar events.
func ToCalendarEvents(chores []model.Chore) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(chores))
	for _, c := range chores {
		events = append(events, CalendarEvent{
			ID:        c.ID,
			Title:     c.Title,
			Start:     c.DueDate,
			End:       c.DueDate,
			Priority:  c.Priority,
			Completed: c.Status == model.StatusCompleted,
		})
	}
	return events
}

// ResolveAssignedName looks up the assignee's current name. A dangling or
// absent assignment yields ok=false, never an error.
func ResolveAssignedName(chore model.Chore, users []model.User) (string, bool) {
	if chore.AssignedTo == nil {
		return "", false
	}
	for _, u := range users {
		if u.ID == *chore.AssignedTo {
			return u.Name, true
		}
	}
	return "", false
}

// SeedOrder initializes the manual order from the chore list, but only
// when the order is still empty and there is something to seed from.
// An already-seeded order is returned unchanged.
func SeedOrder(order []int64, chores []model.Chore) []int64 {
	if len(order) > 0 || len(chores) == 0 {
		return order
	}
	ids := make([]int64, 0, len(chores))
	for _, c := range chores {
		ids = append(ids, c.ID)
	}
	return ids
}

// Move returns a copy of ids with the element at from reinserted at to.
// Out-of-range positions leave the order unchanged.
func Move(ids []int64, from, to int) []int64 {
	out := append([]int64(nil), ids...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	id := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]int64{id}, out[to:]...)...)
	return out
}

// Remove drops an id from the order, if present.
func Remove(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

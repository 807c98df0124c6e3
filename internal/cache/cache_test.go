package cache

import (
	"testing"
	"time"

	"choreboard/internal/model"
)

func chore(id int64, title string) model.Chore {
	return model.Chore{
		ID:      id,
		Title:   title,
		DueDate: model.NewDate(2024, time.March, 15),
		Status:  model.StatusPending,
	}
}

func TestSetChoresReplacesWholesale(t *testing.T) {
	c := New()
	c.SetChores([]model.Chore{chore(1, "a"), chore(2, "b")})
	c.SetChores([]model.Chore{chore(3, "c")})

	got := c.Chores()
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("chores = %v, want single id 3", got)
	}
}

func TestAddChoreAppends(t *testing.T) {
	c := New()
	c.AddChore(chore(1, "a"))
	c.AddChore(chore(2, "b"))

	got := c.Chores()
	if len(got) != 2 || got[1].ID != 2 {
		t.Fatalf("chores = %v, want appended id 2", got)
	}
}

func TestAddChoreDuplicateIDReplaces(t *testing.T) {
	c := New()
	c.AddChore(chore(1, "old"))
	c.AddChore(chore(1, "new"))

	got := c.Chores()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: duplicate id must not grow the list", len(got))
	}
	if got[0].Title != "new" {
		t.Errorf("title = %q, want replacement to win", got[0].Title)
	}
}

func TestReplaceChore(t *testing.T) {
	c := New()
	c.SetChores([]model.Chore{chore(1, "a"), chore(2, "b")})

	updated := chore(2, "b2")
	updated.Status = model.StatusCompleted
	c.ReplaceChore(updated)

	got, ok := c.Chore(2)
	if !ok {
		t.Fatal("chore 2 missing")
	}
	if got.Title != "b2" || got.Status != model.StatusCompleted {
		t.Errorf("got %+v, want replaced entity", got)
	}
}

func TestReplaceChoreMissingIDIgnored(t *testing.T) {
	c := New()
	c.SetChores([]model.Chore{chore(1, "a")})

	c.ReplaceChore(chore(99, "ghost"))

	got := c.Chores()
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("chores = %v, want unchanged", got)
	}
}

func TestRemoveChore(t *testing.T) {
	c := New()
	c.SetChores([]model.Chore{chore(1, "a"), chore(2, "b")})

	c.RemoveChore(1)
	if _, ok := c.Chore(1); ok {
		t.Error("chore 1 still present after remove")
	}
	if len(c.Chores()) != 2-1 {
		t.Errorf("len = %d, want 1", len(c.Chores()))
	}

	// Missing id is a no-op.
	c.RemoveChore(42)
	if len(c.Chores()) != 1 {
		t.Errorf("len = %d after no-op remove, want 1", len(c.Chores()))
	}
}

func TestErrorAndLoadingIndependent(t *testing.T) {
	c := New()
	c.SetChores([]model.Chore{chore(1, "a")})

	c.SetLoading(true)
	c.SetError("boom")
	if !c.Loading() || c.Err() != "boom" {
		t.Errorf("loading=%v err=%q", c.Loading(), c.Err())
	}
	if len(c.Chores()) != 1 {
		t.Error("entity data must be untouched by loading/error transitions")
	}

	c.SetError("replaced")
	if c.Err() != "replaced" {
		t.Errorf("err = %q, want last writer to win", c.Err())
	}
	c.SetError("")
	if c.Err() != "" {
		t.Errorf("err = %q, want cleared", c.Err())
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	c := New()
	c.SetChores([]model.Chore{chore(1, "a")})

	snap := c.Chores()
	snap[0].Title = "mutated"

	got, _ := c.Chore(1)
	if got.Title != "a" {
		t.Error("mutating a snapshot must not affect the cache")
	}
}

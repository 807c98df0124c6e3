package store

import (
	"database/sql"
	"testing"
	"time"

	"choreboard/internal/database"
	"choreboard/internal/model"
)

func setupTestDB(t *testing.T) (*sql.DB, *ChoreStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, NewChoreStore(db), NewUserStore(db)
}

func TestChoreCRUD(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	due := model.NewDate(2024, time.March, 15)
	chore, err := cs.Create("Wash dishes", "Pots and pans too", nil, due, model.PriorityHigh)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if chore.Title != "Wash dishes" {
		t.Errorf("title = %q, want %q", chore.Title, "Wash dishes")
	}
	if chore.Status != model.StatusPending {
		t.Errorf("status = %q, want pending default", chore.Status)
	}
	if chore.Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want high", chore.Priority)
	}
	if !chore.DueDate.Equal(due) {
		t.Errorf("due_date = %v, want %v", chore.DueDate, due)
	}
	if chore.AssignedTo != nil {
		t.Errorf("assigned_to = %v, want nil", chore.AssignedTo)
	}

	got, err := cs.GetByID(chore.ID)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.Title != chore.Title {
		t.Errorf("got title = %q, want %q", got.Title, chore.Title)
	}

	newDue := model.NewDate(2024, time.March, 20)
	updated, err := cs.Update(chore.ID, "Wash all dishes", "", nil, newDue, model.StatusCompleted, model.PriorityLow)
	if err != nil {
		t.Fatalf("update chore: %v", err)
	}
	if updated.Title != "Wash all dishes" {
		t.Errorf("updated title = %q", updated.Title)
	}
	if updated.Description != "" {
		t.Errorf("updated description = %q, want cleared", updated.Description)
	}
	if updated.Status != model.StatusCompleted {
		t.Errorf("updated status = %q, want completed", updated.Status)
	}
	if !updated.UpdatedAt.After(chore.UpdatedAt) {
		t.Errorf("updated_at not refreshed: %v <= %v", updated.UpdatedAt, chore.UpdatedAt)
	}

	deleted, err := cs.Delete(chore.ID)
	if err != nil {
		t.Fatalf("delete chore: %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true")
	}
	got, err = cs.GetByID(chore.ID)
	if err != nil {
		t.Fatalf("get deleted chore: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted chore")
	}
}

func TestChoreDeleteMiss(t *testing.T) {
	_, cs, _ := setupTestDB(t)

	deleted, err := cs.Delete(9999)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Error("expected deleted=false for missing id")
	}
}

func TestChoreListOrdering(t *testing.T) {
	db, cs, _ := setupTestDB(t)

	later, err := cs.Create("Later", "", nil, model.NewDate(2024, time.April, 2), model.PriorityMedium)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	early1, err := cs.Create("Early first", "", nil, model.NewDate(2024, time.April, 1), model.PriorityMedium)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	early2, err := cs.Create("Early second", "", nil, model.NewDate(2024, time.April, 1), model.PriorityMedium)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Pin creation times: early2 is the most recently created of the tie.
	if _, err := db.Exec(`UPDATE chores SET created_at = ? WHERE id = ?`, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), early1.ID); err != nil {
		t.Fatalf("pin created_at: %v", err)
	}
	if _, err := db.Exec(`UPDATE chores SET created_at = ? WHERE id = ?`, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), early2.ID); err != nil {
		t.Fatalf("pin created_at: %v", err)
	}

	chores, err := cs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chores) != 3 {
		t.Fatalf("len = %d, want 3", len(chores))
	}
	wantOrder := []int64{early2.ID, early1.ID, later.ID}
	for i, want := range wantOrder {
		if chores[i].ID != want {
			t.Errorf("chores[%d].ID = %d, want %d", i, chores[i].ID, want)
		}
	}
}

func TestChoreAssignedNameJoin(t *testing.T) {
	_, cs, us := setupTestDB(t)

	user, err := us.Create("Mika", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	chore, err := cs.Create("Vacuum", "", &user.ID, model.NewDate(2024, time.May, 1), model.PriorityMedium)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if chore.AssignedToName != "Mika" {
		t.Errorf("assigned_to_name = %q, want Mika", chore.AssignedToName)
	}

	// Assignment is advisory: a dangling reference yields no name, not an error.
	ghost := int64(4242)
	dangling, err := cs.Create("Dust", "", &ghost, model.NewDate(2024, time.May, 1), model.PriorityMedium)
	if err != nil {
		t.Fatalf("create dangling: %v", err)
	}
	if dangling.AssignedToName != "" {
		t.Errorf("assigned_to_name = %q, want empty for dangling reference", dangling.AssignedToName)
	}
	if dangling.AssignedTo == nil || *dangling.AssignedTo != ghost {
		t.Errorf("assigned_to = %v, want %d preserved", dangling.AssignedTo, ghost)
	}
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"choreboard/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

// choreCols joins users so assigned_to_name is always computed at read
// time, never stored.
const choreCols = `chores.id, chores.title, chores.description, chores.assigned_to, users.name,
	chores.due_date, chores.status, chores.priority, chores.created_at, chores.updated_at`

const choreFrom = ` FROM chores LEFT JOIN users ON chores.assigned_to = users.id`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var assignedTo sql.NullInt64
	var assignedName sql.NullString

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &assignedTo, &assignedName,
		&c.DueDate, &c.Status, &c.Priority, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if assignedName.Valid {
		c.AssignedToName = assignedName.String
	}
	return &c, nil
}

// List returns all chores ordered by due date ascending, most recently
// created first among same-due-date items. Clients rely on this as the
// stable default order before any manual reordering.
func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + choreFrom +
		` ORDER BY chores.due_date ASC, chores.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+choreFrom+` WHERE chores.id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) Create(title, description string, assignedTo *int64, dueDate model.Date, priority model.Priority) (*model.Chore, error) {
	var aTo sql.NullInt64
	if assignedTo != nil {
		aTo = sql.NullInt64{Int64: *assignedTo, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO chores (title, description, assigned_to, due_date, priority) VALUES (?, ?, ?, ?, ?)`,
		title, description, aTo, dueDate, string(priority),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update is full replacement: every mutable field is written, and
// updated_at is refreshed.
func (s *ChoreStore) Update(id int64, title, description string, assignedTo *int64, dueDate model.Date, status model.Status, priority model.Priority) (*model.Chore, error) {
	var aTo sql.NullInt64
	if assignedTo != nil {
		aTo = sql.NullInt64{Int64: *assignedTo, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE chores SET title = ?, description = ?, assigned_to = ?, due_date = ?, status = ?, priority = ?, updated_at = ? WHERE id = ?`,
		title, description, aTo, dueDate, string(status), string(priority), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// Delete reports whether a row matched; a miss is not an error.
func (s *ChoreStore) Delete(id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete chore: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Package syncer sequences remote mutations against the local cache. It is
// the only component that talks to both the gateway and the cache for a
// single logical operation, and it owns the session-scoped manual order.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"choreboard/internal/cache"
	"choreboard/internal/gateway"
	"choreboard/internal/model"
	"choreboard/internal/view"
)

// Patch is a partial chore update. Nil fields are carried forward from the
// cached entity; ClearAssignee unassigns explicitly, since a nil
// AssignedTo means "unchanged" here.
type Patch struct {
	Title         *string
	Description   *string
	AssignedTo    *int64
	ClearAssignee bool
	DueDate       *model.Date
	Status        *model.Status
	Priority      *model.Priority
}

type Syncer struct {
	gw     *gateway.Client
	cache  *cache.Cache
	logger *slog.Logger

	mu    sync.Mutex
	order []int64 // manual drag order; session-scoped, never persisted
}

func New(gw *gateway.Client, c *cache.Cache, logger *slog.Logger) *Syncer {
	return &Syncer{gw: gw, cache: c, logger: logger}
}

// LoadChores refreshes the cached chore list from the remote store and
// seeds the manual order on the first non-empty load.
func (s *Syncer) LoadChores(ctx context.Context) error {
	s.cache.SetLoading(true)
	defer s.cache.SetLoading(false)

	chores, err := s.gw.ListChores(ctx)
	if err != nil {
		s.cache.SetError("Failed to load chores")
		return err
	}
	s.cache.SetChores(chores)

	s.mu.Lock()
	s.order = view.SeedOrder(s.order, chores)
	s.mu.Unlock()
	return nil
}

func (s *Syncer) LoadUsers(ctx context.Context) error {
	users, err := s.gw.ListUsers(ctx)
	if err != nil {
		s.cache.SetError("Failed to load users")
		return err
	}
	s.cache.SetUsers(users)
	return nil
}

// Create validates the payload, creates the chore remotely, and adds the
// server's entity to the cache. The new id is appended to the manual order
// so later drags can place it.
func (s *Syncer) Create(ctx context.Context, payload model.CreateChore) (model.Chore, error) {
	payload, err := model.ValidateCreate(payload)
	if err != nil {
		return model.Chore{}, err
	}

	chore, err := s.gw.CreateChore(ctx, payload)
	if err != nil {
		s.cache.SetError("Failed to create chore")
		return model.Chore{}, err
	}

	s.cache.AddChore(chore)
	s.mu.Lock()
	s.order = append(s.order, chore.ID)
	s.mu.Unlock()

	s.logger.Debug("chore created", "id", chore.ID)
	return chore, nil
}

// Update merges the patch onto the current cached entity, sends the full
// replacement payload, and on success replaces the cached entity with the
// server's. The id must be cached; the prior entity is untouched on
// failure.
func (s *Syncer) Update(ctx context.Context, id int64, patch Patch) (model.Chore, error) {
	current, ok := s.cache.Chore(id)
	if !ok {
		return model.Chore{}, fmt.Errorf("chore %d not cached: %w", id, gateway.ErrNotFound)
	}

	payload, err := model.ValidateUpdate(merge(current, patch))
	if err != nil {
		return model.Chore{}, err
	}

	chore, err := s.gw.UpdateChore(ctx, id, payload)
	if err != nil {
		s.cache.SetError("Failed to update chore")
		return model.Chore{}, err
	}

	// The server is authoritative for updated_at and the assignee name.
	s.cache.ReplaceChore(chore)
	return chore, nil
}

// Reschedule moves a chore to a new due date; used by calendar drag-moves.
func (s *Syncer) Reschedule(ctx context.Context, id int64, date model.Date) (model.Chore, error) {
	return s.Update(ctx, id, Patch{DueDate: &date})
}

// SetStatus transitions a chore between the live statuses.
func (s *Syncer) SetStatus(ctx context.Context, id int64, status model.Status) (model.Chore, error) {
	return s.Update(ctx, id, Patch{Status: &status})
}

// Delete removes the chore remotely, then from the cache. A remote miss is
// reported as ErrNotFound and leaves the cache untouched.
func (s *Syncer) Delete(ctx context.Context, id int64) error {
	deleted, err := s.gw.DeleteChore(ctx, id)
	if err != nil {
		s.cache.SetError("Failed to delete chore")
		return err
	}
	if !deleted {
		return fmt.Errorf("chore %d: %w", id, gateway.ErrNotFound)
	}

	s.cache.RemoveChore(id)
	s.mu.Lock()
	s.order = view.Remove(s.order, id)
	s.mu.Unlock()
	return nil
}

// Reorder moves one id within the manual order. Purely local: the gateway
// is never involved, and a reload discards the result.
func (s *Syncer) Reorder(ids []int64, from, to int) []int64 {
	moved := view.Move(ids, from, to)
	s.mu.Lock()
	s.order = moved
	s.mu.Unlock()
	return moved
}

// Order returns a copy of the current manual order.
func (s *Syncer) Order() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.order...)
}

// merge builds the full-replacement payload the gateway requires, carrying
// forward every field the patch leaves nil.
func merge(current model.Chore, patch Patch) model.UpdateChore {
	out := model.UpdateChore{
		Title:       current.Title,
		Description: current.Description,
		AssignedTo:  current.AssignedTo,
		DueDate:     current.DueDate,
		Status:      current.Status,
		Priority:    current.Priority,
	}
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.ClearAssignee {
		out.AssignedTo = nil
	} else if patch.AssignedTo != nil {
		out.AssignedTo = patch.AssignedTo
	}
	if patch.DueDate != nil {
		out.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	if patch.Priority != nil {
		out.Priority = *patch.Priority
	}
	return out
}

// Package operations implements the higher level workflows that the CLI
// and server expose, composed from the db, git and tmux packages.
package operations

import (
	"context"
	"fmt"

	"ush/internal/db"
	"ush/internal/errors"
	"ush/internal/logger"
)

// TicketOperations coordinates ticket state transitions
type TicketOperations struct {
	repo *db.TicketRepository
}

// NewTicketOperations creates ticket operations backed by the given repository
func NewTicketOperations(repo *db.TicketRepository) *TicketOperations {
	return &TicketOperations{repo: repo}
}

// MoveResult describes the outcome of a bulk ticket move
type MoveResult struct {
	Moved   []db.Ticket `json:"moved"`
	Skipped []db.Ticket `json:"skipped"`
}

// Create creates a new ticket
func (o *TicketOperations) Create(ctx context.Context, ticket *db.Ticket) error {
	if err := o.repo.Create(ctx, ticket); err != nil {
		return err
	}
	logger.WithFields(logger.Fields{
		"ticket": ticket.ID,
		"status": ticket.Status,
	}).Info("Created ticket")
	return nil
}

// List returns tickets, optionally filtered by status
func (o *TicketOperations) List(ctx context.Context, status db.TicketStatus) ([]db.Ticket, error) {
	return o.repo.List(ctx, status)
}

// Get returns a single ticket by ID
func (o *TicketOperations) Get(ctx context.Context, id string) (*db.Ticket, error) {
	return o.repo.Get(ctx, id)
}

// SetStatus moves a single ticket to the given status
func (o *TicketOperations) SetStatus(ctx context.Context, id string, status db.TicketStatus) error {
	if err := o.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	logger.WithFields(logger.Fields{
		"ticket": id,
		"status": status,
	}).Info("Updated ticket status")
	return nil
}

// Delete removes a ticket
func (o *TicketOperations) Delete(ctx context.Context, id string) error {
	return o.repo.Delete(ctx, id)
}

// FindByWorktreePath returns tickets attached to the given worktree path
func (o *TicketOperations) FindByWorktreePath(ctx context.Context, path string) ([]db.Ticket, error) {
	return o.repo.FindByWorktreePath(ctx, path)
}

// FindByBranch returns tickets attached to the given branch
func (o *TicketOperations) FindByBranch(ctx context.Context, branch string) ([]db.Ticket, error) {
	return o.repo.FindByBranch(ctx, branch)
}

// FindByWindow returns tickets attached to the given tmux window
func (o *TicketOperations) FindByWindow(ctx context.Context, window string) ([]db.Ticket, error) {
	return o.repo.FindByWindow(ctx, window)
}

// resolve finds tickets for an environment identifier. The identifier is
// tried as a worktree path first, then as a branch name, then as a tmux
// window name; the first lookup with matches wins. An identifier that
// matches nothing yields an empty slice, not an error.
func (o *TicketOperations) resolve(ctx context.Context, identifier string) ([]db.Ticket, error) {
	if identifier == "" {
		return nil, errors.New(errors.ErrInvalidInput, "ticket identifier cannot be empty")
	}

	tickets, err := o.repo.FindByWorktreePath(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(tickets) > 0 {
		return tickets, nil
	}

	tickets, err = o.repo.FindByBranch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(tickets) > 0 {
		return tickets, nil
	}

	return o.repo.FindByWindow(ctx, identifier)
}

// MoveToReview moves every ticket matching the identifier into review.
// Tickets already in review or done are reported as skipped and left alone.
func (o *TicketOperations) MoveToReview(ctx context.Context, identifier string) (*MoveResult, error) {
	tickets, err := o.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{}
	for _, t := range tickets {
		if t.Status == db.StatusInReview || t.Status == db.StatusDone {
			result.Skipped = append(result.Skipped, t)
			continue
		}
		if err := o.repo.UpdateStatus(ctx, t.ID, db.StatusInReview); err != nil {
			return nil, fmt.Errorf("failed to move ticket %s to review: %w", t.ID, err)
		}
		t.Status = db.StatusInReview
		result.Moved = append(result.Moved, t)
	}

	logger.WithFields(logger.Fields{
		"identifier": identifier,
		"moved":      len(result.Moved),
		"skipped":    len(result.Skipped),
	}).Info("Moved tickets to review")

	return result, nil
}

// MoveToProgress moves every ticket matching the identifier into in_progress
func (o *TicketOperations) MoveToProgress(ctx context.Context, identifier string) (*MoveResult, error) {
	return o.moveAll(ctx, identifier, db.StatusInProgress)
}

// MoveToDone moves every ticket matching the identifier into done
func (o *TicketOperations) MoveToDone(ctx context.Context, identifier string) (*MoveResult, error) {
	return o.moveAll(ctx, identifier, db.StatusDone)
}

func (o *TicketOperations) moveAll(ctx context.Context, identifier string, status db.TicketStatus) (*MoveResult, error) {
	tickets, err := o.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{}
	for _, t := range tickets {
		if t.Status == status {
			result.Skipped = append(result.Skipped, t)
			continue
		}
		if err := o.repo.UpdateStatus(ctx, t.ID, status); err != nil {
			return nil, fmt.Errorf("failed to move ticket %s to %s: %w", t.ID, status, err)
		}
		t.Status = status
		result.Moved = append(result.Moved, t)
	}

	logger.WithFields(logger.Fields{
		"identifier": identifier,
		"status":     status,
		"moved":      len(result.Moved),
		"skipped":    len(result.Skipped),
	}).Info("Moved tickets")

	return result, nil
}

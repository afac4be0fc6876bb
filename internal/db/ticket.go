package db

import (
	"time"

	"ush/internal/errors"
)

// TicketStatus represents a kanban column
type TicketStatus string

const (
	StatusBacklog    TicketStatus = "backlog"
	StatusTodo       TicketStatus = "todo"
	StatusInProgress TicketStatus = "in_progress"
	StatusInReview   TicketStatus = "in_review"
	StatusDone       TicketStatus = "done"
	StatusArchived   TicketStatus = "archived"
)

// ValidStatuses lists every accepted ticket status in board order.
var ValidStatuses = []TicketStatus{
	StatusBacklog,
	StatusTodo,
	StatusInProgress,
	StatusInReview,
	StatusDone,
	StatusArchived,
}

// IsValid reports whether the status is one of the known kanban columns.
func (s TicketStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Ticket represents a work item tracked against an environment
type Ticket struct {
	ID             string       `db:"id" json:"id"`
	Title          string       `db:"title" json:"title"`
	Status         TicketStatus `db:"status" json:"status"`
	WorktreePath   string       `db:"worktree_path" json:"worktree_path"`
	BranchName     string       `db:"branch_name" json:"branch_name"`
	TmuxWindowName string       `db:"tmux_window_name" json:"tmux_window_name"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// Validate checks ticket fields before persistence
func (t *Ticket) Validate() error {
	if t.Title == "" {
		return errors.New(errors.ErrInvalidInput, "ticket title is required")
	}
	if !t.Status.IsValid() {
		return errors.NewWithDetails(errors.ErrInvalidTicketStatus,
			"invalid ticket status", string(t.Status))
	}
	return nil
}

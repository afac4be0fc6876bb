package db

import (
	"context"
	"database/sql"
	"fmt"

	"ush/internal/errors"

	"github.com/google/uuid"
)

// TicketRepository handles database operations for tickets
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, title, status, worktree_path, branch_name, tmux_window_name, created_at, updated_at`

func scanTicket(scanner interface {
	Scan(dest ...interface{}) error
}) (*Ticket, error) {
	var t Ticket
	err := scanner.Scan(
		&t.ID,
		&t.Title,
		&t.Status,
		&t.WorktreePath,
		&t.BranchName,
		&t.TmuxWindowName,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns tickets with optional status filtering
func (r *TicketRepository) List(ctx context.Context, status TicketStatus) ([]Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		if !status.IsValid() {
			return nil, errors.NewWithDetails(errors.ErrInvalidTicketStatus,
				"invalid ticket status", string(status))
		}
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY updated_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// Get returns a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, id string) (*Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewWithDetails(errors.ErrTicketNotFound, "ticket not found", id)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return t, nil
}

// FindByWorktreePath returns tickets whose worktree path matches exactly.
// An empty result is not an error.
func (r *TicketRepository) FindByWorktreePath(ctx context.Context, path string) ([]Ticket, error) {
	return r.findBy(ctx, "worktree_path", path)
}

// FindByBranch returns tickets whose branch name matches exactly
func (r *TicketRepository) FindByBranch(ctx context.Context, branch string) ([]Ticket, error) {
	return r.findBy(ctx, "branch_name", branch)
}

// FindByWindow returns tickets whose tmux window name matches exactly
func (r *TicketRepository) FindByWindow(ctx context.Context, window string) ([]Ticket, error) {
	return r.findBy(ctx, "tmux_window_name", window)
}

func (r *TicketRepository) findBy(ctx context.Context, column, value string) ([]Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + column + ` = ? ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets by %s: %w", column, err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// Create creates a new ticket, assigning an ID when missing
func (r *TicketRepository) Create(ctx context.Context, ticket *Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	if ticket.Status == "" {
		ticket.Status = StatusBacklog
	}
	if err := ticket.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tickets (id, title, status, worktree_path, branch_name, tmux_window_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Status,
		ticket.WorktreePath,
		ticket.BranchName,
		ticket.TmuxWindowName,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// Update updates a ticket's mutable fields
func (r *TicketRepository) Update(ctx context.Context, ticket *Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tickets
		SET title = ?, status = ?, worktree_path = ?, branch_name = ?, tmux_window_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		ticket.Title,
		ticket.Status,
		ticket.WorktreePath,
		ticket.BranchName,
		ticket.TmuxWindowName,
		ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewWithDetails(errors.ErrTicketNotFound, "ticket not found", ticket.ID)
	}

	return nil
}

// UpdateStatus updates only the status of a ticket
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status TicketStatus) error {
	if !status.IsValid() {
		return errors.NewWithDetails(errors.ErrInvalidTicketStatus,
			"invalid ticket status", string(status))
	}

	query := `
		UPDATE tickets
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewWithDetails(errors.ErrTicketNotFound, "ticket not found", id)
	}

	return nil
}

// Delete deletes a ticket
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tickets WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewWithDetails(errors.ErrTicketNotFound, "ticket not found", id)
	}

	return nil
}

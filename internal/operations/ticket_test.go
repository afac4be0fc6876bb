package operations_test

import (
	"context"
	"testing"

	"ush/internal/db"
	"ush/internal/operations"
	"ush/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTicketOps(t *testing.T) (*operations.TicketOperations, *db.TicketRepository) {
	t.Helper()
	repo := db.NewTicketRepository(testutil.SetupTestDB(t))
	return operations.NewTicketOperations(repo), repo
}

func TestMoveToReviewResolvesByWorktreePathFirst(t *testing.T) {
	ops, repo := newTicketOps(t)
	ctx := context.Background()

	// Identifier matches one ticket's path and another ticket's branch;
	// the path match wins and the branch match is untouched.
	byPath := &db.Ticket{Title: "By path", Status: db.StatusInProgress, WorktreePath: "/work/foo"}
	byBranch := &db.Ticket{Title: "By branch", Status: db.StatusInProgress, BranchName: "/work/foo"}
	require.NoError(t, repo.Create(ctx, byPath))
	require.NoError(t, repo.Create(ctx, byBranch))

	result, err := ops.MoveToReview(ctx, "/work/foo")
	require.NoError(t, err)
	require.Len(t, result.Moved, 1)
	assert.Equal(t, byPath.ID, result.Moved[0].ID)

	got, err := repo.Get(ctx, byBranch.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusInProgress, got.Status)
}

func TestMoveToReviewFallsBackToBranchThenWindow(t *testing.T) {
	ops, repo := newTicketOps(t)
	ctx := context.Background()

	byWindow := &db.Ticket{Title: "By window", Status: db.StatusTodo, TmuxWindowName: "ushadow-foo"}
	require.NoError(t, repo.Create(ctx, byWindow))

	result, err := ops.MoveToReview(ctx, "ushadow-foo")
	require.NoError(t, err)
	require.Len(t, result.Moved, 1)
	assert.Equal(t, db.StatusInReview, result.Moved[0].Status)
}

func TestMoveToReviewSkipsReviewAndDone(t *testing.T) {
	ops, repo := newTicketOps(t)
	ctx := context.Background()

	inProgress := &db.Ticket{Title: "Working", Status: db.StatusInProgress, BranchName: "foo"}
	inReview := &db.Ticket{Title: "Reviewing", Status: db.StatusInReview, BranchName: "foo"}
	done := &db.Ticket{Title: "Finished", Status: db.StatusDone, BranchName: "foo"}
	backlog := &db.Ticket{Title: "Queued", Status: db.StatusBacklog, BranchName: "foo"}
	for _, ticket := range []*db.Ticket{inProgress, inReview, done, backlog} {
		require.NoError(t, repo.Create(ctx, ticket))
	}

	result, err := ops.MoveToReview(ctx, "foo")
	require.NoError(t, err)

	assert.Len(t, result.Moved, 2)
	assert.Len(t, result.Skipped, 2)

	got, err := repo.Get(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusDone, got.Status)

	got, err = repo.Get(ctx, backlog.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusInReview, got.Status)
}

func TestMoveToReviewNoMatchesIsNotAnError(t *testing.T) {
	ops, _ := newTicketOps(t)

	result, err := ops.MoveToReview(context.Background(), "no-such-env")
	require.NoError(t, err)
	assert.Empty(t, result.Moved)
	assert.Empty(t, result.Skipped)
}

func TestMoveToReviewEmptyIdentifier(t *testing.T) {
	ops, _ := newTicketOps(t)

	_, err := ops.MoveToReview(context.Background(), "")
	assert.Error(t, err)
}

func TestMoveToDoneSkipsAlreadyDone(t *testing.T) {
	ops, repo := newTicketOps(t)
	ctx := context.Background()

	active := &db.Ticket{Title: "Active", Status: db.StatusInReview, BranchName: "foo"}
	finished := &db.Ticket{Title: "Finished", Status: db.StatusDone, BranchName: "foo"}
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, finished))

	result, err := ops.MoveToDone(ctx, "foo")
	require.NoError(t, err)
	assert.Len(t, result.Moved, 1)
	assert.Len(t, result.Skipped, 1)
}

func TestMoveToProgress(t *testing.T) {
	ops, repo := newTicketOps(t)
	ctx := context.Background()

	ticket := &db.Ticket{Title: "Pick up", Status: db.StatusTodo, BranchName: "foo"}
	require.NoError(t, repo.Create(ctx, ticket))

	result, err := ops.MoveToProgress(ctx, "foo")
	require.NoError(t, err)
	require.Len(t, result.Moved, 1)

	got, err := repo.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusInProgress, got.Status)
}

func TestSetStatus(t *testing.T) {
	ops, repo := newTicketOps(t)
	ctx := context.Background()

	ticket := &db.Ticket{Title: "Direct", Status: db.StatusBacklog}
	require.NoError(t, repo.Create(ctx, ticket))

	require.NoError(t, ops.SetStatus(ctx, ticket.ID, db.StatusArchived))

	got, err := repo.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusArchived, got.Status)
}

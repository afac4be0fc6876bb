package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ush/internal/config"
	"ush/internal/db"
	"ush/internal/operations"
	"ush/internal/server"
	"ush/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTicketServer(t *testing.T) (http.Handler, *db.TicketRepository) {
	t.Helper()

	database := testutil.SetupTestDB(t)
	repo := db.NewTicketRepository(database)

	srv := server.New(server.DefaultConfig(), config.NewAppContext(config.AppState{
		Project: config.DefaultProjectConfig(),
	}))
	srv.SetDependencies(nil, operations.NewTicketOperations(repo), nil, database)

	return srv.Handler(), repo
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateTicketEndpoint(t *testing.T) {
	handler, _ := setupTicketServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/tickets",
		`{"title": "Fix login flow", "branch_name": "fix-login"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var ticket db.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "Fix login flow", ticket.Title)
	assert.Equal(t, db.StatusBacklog, ticket.Status)
	assert.Equal(t, "fix-login", ticket.BranchName)
}

func TestCreateTicketRejectsEmptyTitle(t *testing.T) {
	handler, _ := setupTicketServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/tickets", `{"title": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTicketNotFound(t *testing.T) {
	handler, _ := setupTicketServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/tickets/no-such-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTicketStatusEndpoint(t *testing.T) {
	handler, repo := setupTicketServer(t)

	ticket := &db.Ticket{Title: "Wire up webhooks"}
	require.NoError(t, repo.Create(context.Background(), ticket))

	rec := doJSON(t, handler, http.MethodPut, "/api/tickets/"+ticket.ID+"/status",
		`{"status": "in_progress"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusInProgress, updated.Status)
}

func TestUpdateTicketStatusRejectsUnknownStatus(t *testing.T) {
	handler, repo := setupTicketServer(t)

	ticket := &db.Ticket{Title: "Wire up webhooks"}
	require.NoError(t, repo.Create(context.Background(), ticket))

	rec := doJSON(t, handler, http.MethodPut, "/api/tickets/"+ticket.ID+"/status",
		`{"status": "doing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTicketsFiltersByStatus(t *testing.T) {
	handler, repo := setupTicketServer(t)

	require.NoError(t, repo.Create(context.Background(), &db.Ticket{Title: "A", Status: db.StatusTodo}))
	require.NoError(t, repo.Create(context.Background(), &db.Ticket{Title: "B", Status: db.StatusDone}))

	rec := doJSON(t, handler, http.MethodGet, "/api/tickets?status=todo", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tickets []db.Ticket `json:"tickets"`
		Total   int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "A", resp.Tickets[0].Title)
}

func TestDeleteTicketEndpoint(t *testing.T) {
	handler, repo := setupTicketServer(t)

	ticket := &db.Ticket{Title: "Remove me"}
	require.NoError(t, repo.Create(context.Background(), ticket))

	rec := doJSON(t, handler, http.MethodDelete, "/api/tickets/"+ticket.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := repo.Get(context.Background(), ticket.ID)
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := setupTicketServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

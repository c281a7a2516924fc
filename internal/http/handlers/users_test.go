package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

type fakeCRM struct {
	users []domain.User
	err   error
}

func (f *fakeCRM) List(context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func seededUsersApp(t *testing.T) *App {
	t.Helper()
	users := repo.NewUserRepositoryMem()
	for i, email := range []string{"a@example.com", "b@example.com"} {
		_, err := users.Create(context.Background(), &domain.User{
			ID:           email,
			FirstName:    "User",
			Email:        email,
			RegisteredAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return &App{Logger: zerolog.Nop(), Users: users}
}

func TestUsersListFromRepository(t *testing.T) {
	app := seededUsersApp(t)

	rr := httptest.NewRecorder()
	app.UsersList(rr, httptest.NewRequest("GET", "/v1/users", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload struct {
		OK    bool      `json:"ok"`
		Users []userDTO `json:"users"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK || len(payload.Users) != 2 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestUsersListFromCRM(t *testing.T) {
	app := seededUsersApp(t)
	app.CRM = &fakeCRM{users: []domain.User{{ID: "rec1", Email: "crm@example.com"}}}

	rr := httptest.NewRecorder()
	app.UsersList(rr, httptest.NewRequest("GET", "/v1/users?source=crm", nil))
	var payload struct {
		Users []userDTO `json:"users"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Users) != 1 || payload.Users[0].ID != "rec1" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestUsersListCRMUnavailable(t *testing.T) {
	app := seededUsersApp(t)

	rr := httptest.NewRecorder()
	app.UsersList(rr, httptest.NewRequest("GET", "/v1/users?source=crm", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestUsersListCRMFailure(t *testing.T) {
	app := seededUsersApp(t)
	app.CRM = &fakeCRM{err: errors.New("airtable status 500")}

	rr := httptest.NewRecorder()
	app.UsersList(rr, httptest.NewRequest("GET", "/v1/users?source=crm", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestUsersStats(t *testing.T) {
	app := seededUsersApp(t)

	rr := httptest.NewRecorder()
	app.UsersStats(rr, httptest.NewRequest("GET", "/v1/users/stats", nil))
	var payload struct {
		OK         bool  `json:"ok"`
		TotalUsers int64 `json:"total_users"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK || payload.TotalUsers != 2 {
		t.Fatalf("payload = %+v", payload)
	}
}

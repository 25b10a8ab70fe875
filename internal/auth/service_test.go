package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
)

func newTestService() *Service {
	return NewService(ServiceConfig{
		Clock: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestLoginSucceedsForSeededUser(t *testing.T) {
	service := newTestService()

	session, err := service.Login("alice@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.User.ID != "1" || session.User.Username != "alice_coder" || session.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %#v", session.User)
	}
	if session.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !strings.HasPrefix(session.Token, "mock_token_1_") {
		t.Fatalf("unexpected token shape: %q", session.Token)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	service := newTestService()

	session, err := service.Login("  Alice@Example.COM  ", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.User.ID != "1" {
		t.Fatalf("expected alice, got %#v", session.User)
	}
}

func TestLoginRejectsBlankInputs(t *testing.T) {
	service := newTestService()

	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{name: "blank email", email: "  ", password: "password", want: "Email is required"},
		{name: "blank password", email: "alice@example.com", password: "", want: "Password is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Login(tc.email, tc.password)
			if !apperr.IsAuth(err) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if err.Error() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	service := newTestService()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "mallory@example.com", password: "password"},
		{name: "wrong password", email: "alice@example.com", password: "hunter2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Login(tc.email, tc.password)
			if !apperr.IsAuth(err) || err.Error() != "Invalid email or password" {
				t.Fatalf("expected invalid credentials error, got %v", err)
			}
		})
	}
}

func TestRegisterAlwaysSucceeds(t *testing.T) {
	service := newTestService()

	session, err := service.Register("new_user", "new@example.com", "anything")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	user := session.User
	if user.Points != 0 || user.Streak != 0 || user.Level != 1 {
		t.Fatalf("unexpected starting counters: %#v", user)
	}
	if user.Badges == nil || len(user.Badges) != 0 {
		t.Fatalf("expected empty badge list, got %#v", user.Badges)
	}
	if !strings.HasPrefix(user.ID, "user_") {
		t.Fatalf("unexpected id: %q", user.ID)
	}
	if session.Token != "mock_token_"+user.ID {
		t.Fatalf("unexpected token: %q", session.Token)
	}

	// No duplicate-email check, by demo semantics.
	if _, err := service.Register("again", "new@example.com", "x"); err != nil {
		t.Fatalf("duplicate registration must succeed: %v", err)
	}
}

func TestFindByID(t *testing.T) {
	service := newTestService()

	user, err := service.FindByID("2")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user.Username != "bob_dev" {
		t.Fatalf("unexpected user: %#v", user)
	}

	if _, err := service.FindByID("missing"); !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateProfileMergesFields(t *testing.T) {
	service := newTestService()

	username := "alice_renamed"
	updated, err := service.UpdateProfile("1", ProfileUpdate{Username: &username})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "alice_renamed" {
		t.Fatalf("username not updated: %#v", updated)
	}
	if updated.Email != "alice@example.com" {
		t.Fatalf("untouched field changed: %#v", updated)
	}

	persisted, err := service.FindByID("1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if persisted.Username != "alice_renamed" {
		t.Fatalf("update not retained: %#v", persisted)
	}
}

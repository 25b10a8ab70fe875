// Package auth owns platform user accounts, demo credential checks, and
// session token issuing.
package auth

import (
	"strings"

	"github.com/dsaplatform/backend/internal/gamification"
)

// User is a platform account with its gamification counters.
type User struct {
	ID        string               `json:"id"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	Avatar    string               `json:"avatar,omitempty"`
	Points    int                  `json:"points"`
	Streak    int                  `json:"streak"`
	Level     int                  `json:"level"`
	Badges    []gamification.Badge `json:"badges"`
	CreatedAt string               `json:"createdAt"`
}

// Session pairs an authenticated user with their opaque token.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func seedUsers() []User {
	return []User{
		{
			ID:        "1",
			Username:  "alice_coder",
			Email:     "alice@example.com",
			Points:    1250,
			Streak:    7,
			Level:     5,
			Badges:    []gamification.Badge{},
			CreatedAt: "2024-01-15T10:00:00Z",
		},
		{
			ID:        "2",
			Username:  "bob_dev",
			Email:     "bob@example.com",
			Points:    980,
			Streak:    3,
			Level:     4,
			Badges:    []gamification.Badge{},
			CreatedAt: "2024-01-20T10:00:00Z",
		},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

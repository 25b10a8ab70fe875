package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
	"github.com/dsaplatform/backend/internal/catalog"
	"github.com/dsaplatform/backend/internal/storage"
)

func staticToken(token string) TokenSource {
	return func() string { return token }
}

func testCatalog(t *testing.T) *catalog.Repository {
	t.Helper()

	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	repo, err := catalog.NewRepository(catalog.RepositoryConfig{
		Store: storage.NewMemoryStore(),
		Clock: clock,
	})
	if err != nil {
		t.Fatalf("catalog repository: %v", err)
	}
	return repo
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": status < 300,
		"data":    data,
		"message": message,
	})
}

func TestLoginReturnsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "alice@example.com" {
			t.Fatalf("unexpected email %q", body["email"])
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"user":        map[string]any{"id": "1", "username": "alice_coder"},
			"accessToken": "jwt-token",
		}, "")
	}))
	defer server.Close()

	c, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	session, err := c.Login(context.Background(), "alice@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.User.ID != "1" || session.Token != "jwt-token" {
		t.Fatalf("unexpected session: %#v", session)
	}
}

func TestLoginRejectionIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid email or password")
	}))
	defer server.Close()

	c, _ := New(Config{BaseURL: server.URL})
	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	if !apperr.IsAuth(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if err.Error() != "Invalid email or password" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestExpiredSessionMapsToSessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "")
	}))
	defer server.Close()

	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("stale")})
	_, err := c.CompleteLesson(context.Background(), "lesson-chapter-1-1-1")
	if err != apperr.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthorizedCallWithoutTokenFailsFast(t *testing.T) {
	c, _ := New(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.GetUserProgress(context.Background())
	if !apperr.IsAuth(err) {
		t.Fatalf("expected AuthError without token, got %v", err)
	}
}

func TestProgressDegradesToEmptyOnConnectivityFailure(t *testing.T) {
	// Closed server: the dial fails, which must read as no completions
	// rather than an error.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("jwt")})
	ids, err := c.GetUserProgress(context.Background())
	if err != nil {
		t.Fatalf("expected graceful degrade, got %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %#v", ids)
	}
}

func TestProgressReturnsServerIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer jwt" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		writeEnvelope(w, http.StatusOK, []int{1, 2, 5}, "")
	}))
	defer server.Close()

	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("jwt")})
	ids, err := c.GetUserProgress(context.Background())
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 5 {
		t.Fatalf("unexpected ids %#v", ids)
	}
}

func TestCompleteLessonSyncsLocalCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lessons/lesson-chapter-1-1-1/complete" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, nil, "")
	}))
	defer server.Close()

	repo := testCatalog(t)
	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("jwt"), Catalog: repo})
	lesson, err := c.CompleteLesson(context.Background(), "lesson-chapter-1-1-1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !lesson.Completed {
		t.Fatalf("lesson not completed: %#v", lesson)
	}
	if lesson.PendingSync {
		t.Fatalf("synced completion must not be pending: %#v", lesson)
	}
}

func TestCompleteLessonFallsBackToPendingSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	repo := testCatalog(t)
	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("jwt"), Catalog: repo})
	lesson, err := c.CompleteLesson(context.Background(), "lesson-chapter-1-1-1")
	if err != nil {
		t.Fatalf("expected local fallback, got %v", err)
	}
	if !lesson.Completed || !lesson.PendingSync {
		t.Fatalf("expected completed pending-sync lesson, got %#v", lesson)
	}
}

func TestChatRateLimitIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusTooManyRequests, nil, "slow down")
	}))
	defer server.Close()

	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("jwt")})
	_, err := c.SendChatMessage(context.Background(), "arrays?", nil)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for rate limit, got %v", err)
	}
}

func TestChatReplyIsAssistantMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["message"] != "arrays?" {
			t.Fatalf("unexpected message %v", body["message"])
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"id":        "msg_1",
			"content":   "Arrays are fundamental...",
			"timestamp": "2024-03-01T12:00:00Z",
		}, "")
	}))
	defer server.Close()

	c, _ := New(Config{BaseURL: server.URL, Token: staticToken("jwt")})
	reply, err := c.SendChatMessage(context.Background(), "arrays?", nil)
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if reply.Role != "assistant" || reply.ID != "msg_1" {
		t.Fatalf("unexpected reply %#v", reply)
	}
}

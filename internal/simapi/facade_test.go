package simapi

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
	"github.com/dsaplatform/backend/internal/auth"
	"github.com/dsaplatform/backend/internal/catalog"
	"github.com/dsaplatform/backend/internal/chat"
	"github.com/dsaplatform/backend/internal/gamification"
	"github.com/dsaplatform/backend/internal/notes"
	"github.com/dsaplatform/backend/internal/progress"
	"github.com/dsaplatform/backend/internal/storage"
)

func instantSleep(_ context.Context, _ time.Duration) error {
	return nil
}

func newTestFacade(t *testing.T, fault Fault) (*Facade, *progress.Tracker, storage.KeyValue) {
	t.Helper()

	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	kv := storage.NewMemoryStore()

	noteRepo, err := notes.NewRepository(notes.RepositoryConfig{Store: kv, Clock: clock})
	if err != nil {
		t.Fatalf("note repository: %v", err)
	}
	catalogRepo, err := catalog.NewRepository(catalog.RepositoryConfig{Store: kv, Clock: clock})
	if err != nil {
		t.Fatalf("catalog repository: %v", err)
	}
	tracker := progress.NewTracker()

	facade, err := New(Config{
		Auth:         auth.NewService(auth.ServiceConfig{Clock: clock}),
		Notes:        noteRepo,
		Catalog:      catalogRepo,
		Gamification: gamification.NewService(),
		Responder:    chat.NewResponder(clock),
		Tracker:      tracker,
		Store:        kv,
		Sleep:        instantSleep,
		Fault:        fault,
	})
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	return facade, tracker, kv
}

func TestLoginContract(t *testing.T) {
	facade, _, _ := newTestFacade(t, nil)
	ctx := context.Background()

	response, err := facade.Login(ctx, "alice@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if response.Data.User.ID != "1" || response.Data.Token == "" {
		t.Fatalf("unexpected session: %#v", response.Data)
	}

	if _, err := facade.Login(ctx, "alice@example.com", "wrong"); !apperr.IsAuth(err) {
		t.Fatalf("expected AuthError for wrong password, got %v", err)
	}
	if _, err := facade.Login(ctx, "", "password"); err == nil || err.Error() != "Email is required" {
		t.Fatalf("expected blank-email error, got %v", err)
	}
}

func TestFaultInjectionShortCircuits(t *testing.T) {
	injected := errors.New("injected outage")
	facade, _, _ := newTestFacade(t, func(operation string) error {
		if operation == "list_courses" {
			return injected
		}
		return nil
	})

	if _, err := facade.ListCourses(context.Background()); !errors.Is(err, injected) {
		t.Fatalf("expected injected fault, got %v", err)
	}
	if _, err := facade.GetCourse(context.Background(), "1"); err != nil {
		t.Fatalf("other operations must be unaffected: %v", err)
	}
}

func TestLatencyHonorsContextCancellation(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	kv := storage.NewMemoryStore()
	noteRepo, _ := notes.NewRepository(notes.RepositoryConfig{Store: kv, Clock: clock})
	catalogRepo, _ := catalog.NewRepository(catalog.RepositoryConfig{Store: kv, Clock: clock})

	facade, err := New(Config{
		Auth:         auth.NewService(auth.ServiceConfig{Clock: clock}),
		Notes:        noteRepo,
		Catalog:      catalogRepo,
		Gamification: gamification.NewService(),
		Responder:    chat.NewResponder(clock),
		Tracker:      progress.NewTracker(),
		Store:        kv,
	})
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := facade.ListCourses(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNoteLifecycleThroughFacade(t *testing.T) {
	facade, _, _ := newTestFacade(t, nil)
	ctx := context.Background()

	created, err := facade.CreateNote(ctx, notes.CreateRequest{
		UserID:   "u1",
		LessonID: "lesson-1",
		Title:    "T",
		Content:  "C",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "T2"
	if _, err := facade.UpdateNote(ctx, created.Data.ID, notes.Patch{Title: &title}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	fetched, err := facade.GetNote(ctx, created.Data.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Data.Title != "T2" {
		t.Fatalf("expected updated title, got %q", fetched.Data.Title)
	}

	if err := facade.DeleteNote(ctx, created.Data.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := facade.GetNote(ctx, created.Data.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}

func TestCompleteLessonUpdatesTracker(t *testing.T) {
	facade, tracker, _ := newTestFacade(t, nil)
	ctx := context.Background()

	lessonID := "lesson-chapter-1-1-1"
	response, err := facade.CompleteLesson(ctx, "u1", lessonID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !response.Data.Completed {
		t.Fatalf("lesson not completed: %#v", response.Data)
	}
	if !tracker.Contains("u1", 1) {
		t.Fatalf("expected numeric id 1 recorded for u1")
	}
	if tracker.Contains("u2", 1) {
		t.Fatalf("completion leaked to another user")
	}
}

func TestLogoutClearsCompletedSet(t *testing.T) {
	facade, tracker, _ := newTestFacade(t, nil)
	ctx := context.Background()

	tracker.Replace("u1", []int{1, 2, 3})
	if err := facade.Logout(ctx, "u1"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if got := tracker.Completed("u1"); len(got) != 0 {
		t.Fatalf("expected cleared set, got %#v", got)
	}
}

func TestLoginPersistsSessionAndLogoutClearsIt(t *testing.T) {
	facade, _, kv := newTestFacade(t, nil)
	ctx := context.Background()

	response, err := facade.Login(ctx, "alice@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	token, ok := kv.Get(storage.KeyAuthToken)
	if !ok || token != response.Data.Token {
		t.Fatalf("token not mirrored into storage: %q ok=%v", token, ok)
	}
	if _, ok := kv.Get(storage.KeyUser); !ok {
		t.Fatalf("user not mirrored into storage")
	}

	if err := facade.Logout(ctx, response.Data.User.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := kv.Get(storage.KeyAuthToken); ok {
		t.Fatalf("token survived logout")
	}
	if _, ok := kv.Get(storage.KeyUser); ok {
		t.Fatalf("user survived logout")
	}
}

func TestSendChatMessagePersistsHistory(t *testing.T) {
	facade, _, kv := newTestFacade(t, nil)
	ctx := context.Background()

	response, err := facade.SendChatMessage(ctx, "tell me about queues")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if !strings.HasPrefix(response.Data.Content, "A queue is a FIFO") {
		t.Fatalf("unexpected reply: %q", response.Data.Content)
	}

	history := storage.ReadRecords(kv, storage.KeyChatHistory, []chat.Message{})
	if len(history) != 2 {
		t.Fatalf("expected user+assistant entries, got %d", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "assistant" {
		t.Fatalf("unexpected history roles: %#v", history)
	}
}

func TestUserStatsReflectsCatalogState(t *testing.T) {
	facade, _, _ := newTestFacade(t, nil)
	ctx := context.Background()

	if _, err := facade.Enroll(ctx, "1"); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	stats, err := facade.UserStats(ctx, "1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Data.Points != 1250 || stats.Data.Streak != 7 || stats.Data.Level != 5 {
		t.Fatalf("seeded user fields not carried: %#v", stats.Data)
	}
	if stats.Data.EnrolledCourses != 1 || stats.Data.CompletedCourses != 0 {
		t.Fatalf("unexpected course counters: %#v", stats.Data)
	}
}

func TestBadgesAndLeaderboard(t *testing.T) {
	facade, _, _ := newTestFacade(t, nil)
	ctx := context.Background()

	badges, err := facade.Badges(ctx)
	if err != nil {
		t.Fatalf("badges failed: %v", err)
	}
	if len(badges.Data) != 6 {
		t.Fatalf("expected 6 badges, got %d", len(badges.Data))
	}

	earned, err := facade.UserBadges(ctx, "1")
	if err != nil {
		t.Fatalf("user badges failed: %v", err)
	}
	if len(earned.Data) != 2 {
		t.Fatalf("expected 2 earned badges, got %d", len(earned.Data))
	}

	board, err := facade.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(board.Data) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board.Data))
	}
}

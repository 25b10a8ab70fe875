// Package simapi wraps the repositories behind an async-shaped, fallible
// interface with per-call latency, emulating the remote API contract so that
// callers written against it can later be pointed at a real backend.
package simapi

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dsaplatform/backend/internal/auth"
	"github.com/dsaplatform/backend/internal/catalog"
	"github.com/dsaplatform/backend/internal/chat"
	"github.com/dsaplatform/backend/internal/gamification"
	"github.com/dsaplatform/backend/internal/notes"
	"github.com/dsaplatform/backend/internal/progress"
	"github.com/dsaplatform/backend/internal/storage"
	"go.uber.org/zap"
)

// Per-method latency constants. Magnitudes mirror the delays the web
// client's mock API always ran with; they are not configurable per call.
const (
	delayLogin          = 800 * time.Millisecond
	delayRegister       = 1000 * time.Millisecond
	delayLogout         = 300 * time.Millisecond
	delayListCourses    = 600 * time.Millisecond
	delayGetCourse      = 500 * time.Millisecond
	delayEnroll         = 700 * time.Millisecond
	delayGetChapter     = 400 * time.Millisecond
	delayGetLesson      = 400 * time.Millisecond
	delayCompleteLesson = 500 * time.Millisecond
	delayListNotes      = 400 * time.Millisecond
	delayGetNote        = 300 * time.Millisecond
	delayCreateNote     = 500 * time.Millisecond
	delayUpdateNote     = 500 * time.Millisecond
	delayDeleteNote     = 400 * time.Millisecond
	delayBadges         = 400 * time.Millisecond
	delayLeaderboard    = 500 * time.Millisecond
	delayChat           = 1000 * time.Millisecond
	delayProfile        = 400 * time.Millisecond
)

var (
	errMissingAuthService   = errors.New("auth service is required")
	errMissingNoteRepo      = errors.New("note repository is required")
	errMissingCatalogRepo   = errors.New("catalog repository is required")
	errMissingGamification  = errors.New("gamification service is required")
	errMissingChatResponder = errors.New("chat responder is required")
	errMissingTracker       = errors.New("progress tracker is required")
	noOpLogger              = zap.NewNop()
)

// Response is the success envelope every facade method resolves with.
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Sleeper waits out the artificial latency, returning early only when the
// context is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Fault lets tests and demos inject failures per operation name. A nil
// return means the operation proceeds.
type Fault func(operation string) error

// Config describes the facade's collaborators.
type Config struct {
	Auth         *auth.Service
	Notes        *notes.Repository
	Catalog      *catalog.Repository
	Gamification *gamification.Service
	Responder    *chat.Responder
	Tracker      *progress.Tracker
	Store        storage.KeyValue
	Sleep        Sleeper
	Fault        Fault
	Logger       *zap.Logger
}

// Facade is the simulated remote API.
type Facade struct {
	auth         *auth.Service
	notes        *notes.Repository
	catalog      *catalog.Repository
	gamification *gamification.Service
	responder    *chat.Responder
	tracker      *progress.Tracker
	store        storage.KeyValue
	sleep        Sleeper
	fault        Fault
	logger       *zap.Logger
}

// New validates dependencies and constructs the facade.
func New(cfg Config) (*Facade, error) {
	if cfg.Auth == nil {
		return nil, errMissingAuthService
	}
	if cfg.Notes == nil {
		return nil, errMissingNoteRepo
	}
	if cfg.Catalog == nil {
		return nil, errMissingCatalogRepo
	}
	if cfg.Gamification == nil {
		return nil, errMissingGamification
	}
	if cfg.Responder == nil {
		return nil, errMissingChatResponder
	}
	if cfg.Tracker == nil {
		return nil, errMissingTracker
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = waitFor
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Facade{
		auth:         cfg.Auth,
		notes:        cfg.Notes,
		catalog:      cfg.Catalog,
		gamification: cfg.Gamification,
		responder:    cfg.Responder,
		tracker:      cfg.Tracker,
		store:        cfg.Store,
		sleep:        sleep,
		fault:        cfg.Fault,
		logger:       logger,
	}, nil
}

func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Facade) begin(ctx context.Context, operation string, d time.Duration) error {
	if err := f.sleep(ctx, d); err != nil {
		return err
	}
	if f.fault == nil {
		return nil
	}
	if err := f.fault(operation); err != nil {
		f.logger.Debug("injected fault", zap.String("operation", operation), zap.Error(err))
		return err
	}
	return nil
}

// Login authenticates against the seeded accounts.
func (f *Facade) Login(ctx context.Context, email, password string) (Response[auth.Session], error) {
	if err := f.begin(ctx, "login", delayLogin); err != nil {
		return Response[auth.Session]{}, err
	}
	session, err := f.auth.Login(email, password)
	if err != nil {
		return Response[auth.Session]{}, err
	}
	f.persistSession(session)
	return Response[auth.Session]{Data: session}, nil
}

// Register creates a throwaway demo account.
func (f *Facade) Register(ctx context.Context, username, email, password string) (Response[auth.Session], error) {
	if err := f.begin(ctx, "register", delayRegister); err != nil {
		return Response[auth.Session]{}, err
	}
	session, err := f.auth.Register(username, email, password)
	if err != nil {
		return Response[auth.Session]{}, err
	}
	f.persistSession(session)
	return Response[auth.Session]{Data: session}, nil
}

// Logout ends the session and discards the user's completed-lesson set.
func (f *Facade) Logout(ctx context.Context, userID string) error {
	if err := f.begin(ctx, "logout", delayLogout); err != nil {
		return err
	}
	f.tracker.Clear(userID)
	if f.store != nil {
		if err := f.store.Remove(storage.KeyAuthToken); err != nil {
			f.logger.Warn("auth token removal failed", zap.Error(err))
		}
		if err := f.store.Remove(storage.KeyUser); err != nil {
			f.logger.Warn("stored user removal failed", zap.Error(err))
		}
	}
	return nil
}

// persistSession mirrors the session into storage under the same keys the
// web client reads at startup. Persistence failures are logged, not fatal;
// the session itself is already established.
func (f *Facade) persistSession(session auth.Session) {
	if f.store == nil {
		return
	}
	if err := f.store.Set(storage.KeyAuthToken, session.Token); err != nil {
		f.logger.Warn("auth token write failed", zap.Error(err))
	}
	encoded, err := json.Marshal(session.User)
	if err != nil {
		f.logger.Warn("user encode failed", zap.Error(err))
		return
	}
	if err := f.store.Set(storage.KeyUser, string(encoded)); err != nil {
		f.logger.Warn("stored user write failed", zap.Error(err))
	}
}

// ListCourses returns the full catalog.
func (f *Facade) ListCourses(ctx context.Context) (Response[[]catalog.Course], error) {
	if err := f.begin(ctx, "list_courses", delayListCourses); err != nil {
		return Response[[]catalog.Course]{}, err
	}
	courses, err := f.catalog.ListCourses()
	if err != nil {
		return Response[[]catalog.Course]{}, err
	}
	return Response[[]catalog.Course]{Data: courses}, nil
}

// GetCourse returns one course by id.
func (f *Facade) GetCourse(ctx context.Context, courseID string) (Response[catalog.Course], error) {
	if err := f.begin(ctx, "get_course", delayGetCourse); err != nil {
		return Response[catalog.Course]{}, err
	}
	course, err := f.catalog.GetCourseByID(courseID)
	if err != nil {
		return Response[catalog.Course]{}, err
	}
	return Response[catalog.Course]{Data: course}, nil
}

// Enroll stamps the enrollment time on a course.
func (f *Facade) Enroll(ctx context.Context, courseID string) (Response[catalog.Course], error) {
	if err := f.begin(ctx, "enroll", delayEnroll); err != nil {
		return Response[catalog.Course]{}, err
	}
	course, err := f.catalog.Enroll(courseID)
	if err != nil {
		return Response[catalog.Course]{}, err
	}
	return Response[catalog.Course]{Data: course}, nil
}

// GetChapter returns one chapter by course and chapter id.
func (f *Facade) GetChapter(ctx context.Context, courseID, chapterID string) (Response[catalog.Chapter], error) {
	if err := f.begin(ctx, "get_chapter", delayGetChapter); err != nil {
		return Response[catalog.Chapter]{}, err
	}
	chapter, err := f.catalog.GetChapterByID(courseID, chapterID)
	if err != nil {
		return Response[catalog.Chapter]{}, err
	}
	return Response[catalog.Chapter]{Data: chapter}, nil
}

// GetLesson returns one lesson by its full path.
func (f *Facade) GetLesson(ctx context.Context, courseID, chapterID, lessonID string) (Response[catalog.Lesson], error) {
	if err := f.begin(ctx, "get_lesson", delayGetLesson); err != nil {
		return Response[catalog.Lesson]{}, err
	}
	lesson, err := f.catalog.GetLessonByID(courseID, chapterID, lessonID)
	if err != nil {
		return Response[catalog.Lesson]{}, err
	}
	return Response[catalog.Lesson]{Data: lesson}, nil
}

// CompleteLesson marks the lesson complete for the user, updating both the
// stored course progress and the user's completed-lesson set.
func (f *Facade) CompleteLesson(ctx context.Context, userID, lessonID string) (Response[catalog.Lesson], error) {
	if err := f.begin(ctx, "complete_lesson", delayCompleteLesson); err != nil {
		return Response[catalog.Lesson]{}, err
	}
	lesson, err := f.catalog.CompleteLesson(lessonID)
	if err != nil {
		return Response[catalog.Lesson]{}, err
	}
	if numericID, ok := progress.LessonNumericID(lesson.ID); ok && userID != "" {
		f.tracker.Add(userID, numericID)
	}
	return Response[catalog.Lesson]{Data: lesson}, nil
}

// CompletedLessons returns the numeric ids of the lessons the user has
// completed this session.
func (f *Facade) CompletedLessons(ctx context.Context, userID string) (Response[[]int], error) {
	if err := f.begin(ctx, "user_progress", delayGetLesson); err != nil {
		return Response[[]int]{}, err
	}
	set := f.tracker.Completed(userID)
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return Response[[]int]{Data: ids}, nil
}

// ListNotes returns all notes, optionally filtered by lesson.
func (f *Facade) ListNotes(ctx context.Context, lessonID string) (Response[[]notes.Note], error) {
	if err := f.begin(ctx, "list_notes", delayListNotes); err != nil {
		return Response[[]notes.Note]{}, err
	}
	return Response[[]notes.Note]{Data: f.notes.List(lessonID)}, nil
}

// GetNote returns one note by id.
func (f *Facade) GetNote(ctx context.Context, noteID string) (Response[notes.Note], error) {
	if err := f.begin(ctx, "get_note", delayGetNote); err != nil {
		return Response[notes.Note]{}, err
	}
	note, err := f.notes.GetByID(noteID)
	if err != nil {
		return Response[notes.Note]{}, err
	}
	return Response[notes.Note]{Data: note}, nil
}

// CreateNote persists a new note and returns the created record.
func (f *Facade) CreateNote(ctx context.Context, req notes.CreateRequest) (Response[notes.Note], error) {
	if err := f.begin(ctx, "create_note", delayCreateNote); err != nil {
		return Response[notes.Note]{}, err
	}
	note, err := f.notes.Create(req)
	if err != nil {
		return Response[notes.Note]{}, err
	}
	return Response[notes.Note]{Data: note}, nil
}

// UpdateNote applies a partial edit to a note.
func (f *Facade) UpdateNote(ctx context.Context, noteID string, patch notes.Patch) (Response[notes.Note], error) {
	if err := f.begin(ctx, "update_note", delayUpdateNote); err != nil {
		return Response[notes.Note]{}, err
	}
	note, err := f.notes.Update(noteID, patch)
	if err != nil {
		return Response[notes.Note]{}, err
	}
	return Response[notes.Note]{Data: note}, nil
}

// DeleteNote removes a note permanently.
func (f *Facade) DeleteNote(ctx context.Context, noteID string) error {
	if err := f.begin(ctx, "delete_note", delayDeleteNote); err != nil {
		return err
	}
	return f.notes.Delete(noteID)
}

// Badges returns the badge catalog.
func (f *Facade) Badges(ctx context.Context) (Response[[]gamification.Badge], error) {
	if err := f.begin(ctx, "badges", delayBadges); err != nil {
		return Response[[]gamification.Badge]{}, err
	}
	return Response[[]gamification.Badge]{Data: f.gamification.Badges()}, nil
}

// UserBadges returns the badges the user has earned.
func (f *Facade) UserBadges(ctx context.Context, userID string) (Response[[]gamification.Badge], error) {
	if err := f.begin(ctx, "user_badges", delayBadges); err != nil {
		return Response[[]gamification.Badge]{}, err
	}
	return Response[[]gamification.Badge]{Data: f.gamification.UserBadges(userID)}, nil
}

// Leaderboard returns the ranked top entries.
func (f *Facade) Leaderboard(ctx context.Context, limit int) (Response[[]gamification.LeaderboardEntry], error) {
	if err := f.begin(ctx, "leaderboard", delayLeaderboard); err != nil {
		return Response[[]gamification.LeaderboardEntry]{}, err
	}
	return Response[[]gamification.LeaderboardEntry]{Data: f.gamification.Leaderboard(limit)}, nil
}

// SendChatMessage answers from the topic table and appends both sides of the
// exchange to the persisted chat history. The mock path never fails.
func (f *Facade) SendChatMessage(ctx context.Context, message string) (Response[chat.Message], error) {
	if err := f.begin(ctx, "chat", delayChat); err != nil {
		return Response[chat.Message]{}, err
	}

	reply := f.responder.Reply(message)
	if f.store != nil {
		history := storage.ReadRecords(f.store, storage.KeyChatHistory, []chat.Message{})
		history = append(history,
			chat.Message{ID: "user_" + reply.ID, Role: "user", Content: message, Timestamp: reply.Timestamp},
			reply,
		)
		if err := storage.WriteRecords(f.store, storage.KeyChatHistory, history); err != nil {
			f.logger.Warn("chat history write failed", zap.Error(err))
		}
	}
	return Response[chat.Message]{Data: reply}, nil
}

// UserProfile returns a user by id.
func (f *Facade) UserProfile(ctx context.Context, userID string) (Response[auth.User], error) {
	if err := f.begin(ctx, "user_profile", delayProfile); err != nil {
		return Response[auth.User]{}, err
	}
	user, err := f.auth.FindByID(userID)
	if err != nil {
		return Response[auth.User]{}, err
	}
	return Response[auth.User]{Data: user}, nil
}

// UserStats derives the profile summary from the user record and the stored
// catalog state.
func (f *Facade) UserStats(ctx context.Context, userID string) (Response[gamification.UserStats], error) {
	if err := f.begin(ctx, "user_stats", delayProfile); err != nil {
		return Response[gamification.UserStats]{}, err
	}
	user, err := f.auth.FindByID(userID)
	if err != nil {
		return Response[gamification.UserStats]{}, err
	}
	courses, err := f.catalog.ListCourses()
	if err != nil {
		return Response[gamification.UserStats]{}, err
	}
	stats := gamification.BuildUserStats(user.Points, user.Streak, user.Level, courses)
	return Response[gamification.UserStats]{Data: stats}, nil
}

// UpdateUserProfile merges a partial profile edit.
func (f *Facade) UpdateUserProfile(ctx context.Context, userID string, update auth.ProfileUpdate) (Response[auth.User], error) {
	if err := f.begin(ctx, "update_user_profile", delayProfile); err != nil {
		return Response[auth.User]{}, err
	}
	user, err := f.auth.UpdateProfile(userID, update)
	if err != nil {
		return Response[auth.User]{}, err
	}
	return Response[auth.User]{Data: user}, nil
}

package catalog

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
	"github.com/dsaplatform/backend/internal/storage"
	"go.uber.org/zap"
)

var (
	errMissingStore = errors.New("storage port is required")
	noOpLogger      = zap.NewNop()
)

// RepositoryConfig describes the dependencies of the catalog repository.
type RepositoryConfig struct {
	Store  storage.KeyValue
	Clock  func() time.Time
	Seed   func() []Course
	Logger *zap.Logger
}

// Repository reads and writes the full course tree. The first read with no
// persisted data writes the static seed through, so every later read observes
// the persisted copy exclusively.
type Repository struct {
	mu     sync.Mutex
	store  storage.KeyValue
	clock  func() time.Time
	seed   func() []Course
	logger *zap.Logger
}

// NewRepository constructs the repository with defaults for optional fields.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	seed := cfg.Seed
	if seed == nil {
		seed = SeedCourses
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Repository{
		store:  cfg.Store,
		clock:  clock,
		seed:   seed,
		logger: logger,
	}, nil
}

// ListCourses returns the persisted catalog, seeding it on first access.
func (r *Repository) ListCourses() ([]Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// GetCourseByID returns the course with the given id.
func (r *Repository) GetCourseByID(courseID string) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load()
	if err != nil {
		return Course{}, err
	}
	for _, course := range courses {
		if course.ID == courseID {
			return course, nil
		}
	}
	return Course{}, apperr.NewNotFound("Course")
}

// GetChapterByID returns one chapter, cascading the course-then-chapter
// not-found checks.
func (r *Repository) GetChapterByID(courseID, chapterID string) (Chapter, error) {
	course, err := r.GetCourseByID(courseID)
	if err != nil {
		return Chapter{}, err
	}
	for _, chapter := range course.Chapters {
		if chapter.ID == chapterID {
			return chapter, nil
		}
	}
	return Chapter{}, apperr.NewNotFound("Chapter")
}

// GetLessonByID returns one lesson, cascading all three not-found checks.
func (r *Repository) GetLessonByID(courseID, chapterID, lessonID string) (Lesson, error) {
	chapter, err := r.GetChapterByID(courseID, chapterID)
	if err != nil {
		return Lesson{}, err
	}
	for _, lesson := range chapter.Lessons {
		if lesson.ID == lessonID {
			return lesson, nil
		}
	}
	return Lesson{}, apperr.NewNotFound("Lesson")
}

// Enroll stamps the course's enrollment time and persists. Re-enrollment is
// not rejected; it simply overwrites the timestamp.
func (r *Repository) Enroll(courseID string) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load()
	if err != nil {
		return Course{}, err
	}
	for i := range courses {
		if courses[i].ID != courseID {
			continue
		}
		courses[i].EnrolledAt = r.clock().UTC().Format(time.RFC3339)
		if err := r.persist(courses); err != nil {
			return Course{}, err
		}
		return courses[i], nil
	}
	return Course{}, apperr.NewNotFound("Course")
}

// CompleteLesson searches every course for the lesson (ids are globally
// unique; first match wins), marks it completed, recomputes the owning
// course's stored progress over all of its lessons, and persists.
func (r *Repository) CompleteLesson(lessonID string) (Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.mutateLesson(lessonID, func(lesson *Lesson) {
		lesson.Completed = true
		lesson.PendingSync = false
	})
}

// FlagPendingSync marks a locally completed lesson whose backend write
// failed, so a later sync can reconcile it.
func (r *Repository) FlagPendingSync(lessonID string) (Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.mutateLesson(lessonID, func(lesson *Lesson) {
		lesson.Completed = true
		lesson.PendingSync = true
	})
}

func (r *Repository) mutateLesson(lessonID string, mutate func(*Lesson)) (Lesson, error) {
	courses, err := r.load()
	if err != nil {
		return Lesson{}, err
	}

	for ci := range courses {
		for chi := range courses[ci].Chapters {
			lessons := courses[ci].Chapters[chi].Lessons
			for li := range lessons {
				if lessons[li].ID != lessonID {
					continue
				}
				mutate(&lessons[li])
				courses[ci].Progress = roundPercent(courses[ci].CompletedLessons(), courses[ci].TotalLessons())
				if err := r.persist(courses); err != nil {
					return Lesson{}, err
				}
				r.logger.Debug("lesson completion persisted",
					zap.String("lesson_id", lessonID),
					zap.Int("course_progress", courses[ci].Progress))
				return lessons[li], nil
			}
		}
	}
	return Lesson{}, apperr.NewNotFound("Lesson")
}

// roundPercent computes round(100*completed/total) with round-half-up,
// returning 0 when the course has no lessons.
func roundPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func (r *Repository) load() ([]Course, error) {
	if raw, ok := r.store.Get(storage.KeyCourses); ok && raw != "" {
		return storage.ReadRecords(r.store, storage.KeyCourses, r.seed()), nil
	}

	seeded := r.seed()
	if err := r.persist(seeded); err != nil {
		return nil, err
	}
	r.logger.Info("course catalog seeded", zap.Int("courses", len(seeded)))
	return seeded, nil
}

func (r *Repository) persist(courses []Course) error {
	if err := storage.WriteRecords(r.store, storage.KeyCourses, courses); err != nil {
		r.logger.Error("course catalog write failed", zap.Error(err))
		return err
	}
	return nil
}

package notes

import (
	"errors"
	"fmt"
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

// IDProvider issues identifiers for newly created notes.
type IDProvider interface {
	NewID() string
}

type timestampIDProvider struct {
	clock func() time.Time
}

// NewTimestampIDProvider issues note_<unix-millis> identifiers, matching the
// id scheme of the web client's persisted notes.
func NewTimestampIDProvider(clock func() time.Time) IDProvider {
	if clock == nil {
		clock = time.Now
	}
	return &timestampIDProvider{clock: clock}
}

func (p *timestampIDProvider) NewID() string {
	return fmt.Sprintf("note_%d", p.clock().UnixMilli())
}

// RepositoryConfig describes the dependencies of the note repository.
type RepositoryConfig struct {
	Store      storage.KeyValue
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Repository owns the note collection. Every mutation rewrites the persisted
// collection wholesale; in-process access is serialized with a mutex, while
// cross-process writers remain last-writer-wins.
type Repository struct {
	mu         sync.Mutex
	store      storage.KeyValue
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
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
	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = NewTimestampIDProvider(clock)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Repository{
		store:      cfg.Store,
		clock:      clock,
		idProvider: idProvider,
		logger:     logger,
	}, nil
}

// List returns all notes, or exactly those whose LessonID equals lessonID
// when it is non-empty. Order is insertion order as persisted.
func (r *Repository) List(lessonID string) []Note {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	if lessonID == "" {
		return all
	}

	filtered := make([]Note, 0, len(all))
	for _, note := range all {
		if note.LessonID == lessonID {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

// GetByID returns the note with the given id.
func (r *Repository) GetByID(id string) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, note := range r.load() {
		if note.ID == id {
			return note, nil
		}
	}
	return Note{}, apperr.NewNotFound("Note")
}

// Create appends a new note with a fresh id and identical creation and update
// timestamps, persists the collection, and returns the created record.
func (r *Repository) Create(req CreateRequest) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock().UTC().Format(time.RFC3339)
	created := Note{
		ID:        r.idProvider.NewID(),
		UserID:    req.UserID,
		LessonID:  req.LessonID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	all := append(r.load(), created)
	if err := r.persist(all); err != nil {
		return Note{}, err
	}

	r.logger.Debug("note created",
		zap.String("note_id", created.ID),
		zap.String("lesson_id", created.LessonID))
	return created, nil
}

// Update shallow-merges patch over the existing record, refreshes UpdatedAt,
// persists, and returns the updated record. CreatedAt is never touched.
func (r *Repository) Update(id string, patch Patch) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if patch.Title != nil {
			all[i].Title = *patch.Title
		}
		if patch.Content != nil {
			all[i].Content = *patch.Content
		}
		if patch.LessonID != nil {
			all[i].LessonID = *patch.LessonID
		}
		all[i].UpdatedAt = r.clock().UTC().Format(time.RFC3339)

		if err := r.persist(all); err != nil {
			return Note{}, err
		}
		return all[i], nil
	}
	return Note{}, apperr.NewNotFound("Note")
}

// Delete removes the record permanently and persists the remaining
// collection. There is no soft delete.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		remaining := append(all[:i:i], all[i+1:]...)
		return r.persist(remaining)
	}
	return apperr.NewNotFound("Note")
}

func (r *Repository) load() []Note {
	return storage.ReadRecords(r.store, storage.KeyNotes, []Note{})
}

func (r *Repository) persist(all []Note) error {
	if err := storage.WriteRecords(r.store, storage.KeyNotes, all); err != nil {
		r.logger.Error("note collection write failed", zap.Error(err))
		return err
	}
	return nil
}

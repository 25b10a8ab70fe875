package progress

import "sync"

// Tracker holds each authenticated user's set of completed lesson ids for
// the lifetime of their session. Sets are strictly isolated per user:
// mutations on one user's set are never observable through another's.
type Tracker struct {
	mu    sync.RWMutex
	byUID map[string]map[int]struct{}
}

// NewTracker constructs an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byUID: make(map[string]map[int]struct{})}
}

// Replace installs lessonIDs as the user's complete set, e.g. after fetching
// it from the backend at login.
func (t *Tracker) Replace(userID string, lessonIDs []int) {
	set := make(map[int]struct{}, len(lessonIDs))
	for _, id := range lessonIDs {
		set[id] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.byUID[userID] = set
}

// Add records one completed lesson for the user. Adding an already present
// id is a no-op.
func (t *Tracker) Add(userID string, lessonID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.byUID[userID]
	if !ok {
		set = make(map[int]struct{})
		t.byUID[userID] = set
	}
	set[lessonID] = struct{}{}
}

// Contains reports whether the user has completed the lesson.
func (t *Tracker) Contains(userID string, lessonID int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byUID[userID][lessonID]
	return ok
}

// Completed returns a copy of the user's set, safe to hand to the pure
// calculators.
func (t *Tracker) Completed(userID string) map[int]struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	set := t.byUID[userID]
	copied := make(map[int]struct{}, len(set))
	for id := range set {
		copied[id] = struct{}{}
	}
	return copied
}

// Clear discards the user's set, used on logout.
func (t *Tracker) Clear(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byUID, userID)
}

// Package catalog provides read/write access to the course catalog tree,
// seeded once from the static curriculum and persisted as one JSON array
// under the shared courses storage key.
package catalog

// Difficulty grades a course.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Course owns an ordered sequence of chapters. Progress is the persisted
// completion percentage, recomputed whenever a lesson completes.
type Course struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Duration    int        `json:"duration"`
	Chapters    []Chapter  `json:"chapters"`
	Progress    int        `json:"progress"`
	EnrolledAt  string     `json:"enrolledAt,omitempty"`
}

// Chapter owns an ordered sequence of lessons within one course.
type Chapter struct {
	ID          string   `json:"id"`
	CourseID    string   `json:"courseId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
	Lessons     []Lesson `json:"lessons"`
	Progress    int      `json:"progress"`
	Unlocked    bool     `json:"unlocked"`
}

// Lesson belongs to exactly one chapter. Completed is the only field the
// progress flow mutates after seeding; PendingSync marks a completion that
// was applied locally after the backend write failed.
type Lesson struct {
	ID          string `json:"id"`
	ChapterID   string `json:"chapterId"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Order       int    `json:"order"`
	Duration    int    `json:"duration"`
	Completed   bool   `json:"completed"`
	Unlocked    bool   `json:"unlocked"`
	PendingSync bool   `json:"pendingSync,omitempty"`
}

// TotalLessons counts every lesson across the course's chapters.
func (c Course) TotalLessons() int {
	total := 0
	for _, chapter := range c.Chapters {
		total += len(chapter.Lessons)
	}
	return total
}

// CompletedLessons counts lessons flagged completed across the course.
func (c Course) CompletedLessons() int {
	completed := 0
	for _, chapter := range c.Chapters {
		for _, lesson := range chapter.Lessons {
			if lesson.Completed {
				completed++
			}
		}
	}
	return completed
}

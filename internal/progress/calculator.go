// Package progress derives completion percentages from a user's set of
// completed lesson identifiers without touching stored state.
package progress

import (
	"math"
	"strconv"
	"strings"

	"github.com/dsaplatform/backend/internal/catalog"
)

// LessonNumericID extracts the numeric identifier the backend uses for a
// lesson from its string id. Lesson ids carry their number as the trailing
// hyphen-separated segment ("lesson-chapter-1-2-3" -> 3); fully numeric ids
// parse directly. The convention is deliberately isolated here: it couples
// two independent identifier schemes and nothing else should reimplement it.
func LessonNumericID(lessonID string) (int, bool) {
	segments := strings.Split(lessonID, "-")
	last := segments[len(segments)-1]
	value, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return value, true
}

// CourseProgress returns round(100*C/T) where T is the total lesson count of
// the course and C the count of its lessons whose numeric id is in
// completedLessonIDs. A course with no lessons is 0% complete.
func CourseProgress(course catalog.Course, completedLessonIDs map[int]struct{}) int {
	total := 0
	completed := 0
	for _, chapter := range course.Chapters {
		total += len(chapter.Lessons)
		completed += countCompleted(chapter.Lessons, completedLessonIDs)
	}
	return ratioPercent(completed, total)
}

// ChapterProgress applies the same formula to one chapter's lessons.
func ChapterProgress(lessons []catalog.Lesson, completedLessonIDs map[int]struct{}) int {
	return ratioPercent(countCompleted(lessons, completedLessonIDs), len(lessons))
}

// Ratio returns round(100*completed/total), the shared rounding rule for
// every percentage the platform displays.
func Ratio(completed, total int) int {
	return ratioPercent(completed, total)
}

func countCompleted(lessons []catalog.Lesson, completedLessonIDs map[int]struct{}) int {
	completed := 0
	for _, lesson := range lessons {
		numericID, ok := LessonNumericID(lesson.ID)
		if !ok {
			continue
		}
		if _, done := completedLessonIDs[numericID]; done {
			completed++
		}
	}
	return completed
}

func ratioPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

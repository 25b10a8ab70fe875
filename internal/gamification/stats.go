package gamification

import (
	"math"

	"github.com/dsaplatform/backend/internal/catalog"
)

// UserStats is the profile-page summary of a user's study state.
type UserStats struct {
	Points           int `json:"points"`
	Streak           int `json:"streak"`
	Level            int `json:"level"`
	EnrolledCourses  int `json:"enrolledCourses"`
	CompletedCourses int `json:"completedCourses"`
	AverageProgress  int `json:"averageProgress"`
}

// BuildUserStats derives the course counters from the catalog state. A course
// counts as enrolled once it carries an enrollment stamp, and as completed at
// 100% stored progress. AverageProgress is the round-half-up mean over the
// enrolled courses, 0 when none are enrolled.
func BuildUserStats(points, streak, level int, courses []catalog.Course) UserStats {
	stats := UserStats{Points: points, Streak: streak, Level: level}

	sum := 0
	for _, course := range courses {
		if course.EnrolledAt == "" {
			continue
		}
		stats.EnrolledCourses++
		sum += course.Progress
		if course.Progress == 100 {
			stats.CompletedCourses++
		}
	}
	if stats.EnrolledCourses > 0 {
		stats.AverageProgress = int(math.Round(float64(sum) / float64(stats.EnrolledCourses)))
	}
	return stats
}

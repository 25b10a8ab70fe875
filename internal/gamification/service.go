package gamification

// Service answers badge and leaderboard queries from the seeded data. A real
// backend satisfies the same surface from its own stores.
type Service struct {
	badges      []Badge
	leaderboard []LeaderboardEntry
}

// NewService constructs a service over the seeded data.
func NewService() *Service {
	return &Service{
		badges:      seedBadges(),
		leaderboard: seedLeaderboard(),
	}
}

// Badges returns the full badge catalog.
func (s *Service) Badges() []Badge {
	out := make([]Badge, len(s.badges))
	copy(out, s.badges)
	return out
}

// UserBadges returns the badges the user has earned. The demo data awards
// everyone the first two.
func (s *Service) UserBadges(userID string) []Badge {
	if userID == "" {
		return nil
	}
	count := 2
	if count > len(s.badges) {
		count = len(s.badges)
	}
	out := make([]Badge, count)
	copy(out, s.badges[:count])
	return out
}

// Leaderboard returns the top entries, capped at limit. A non-positive limit
// falls back to 10.
func (s *Service) Leaderboard(limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = 10
	}
	if limit > len(s.leaderboard) {
		limit = len(s.leaderboard)
	}
	out := make([]LeaderboardEntry, limit)
	copy(out, s.leaderboard[:limit])
	return out
}

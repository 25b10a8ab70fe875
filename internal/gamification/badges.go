// Package gamification serves the seeded badge catalog, per-user badge
// awards, and the leaderboard.
package gamification

// Rarity grades how hard a badge is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is an achievement a user can earn.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedAt    string `json:"earnedAt,omitempty"`
	Rarity      Rarity `json:"rarity"`
}

// LeaderboardUser is the slim user view embedded in a leaderboard entry.
type LeaderboardUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// LeaderboardEntry ranks one user by points.
type LeaderboardEntry struct {
	Rank   int             `json:"rank"`
	User   LeaderboardUser `json:"user"`
	Points int             `json:"points"`
	Streak int             `json:"streak"`
	Level  int             `json:"level"`
}

func seedBadges() []Badge {
	return []Badge{
		{ID: "1", Name: "First Steps", Description: "Complete your first lesson", Icon: "🎯", Rarity: RarityCommon},
		{ID: "2", Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "🔥", Rarity: RarityRare},
		{ID: "3", Name: "Chapter Master", Description: "Complete an entire chapter", Icon: "📚", Rarity: RarityEpic},
		{ID: "4", Name: "Algorithm Guru", Description: "Score 1000+ points", Icon: "🏆", Rarity: RarityLegendary},
		{ID: "5", Name: "Early Bird", Description: "Complete 5 lessons before 8 AM", Icon: "🌅", Rarity: RarityRare},
		{ID: "6", Name: "Night Owl", Description: "Complete 10 lessons after 10 PM", Icon: "🦉", Rarity: RarityRare},
	}
}

func seedLeaderboard() []LeaderboardEntry {
	return []LeaderboardEntry{
		{Rank: 1, User: LeaderboardUser{ID: "1", Username: "alice_coder"}, Points: 1250, Streak: 7, Level: 5},
		{Rank: 2, User: LeaderboardUser{ID: "2", Username: "bob_dev"}, Points: 980, Streak: 3, Level: 4},
		{Rank: 3, User: LeaderboardUser{ID: "3", Username: "carol_algo"}, Points: 875, Streak: 5, Level: 4},
		{Rank: 4, User: LeaderboardUser{ID: "4", Username: "dave_ds"}, Points: 640, Streak: 2, Level: 3},
		{Rank: 5, User: LeaderboardUser{ID: "5", Username: "eve_hash"}, Points: 410, Streak: 1, Level: 2},
	}
}

package storage

// Storage key namespace. These values are shared with the web client's
// persisted data and must not change.
const (
	KeyNotes     = "dsa_platform_notes"
	KeyCourses   = "dsa_platform_courses"
	KeyAuthToken = "dsa_platform_auth_token"
	KeyUser      = "dsa_platform_user"
	KeyTheme     = "dsa_platform_theme"

	KeyAuthState   = "auth-storage"
	KeyChatHistory = "chat-storage"
	KeyThemeState  = "theme-storage"
)

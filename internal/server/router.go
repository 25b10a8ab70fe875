// Package server exposes the platform API over HTTP with the same envelope
// and error surface the web client consumes.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
	"github.com/dsaplatform/backend/internal/auth"
	"github.com/dsaplatform/backend/internal/notes"
	"github.com/dsaplatform/backend/internal/simapi"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	userIDContextKey  = "dsa_user_id"
	requestIDHeader   = "X-Request-ID"
	defaultBoardLimit = 10
)

var (
	errMissingAPI           = errors.New("api facade dependency required")
	errMissingTokenManager  = errors.New("token manager dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// SessionTokenManager issues and validates session tokens for the HTTP
// surface. The auth token issuer satisfies it.
type SessionTokenManager interface {
	IssueSessionToken(userID string) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies carries the handler's collaborators.
type Dependencies struct {
	API    *simapi.Facade
	Tokens SessionTokenManager
	Logger *zap.Logger
}

// NewHTTPHandler wires all routes and middleware and returns the handler.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.API == nil {
		return nil, errMissingAPI
	}
	if deps.Tokens == nil {
		return nil, errMissingTokenManager
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIdentifier())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		api:    deps.API,
		tokens: deps.Tokens,
		logger: logger,
	}

	api := router.Group("/api")
	api.POST("/auth/login", handler.handleLogin)
	api.POST("/auth/register", handler.handleRegister)

	protected := api.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.POST("/auth/logout", handler.handleLogout)

	protected.GET("/courses", handler.handleListCourses)
	protected.GET("/courses/:courseId", handler.handleGetCourse)
	protected.POST("/courses/:courseId/enroll", handler.handleEnroll)
	protected.GET("/courses/:courseId/chapters/:chapterId", handler.handleGetChapter)
	protected.GET("/courses/:courseId/chapters/:chapterId/lessons/:lessonId", handler.handleGetLesson)

	protected.GET("/lessons/progress", handler.handleUserProgress)
	protected.POST("/lessons/:lessonId/complete", handler.handleCompleteLesson)

	protected.GET("/notes", handler.handleListNotes)
	protected.POST("/notes", handler.handleCreateNote)
	protected.GET("/notes/:noteId", handler.handleGetNote)
	protected.PUT("/notes/:noteId", handler.handleUpdateNote)
	protected.DELETE("/notes/:noteId", handler.handleDeleteNote)

	protected.POST("/chat/ask", handler.handleChat)

	protected.GET("/badges", handler.handleBadges)
	protected.GET("/badges/user/:userId", handler.handleUserBadges)
	protected.GET("/leaderboard", handler.handleLeaderboard)

	protected.GET("/users/me", handler.handleProfile)
	protected.PUT("/users/me", handler.handleUpdateProfile)
	protected.GET("/users/me/stats", handler.handleUserStats)

	return router, nil
}

type httpHandler struct {
	api    *simapi.Facade
	tokens SessionTokenManager
	logger *zap.Logger
}

// requestIdentifier tags every request with a UUIDv7 so log lines and
// client reports can be correlated. Incoming ids are trusted as-is.
func requestIdentifier() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			if generated, err := uuid.NewV7(); err == nil {
				requestID = generated.String()
			}
		}
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(errInvalidAuthorization.Error()))
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(errInvalidAuthorization.Error()))
		return
	}
	subject, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(apperr.ErrSessionExpired.Error()))
		return
	}
	c.Set(userIDContextKey, subject)
	c.Next()
}

func successBody(data any) gin.H {
	return gin.H{"success": true, "data": data}
}

func errorBody(message string) gin.H {
	return gin.H{"success": false, "message": message}
}

func (h *httpHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsAuth(err):
		status = http.StatusUnauthorized
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsConnectivity(err):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, errorBody(err.Error()))
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registrationPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPayload struct {
	User        auth.User `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
}

func (h *httpHandler) issueSession(c *gin.Context, session auth.Session) {
	token, expiresIn, err := h.tokens.IssueSessionToken(session.User.ID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("token issue failed"))
		return
	}
	c.JSON(http.StatusOK, successBody(sessionPayload{
		User:        session.User,
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}))
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request credentialsPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	response, err := h.api.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.issueSession(c, response.Data)
}

func (h *httpHandler) handleRegister(c *gin.Context) {
	var request registrationPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	response, err := h.api.Register(c.Request.Context(), request.Username, request.Email, request.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.issueSession(c, response.Data)
}

func (h *httpHandler) handleLogout(c *gin.Context) {
	if err := h.api.Logout(c.Request.Context(), c.GetString(userIDContextKey)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(nil))
}

func (h *httpHandler) handleListCourses(c *gin.Context) {
	response, err := h.api.ListCourses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleGetCourse(c *gin.Context) {
	response, err := h.api.GetCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleEnroll(c *gin.Context) {
	response, err := h.api.Enroll(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleGetChapter(c *gin.Context) {
	response, err := h.api.GetChapter(c.Request.Context(), c.Param("courseId"), c.Param("chapterId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleGetLesson(c *gin.Context) {
	response, err := h.api.GetLesson(c.Request.Context(), c.Param("courseId"), c.Param("chapterId"), c.Param("lessonId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleUserProgress(c *gin.Context) {
	response, err := h.api.CompletedLessons(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleCompleteLesson(c *gin.Context) {
	response, err := h.api.CompleteLesson(c.Request.Context(), c.GetString(userIDContextKey), c.Param("lessonId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleListNotes(c *gin.Context) {
	response, err := h.api.ListNotes(c.Request.Context(), c.Query("lessonId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

type notePayload struct {
	LessonID string `json:"lessonId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	var request notePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	response, err := h.api.CreateNote(c.Request.Context(), notes.CreateRequest{
		UserID:   c.GetString(userIDContextKey),
		LessonID: request.LessonID,
		Title:    request.Title,
		Content:  request.Content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successBody(response.Data))
}

func (h *httpHandler) handleGetNote(c *gin.Context) {
	response, err := h.api.GetNote(c.Request.Context(), c.Param("noteId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

type notePatchPayload struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	LessonID *string `json:"lessonId"`
}

func (h *httpHandler) handleUpdateNote(c *gin.Context) {
	var request notePatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	response, err := h.api.UpdateNote(c.Request.Context(), c.Param("noteId"), notes.Patch{
		Title:    request.Title,
		Content:  request.Content,
		LessonID: request.LessonID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleDeleteNote(c *gin.Context) {
	if err := h.api.DeleteNote(c.Request.Context(), c.Param("noteId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(nil))
}

type chatAskPayload struct {
	Message string `json:"message"`
}

func (h *httpHandler) handleChat(c *gin.Context) {
	var request chatAskPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Message) == "" {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	response, err := h.api.SendChatMessage(c.Request.Context(), request.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleBadges(c *gin.Context) {
	response, err := h.api.Badges(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleUserBadges(c *gin.Context) {
	response, err := h.api.UserBadges(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleLeaderboard(c *gin.Context) {
	limit := defaultBoardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorBody("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	response, err := h.api.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleProfile(c *gin.Context) {
	response, err := h.api.UserProfile(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

func (h *httpHandler) handleUserStats(c *gin.Context) {
	response, err := h.api.UserStats(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

type profilePatchPayload struct {
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

func (h *httpHandler) handleUpdateProfile(c *gin.Context) {
	var request profilePatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	response, err := h.api.UpdateUserProfile(c.Request.Context(), c.GetString(userIDContextKey), auth.ProfileUpdate{
		Username: request.Username,
		Avatar:   request.Avatar,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successBody(response.Data))
}

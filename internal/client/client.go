// Package client talks to a real platform backend over JSON HTTP, honoring
// the same method contract as the simulated facade. Read paths degrade
// gracefully when the backend is unreachable; write paths surface the
// failure or fall back with an explicit pending-sync flag.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dsaplatform/backend/internal/apperr"
	"github.com/dsaplatform/backend/internal/auth"
	"github.com/dsaplatform/backend/internal/catalog"
	"github.com/dsaplatform/backend/internal/chat"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

var (
	errMissingBaseURL = errors.New("base url is required")
	noOpLogger        = zap.NewNop()
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Config describes the client's collaborators.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      TokenSource
	Catalog    *catalog.Repository
	Logger     *zap.Logger
}

// Client is the real-backend implementation of the API contract.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	catalog *catalog.Repository
	logger  *zap.Logger
}

// New validates the configuration and constructs a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errMissingBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	token := cfg.Token
	if token == nil {
		token = func() string { return "" }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		token:   token,
		catalog: cfg.Catalog,
		logger:  logger,
	}, nil
}

// envelope is the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, authorized bool) (*envelope, int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	request.Header.Set("Content-Type", "application/json")
	if authorized {
		token := c.token()
		if token == "" {
			return nil, 0, apperr.NewAuth("Authentication required. Please log in.")
		}
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.http.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, err
		}
		return nil, 0, apperr.NewConnectivity(err)
	}
	defer response.Body.Close()

	parsed := &envelope{}
	if err := json.NewDecoder(response.Body).Decode(parsed); err != nil {
		// Error statuses may carry non-envelope bodies; the status code
		// still drives classification below.
		parsed = &envelope{}
	}
	return parsed, response.StatusCode, nil
}

func (c *Client) classify(status int, parsed *envelope, fallback string) error {
	if status == http.StatusUnauthorized {
		return apperr.ErrSessionExpired
	}
	if parsed != nil && parsed.Message != "" {
		return fmt.Errorf("%s", parsed.Message)
	}
	return fmt.Errorf("%s", fallback)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authData struct {
	User        auth.User `json:"user"`
	AccessToken string    `json:"accessToken"`
}

// Login authenticates against the backend and returns the session.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	parsed, status, err := c.do(ctx, http.MethodPost, "/auth/login", loginPayload{Email: email, Password: password}, false)
	if err != nil {
		return auth.Session{}, err
	}
	if status != http.StatusOK {
		if status == http.StatusUnauthorized || parsed.Message == "" {
			return auth.Session{}, apperr.NewAuth("Invalid email or password")
		}
		return auth.Session{}, apperr.NewAuth(parsed.Message)
	}

	var data authData
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		return auth.Session{}, err
	}
	return auth.Session{User: data.User, Token: data.AccessToken}, nil
}

// Register creates an account on the backend and returns the session.
func (c *Client) Register(ctx context.Context, username, email, password string) (auth.Session, error) {
	parsed, status, err := c.do(ctx, http.MethodPost, "/auth/register", registerPayload{Username: username, Email: email, Password: password}, false)
	if err != nil {
		return auth.Session{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return auth.Session{}, c.classify(status, parsed, "Registration failed")
	}

	var data authData
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		return auth.Session{}, err
	}
	return auth.Session{User: data.User, Token: data.AccessToken}, nil
}

// GetUserProgress fetches the user's completed-lesson ids. An unreachable
// backend degrades to an empty set: a read failure must not take the UI
// down, the user simply sees no completions until connectivity returns.
func (c *Client) GetUserProgress(ctx context.Context) ([]int, error) {
	parsed, status, err := c.do(ctx, http.MethodGet, "/lessons/progress", nil, true)
	if err != nil {
		if apperr.IsConnectivity(err) {
			c.logger.Warn("progress fetch degraded to empty set", zap.Error(err))
			return []int{}, nil
		}
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.classify(status, parsed, "Failed to fetch progress.")
	}

	var ids []int
	if len(parsed.Data) > 0 {
		if err := json.Unmarshal(parsed.Data, &ids); err != nil {
			return nil, err
		}
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// CompleteLesson is a two-phase write: the backend is told first, then the
// local catalog is updated. If the backend is unreachable the completion is
// applied locally and flagged pending-sync; auth failures propagate
// untouched so the caller can re-authenticate.
func (c *Client) CompleteLesson(ctx context.Context, lessonID string) (catalog.Lesson, error) {
	parsed, status, err := c.do(ctx, http.MethodPost, "/lessons/"+url.PathEscape(lessonID)+"/complete", nil, true)
	if err != nil {
		if apperr.IsConnectivity(err) && c.catalog != nil {
			c.logger.Warn("backend unreachable, applying local completion",
				zap.String("lesson_id", lessonID), zap.Error(err))
			return c.catalog.FlagPendingSync(lessonID)
		}
		return catalog.Lesson{}, err
	}
	if status != http.StatusOK {
		return catalog.Lesson{}, c.classify(status, parsed, "Failed to complete lesson.")
	}

	if c.catalog == nil {
		return catalog.Lesson{}, nil
	}
	return c.catalog.CompleteLesson(lessonID)
}

// Enroll records the enrollment on the backend, then mirrors it into the
// local catalog. Connectivity failure falls back to the local write alone.
func (c *Client) Enroll(ctx context.Context, courseID string) (catalog.Course, error) {
	parsed, status, err := c.do(ctx, http.MethodPost, "/courses/"+url.PathEscape(courseID)+"/enroll", nil, true)
	if err != nil {
		if apperr.IsConnectivity(err) && c.catalog != nil {
			c.logger.Warn("backend unreachable, applying local enrollment",
				zap.String("course_id", courseID), zap.Error(err))
			return c.catalog.Enroll(courseID)
		}
		return catalog.Course{}, err
	}
	if status != http.StatusOK {
		return catalog.Course{}, c.classify(status, parsed, "Failed to enroll in course.")
	}

	if c.catalog == nil {
		return catalog.Course{}, nil
	}
	return c.catalog.Enroll(courseID)
}

type chatPayload struct {
	Message             string         `json:"message"`
	ConversationHistory []chat.Message `json:"conversationHistory"`
}

type chatData struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// SendChatMessage forwards the question to the backend chat endpoint.
func (c *Client) SendChatMessage(ctx context.Context, message string, history []chat.Message) (chat.Message, error) {
	if history == nil {
		history = []chat.Message{}
	}
	parsed, status, err := c.do(ctx, http.MethodPost, "/chat/ask", chatPayload{Message: message, ConversationHistory: history}, true)
	if err != nil {
		return chat.Message{}, err
	}
	if status == http.StatusTooManyRequests {
		return chat.Message{}, apperr.NewValidation("Too many requests. Please wait a moment and try again.")
	}
	if status != http.StatusOK {
		return chat.Message{}, c.classify(status, parsed, "Failed to send message. Please try again.")
	}

	var data chatData
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		return chat.Message{}, err
	}
	reply := chat.Message{
		ID:        data.ID,
		Role:      "assistant",
		Content:   data.Content,
		Timestamp: data.Timestamp,
	}
	if reply.Timestamp == "" {
		reply.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return reply, nil
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dsaplatform/backend/internal/auth"
	"github.com/dsaplatform/backend/internal/catalog"
	"github.com/dsaplatform/backend/internal/chat"
	"github.com/dsaplatform/backend/internal/gamification"
	"github.com/dsaplatform/backend/internal/notes"
	"github.com/dsaplatform/backend/internal/progress"
	"github.com/dsaplatform/backend/internal/simapi"
	"github.com/dsaplatform/backend/internal/storage"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	clock := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	kv := storage.NewMemoryStore()

	noteRepo, err := notes.NewRepository(notes.RepositoryConfig{Store: kv, Clock: clock})
	if err != nil {
		t.Fatalf("note repository: %v", err)
	}
	catalogRepo, err := catalog.NewRepository(catalog.RepositoryConfig{Store: kv, Clock: clock})
	if err != nil {
		t.Fatalf("catalog repository: %v", err)
	}

	api, err := simapi.New(simapi.Config{
		Auth:         auth.NewService(auth.ServiceConfig{Clock: clock}),
		Notes:        noteRepo,
		Catalog:      catalogRepo,
		Gamification: gamification.NewService(),
		Responder:    chat.NewResponder(clock),
		Tracker:      progress.NewTracker(),
		Store:        kv,
		Sleep:        func(context.Context, time.Duration) error { return nil },
	})
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "dsa-platform",
		Audience:      "dsa-web",
		TokenTTL:      time.Hour,
	})
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{API: api, Tokens: issuer})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func performJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

type envelopeBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelopeBody {
	t.Helper()

	var body envelopeBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, recorder.Body.String())
	}
	return body
}

func loginAs(t *testing.T, handler http.Handler, email string) string {
	t.Helper()

	recorder := performJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", recorder.Code, recorder.Body.String())
	}
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, recorder).Data, &data); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if data.AccessToken == "" {
		t.Fatalf("login returned empty access token")
	}
	return data.AccessToken
}

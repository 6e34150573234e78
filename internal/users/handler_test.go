package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"contract-scanner/internal/shared/auth"
	"contract-scanner/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "handler-test-secret")
	t.Setenv("ENV", "dev")
	gin.SetMode(gin.TestMode)

	svc := NewService(NewMemoryRepo(), auth.NewMemoryTokenRevoker(), time.Hour)
	router := gin.New()
	router.Use(middleware.Auth(svc))
	NewHandler(svc).RegisterRoutes(router.Group("/api/users"))
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return env
}

func TestHandlerSignupLoginMeLogout(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/users/signup", "", SignupInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d %s", resp.Code, resp.Body.String())
	}
	var session Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" || session.User.Email != "ada@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("argon2id")) {
		t.Fatalf("password hash leaked in response")
	}

	resp = doJSON(router, http.MethodPost, "/api/users/login", "", LoginInput{Email: "ada@example.com", Password: "s3cret!"})
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", resp.Code, resp.Body.String())
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	resp = doJSON(router, http.MethodGet, "/api/users/me", session.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d %s", resp.Code, resp.Body.String())
	}
	var me struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.User.ID != session.User.ID {
		t.Fatalf("me returned %q, want %q", me.User.ID, session.User.ID)
	}

	resp = doJSON(router, http.MethodPost, "/api/users/logout", session.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodGet, "/api/users/me", session.Token, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", resp.Code)
	}
}

func TestHandlerLoginErrorsAreIdentical(t *testing.T) {
	router := newTestRouter(t)
	doJSON(router, http.MethodPost, "/api/users/signup", "", SignupInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})

	wrong := doJSON(router, http.MethodPost, "/api/users/login", "", LoginInput{Email: "ada@example.com", Password: "wrong-pass"})
	unknown := doJSON(router, http.MethodPost, "/api/users/login", "", LoginInput{Email: "nobody@example.com", Password: "s3cret!"})

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401s, got %d and %d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("error bodies differ: %s vs %s", wrong.Body.String(), unknown.Body.String())
	}
	if env := decodeError(t, wrong); env.Error.Code != "invalid_credentials" {
		t.Fatalf("unexpected code %q", env.Error.Code)
	}
}

func TestHandlerSignupConflictAndValidation(t *testing.T) {
	router := newTestRouter(t)
	doJSON(router, http.MethodPost, "/api/users/signup", "", SignupInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})

	resp := doJSON(router, http.MethodPost, "/api/users/signup", "", SignupInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret!"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if env := decodeError(t, resp); env.Error.Code != "conflict" {
		t.Fatalf("unexpected code %q", env.Error.Code)
	}

	resp = doJSON(router, http.MethodPost, "/api/users/signup", "", SignupInput{Email: "bad", Password: "1"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if env.Error.Code != "validation_error" || env.Error.Details["name"] == "" || env.Error.Details["email"] == "" {
		t.Fatalf("unexpected validation envelope: %+v", env)
	}
}

func TestHandlerLogoutWithoutTokenAcks(t *testing.T) {
	router := newTestRouter(t)
	resp := doJSON(router, http.MethodPost, "/api/users/logout", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = doJSON(router, http.MethodPost, "/api/users/logout", "not-a-jwt", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for invalid token, got %d", resp.Code)
	}
}

func TestHandlerMeRequiresToken(t *testing.T) {
	router := newTestRouter(t)
	resp := doJSON(router, http.MethodGet, "/api/users/me", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if env := decodeError(t, resp); env.Error.Code != "unauthorized" {
		t.Fatalf("unexpected code %q", env.Error.Code)
	}
}

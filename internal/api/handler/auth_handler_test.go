package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			if in.Email != "alice@example.com" || in.FullName != "Alice" || in.Role != "instructor" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "token123", &domain.User{ID: "u-1", Email: in.Email, FullName: in.FullName, Role: domain.RoleInstructor, PasswordHash: "hash"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","password":"secret1","full_name":"Alice","role":"instructor"}`, "", "")
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" || user["role"] != "instructor" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	})

	for name, body := range map[string]string{
		"not json":      "not-json",
		"bad email":     `{"email":"nope","password":"secret1","full_name":"A"}`,
		"short pass":    `{"email":"a@example.com","password":"x","full_name":"A"}`,
		"unknown role":  `{"email":"a@example.com","password":"secret1","full_name":"A","role":"guest"}`,
		"missing names": `{"email":"a@example.com","password":"secret1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(e, http.MethodPost, "/api/auth/register", body, "", "")
			err := h.Register(c)
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_ServiceErrorPassesThrough(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"email":"bob@example.com","password":"secret1","full_name":"Bob"}`, "", "")
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u-1", Email: email, Role: domain.RoleStudent}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`, "", "")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "token123" || resp.User.ID != "u-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`, "", "")
	if err := h.Login(c); domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		meFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: "me@example.com", Role: domain.RoleStudent}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/api/auth/me", "", "u-7", domain.RoleStudent)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u-7" {
		t.Fatalf("unexpected user %+v", resp)
	}
}

func TestAuthHandler_Me_NoClaims(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(e, http.MethodGet, "/api/auth/me", "", "", "")
	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

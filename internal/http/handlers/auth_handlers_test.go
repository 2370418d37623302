package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/mocks"
)

func newHandlersForTest(authSvc domain.AuthService, secure bool) *AuthHandlers {
	return NewAuthHandlers(authSvc, CookieConfig{
		Path:   "/auth",
		MaxAge: 30 * 24 * time.Hour,
		Secure: secure,
	})
}

func performJSON(t *testing.T, handler gin.HandlerFunc, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req

	handler(c)
	return w
}

func refreshCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == refreshCookieName {
			return ck
		}
	}
	return nil
}

func TestAuthHandlers_Signup(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
	}{
		{
			name:        "successful signup",
			requestBody: SignupRequest{Name: "A", Email: "a@x.com", Password: "pw123456"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					return &domain.User{ID: 1, Name: name, Email: email}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "account already exists",
			requestBody: SignupRequest{Name: "A", Email: "a@x.com", Password: "pw123456"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					return nil, domain.ErrAccountExists
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "storage failure",
			requestBody: SignupRequest{Name: "A", Email: "a@x.com", Password: "pw123456"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					return nil, errors.New("database down")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "invalid email rejected by binding",
			requestBody:    map[string]string{"name": "A", "email": "not-an-email", "password": "pw123456"},
			setupMocks:     func(authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short password rejected by binding",
			requestBody:    map[string]string{"name": "A", "email": "a@x.com", "password": "pw"},
			setupMocks:     func(authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)

			h := newHandlersForTest(authSvc, false)
			w := performJSON(t, h.Signup, tt.requestBody)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_Verify(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    VerifyRequest
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		expectCookie   bool
	}{
		{
			name:        "successful verification",
			requestBody: VerifyRequest{Email: "a@x.com", Otp: "123456"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.VerifyCodeFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
					return &domain.AuthResult{
						User:         &domain.User{ID: 1, Email: email},
						AccessToken:  "access",
						RefreshToken: "refresh",
						ExpiresIn:    900,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectCookie:   true,
		},
		{
			name:        "expired or consumed code",
			requestBody: VerifyRequest{Email: "a@x.com", Otp: "123456"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.VerifyCodeFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
					return nil, domain.ErrCodeExpired
				}
			},
			expectedStatus: http.StatusGone,
		},
		{
			name:        "wrong code",
			requestBody: VerifyRequest{Email: "a@x.com", Otp: "000000"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.VerifyCodeFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
					return nil, domain.ErrCodeInvalid
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "account gone",
			requestBody: VerifyRequest{Email: "a@x.com", Otp: "123456"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.VerifyCodeFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
					return nil, domain.ErrAccountNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)

			h := newHandlersForTest(authSvc, false)
			w := performJSON(t, h.Verify, tt.requestBody)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			cookie := refreshCookieFrom(t, w)
			if tt.expectCookie {
				if cookie == nil {
					t.Fatal("expected refresh cookie to be set")
				}
				if cookie.Value != "refresh" {
					t.Errorf("expected refresh cookie value, got %q", cookie.Value)
				}
				if !cookie.HttpOnly {
					t.Error("refresh cookie must be HTTP-only")
				}
			} else if cookie != nil {
				t.Error("did not expect a refresh cookie on failure")
			}
		})
	}
}

func TestAuthHandlers_Verify_AccessTokenInBodyOnly(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.VerifyCodeFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
		return &domain.AuthResult{
			User:         &domain.User{ID: 1, Email: email},
			AccessToken:  "the-access-token",
			RefreshToken: "the-refresh-token",
			ExpiresIn:    900,
		}, nil
	}

	h := newHandlersForTest(authSvc, false)
	w := performJSON(t, h.Verify, VerifyRequest{Email: "a@x.com", Otp: "123456"})

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.AccessToken != "the-access-token" {
		t.Errorf("expected access token in body, got %q", body.Data.AccessToken)
	}
	if body.Data.TokenType != "Bearer" {
		t.Errorf("expected Bearer token type, got %q", body.Data.TokenType)
	}

	for _, ck := range w.Result().Cookies() {
		if ck.Value == "the-access-token" {
			t.Error("access token must never be carried in a cookie")
		}
	}
}

func TestAuthHandlers_Resend(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
	}{
		{
			name: "successful resend",
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.ResendCodeFunc = func(ctx context.Context, email, name string) error {
					return nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown account",
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.ResendCodeFunc = func(ctx context.Context, email, name string) error {
					return domain.ErrAccountNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "throttled",
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.ResendCodeFunc = func(ctx context.Context, email, name string) error {
					return domain.ErrResendThrottled
				}
			},
			expectedStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)

			h := newHandlersForTest(authSvc, false)
			w := performJSON(t, h.Resend, ResendRequest{Email: "a@x.com", Name: "A"})

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
		if email == "a@x.com" && password == "pw123456" {
			return &domain.AuthResult{
				User:         &domain.User{ID: 1, Name: "A", Email: email},
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    900,
			}, nil
		}
		return nil, domain.ErrInvalidCredentials
	}
	h := newHandlersForTest(authSvc, false)

	w := performJSON(t, h.Login, LoginRequest{Email: "a@x.com", Password: "pw123456"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if refreshCookieFrom(t, w) == nil {
		t.Error("expected refresh cookie on login")
	}

	// Wrong password, repeated: always the same status and message
	for i := 0; i < 3; i++ {
		w := performJSON(t, h.Login, LoginRequest{Email: "a@x.com", Password: "wrongpass"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	// Unknown email reads identically to wrong password
	wUnknown := performJSON(t, h.Login, LoginRequest{Email: "nobody@x.com", Password: "pw123456"})
	wWrongPw := performJSON(t, h.Login, LoginRequest{Email: "a@x.com", Password: "wrongpass"})
	if wUnknown.Code != wWrongPw.Code || wUnknown.Body.String() != wWrongPw.Body.String() {
		t.Error("login failures must be indistinguishable")
	}
}

func TestAuthHandlers_Refresh(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.RefreshFunc = func(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
		if refreshToken == "good-refresh" {
			return &domain.AuthResult{
				User:         &domain.User{ID: 1, Email: "a@x.com"},
				AccessToken:  "new-access",
				RefreshToken: refreshToken,
				ExpiresIn:    900,
			}, nil
		}
		return nil, domain.ErrTokenInvalid
	}
	h := newHandlersForTest(authSvc, false)

	// Missing cookie
	w := performJSON(t, h.Refresh, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", w.Code)
	}

	// Invalid token
	w = performJSON(t, h.Refresh, nil, &http.Cookie{Name: refreshCookieName, Value: "tampered"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", w.Code)
	}

	// Valid token: new access token, no new refresh cookie
	w = performJSON(t, h.Refresh, nil, &http.Cookie{Name: refreshCookieName, Value: "good-refresh"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if refreshCookieFrom(t, w) != nil {
		t.Error("refresh must not rotate the refresh cookie")
	}
}

func TestAuthHandlers_Logout(t *testing.T) {
	h := newHandlersForTest(mocks.NewMockAuthService(), false)

	w := performJSON(t, h.Logout, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	cookie := refreshCookieFrom(t, w)
	if cookie == nil {
		t.Fatal("expected logout to write the refresh cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got value=%q max-age=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestAuthHandlers_CookieAttributes(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
		return &domain.AuthResult{
			User:         &domain.User{ID: 1, Email: email},
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresIn:    900,
		}, nil
	}

	t.Run("production", func(t *testing.T) {
		h := newHandlersForTest(authSvc, true)
		w := performJSON(t, h.Login, LoginRequest{Email: "a@x.com", Password: "pw123456"})

		cookie := refreshCookieFrom(t, w)
		if cookie == nil {
			t.Fatal("expected refresh cookie")
		}
		if !cookie.Secure {
			t.Error("production cookie must be Secure")
		}
		if cookie.SameSite != http.SameSiteStrictMode {
			t.Error("production cookie must be SameSite=Strict")
		}
		if cookie.Path != "/auth" {
			t.Errorf("expected cookie path /auth, got %s", cookie.Path)
		}
		if cookie.MaxAge != int((30 * 24 * time.Hour).Seconds()) {
			t.Errorf("expected 30-day max-age, got %d", cookie.MaxAge)
		}
	})

	t.Run("development", func(t *testing.T) {
		h := newHandlersForTest(authSvc, false)
		w := performJSON(t, h.Login, LoginRequest{Email: "a@x.com", Password: "pw123456"})

		cookie := refreshCookieFrom(t, w)
		if cookie == nil {
			t.Fatal("expected refresh cookie")
		}
		if cookie.Secure {
			t.Error("development cookie must not be Secure")
		}
		if cookie.SameSite != http.SameSiteLaxMode {
			t.Error("development cookie must be SameSite=Lax")
		}
	})
}

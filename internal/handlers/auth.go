package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"newsdesk/internal/apperr"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/session"
	"newsdesk/internal/store"
)

// totpIssuer labels the account in authenticator apps.
const totpIssuer = "Newsdesk"

// UserStore is the account access the auth handlers need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
}

// SessionManager creates and destroys login sessions.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions SessionManager
	users    UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions SessionManager, users UserStore) *Auth {
	return &Auth{
		sessions: sessions,
		users:    users,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// CSRFToken returns the token the client must echo in X-CSRF-Token.
func (a *Auth) CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": middleware.CSRFToken(r)})
}

// Login checks email and password and, for enrolled users, the TOTP code.
// A session is only created once every factor has passed.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()

	user, err := a.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !store.CheckPassword(user, req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		return
	}

	if user.Needs2FACode() {
		if req.Code == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":               "two-factor code required",
				"two_factor_required": true,
			})
			return
		}
		if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid two-factor code"})
			return
		}
	}

	if _, err := a.sessions.Create(ctx, w, &session.Data{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		IsAdmin:  user.IsAdmin,
	}); err != nil {
		writeError(w, r, apperr.Storage("create session", err))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, apperr.Storage("destroy session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in principal.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.SessionFromCtx(r.Context()))
}

// TwoFASetup generates a new TOTP secret for the signed-in user and
// returns its QR code as a PNG. The secret is also sent in the
// X-TOTP-Secret header for manual entry. It only takes effect after
// TwoFAEnable confirms a code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ctx := r.Context()

	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.NotFound("user", sess.UserID))
		return
	}
	if user.TOTPEnabled {
		writeError(w, r, apperr.Conflict("two-factor authentication is already enabled"))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		writeError(w, r, apperr.Storage("generate totp key", err))
		return
	}
	if err := a.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, r, apperr.Storage("encode qr code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-TOTP-Secret", key.Secret())
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type codeRequest struct {
	Code string `json:"code"`
}

// TwoFAEnable turns two-factor authentication on once the user proves
// their authenticator produces valid codes for the pending secret.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	ctx := r.Context()

	user, err := a.users.FindByID(ctx, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, apperr.NotFound("user", sess.UserID))
		return
	}
	if user.TOTPEnabled {
		writeError(w, r, apperr.Conflict("two-factor authentication is already enabled"))
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, r, apperr.Validation("start two-factor setup first"))
		return
	}
	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		writeError(w, r, apperr.Validation("invalid two-factor code"))
		return
	}

	if err := a.users.EnableTOTP(ctx, user.ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"totp_enabled": true})
}

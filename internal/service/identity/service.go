// Package identity wraps the identity provider boundary: credential
// verification, session issuance and revocation, registration, and the
// admin-level user operations used by doctor provisioning and settings.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medhq/hospital-api/internal/email"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/session"
	"github.com/medhq/hospital-api/internal/store"
	"github.com/medhq/hospital-api/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrEmailTaken         = errors.New("email already registered")
)

const (
	bcryptCost        = 12
	verifyTokenExpiry = 48 * time.Hour
)

type Service struct {
	gw         store.Gateway
	jwtSvc     auth.JWTService
	sessions   *session.Store
	emailSvc   email.Service
	sessionTTL time.Duration
}

func NewService(gw store.Gateway, jwtSvc auth.JWTService, sessions *session.Store,
	emailSvc email.Service, sessionTTL time.Duration) *Service {
	return &Service{
		gw:         gw,
		jwtSvc:     jwtSvc,
		sessions:   sessions,
		emailSvc:   emailSvc,
		sessionTTL: sessionTTL,
	}
}

// SignIn verifies credentials and issues a session. An unconfirmed email
// is reported distinctly from bad credentials so the caller can surface
// a different message.
func (s *Service) SignIn(ctx context.Context, emailAddr, password string) (*model.Session, error) {
	user, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	token, sessionID, err := s.jwtSvc.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.sessions.Create(ctx, sessionID, user.ID, s.sessionTTL); err != nil {
		return nil, err
	}

	return &model.Session{Token: token, Identity: identityOf(user)}, nil
}

// Resolve turns a session token into the authenticated identity. Role
// and name come from the application user row, which the token does not
// carry.
func (s *Service) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	live, err := s.sessions.Exists(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, fmt.Errorf("session revoked or expired")
	}

	var user model.User
	if err := s.gw.Get(ctx, store.Users, claims.UserID, &user, store.Options{}); err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return identityOf(&user), nil
}

// SignOut revokes the session. Best-effort: provider-side failures are
// swallowed, not surfaced.
func (s *Service) SignOut(ctx context.Context, token string) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return
	}
	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		log.Debug().Err(err).Msg("sign-out revocation failed")
	}
}

// SignUp registers a new user and sends a confirmation email. The user
// cannot sign in until the email is confirmed.
func (s *Service) SignUp(ctx context.Context, name, emailAddr, password, role string) error {
	existing, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID, err := s.gw.Insert(ctx, store.Users, store.Row{
		"email":           emailAddr,
		"name":            name,
		"role":            role,
		"password_hash":   string(hash),
		"email_confirmed": false,
		"active":          true,
		"created_at":      now,
		"updated_at":      now,
	})
	if err != nil {
		return err
	}

	token := uuid.New().String()
	if err := s.sessions.StoreVerificationToken(ctx, token, userID, verifyTokenExpiry); err != nil {
		return err
	}

	if err := s.emailSvc.SendVerification(ctx, emailAddr, token); err != nil {
		log.Warn().Err(err).Str("email", emailAddr).Msg("failed to send verification email")
	}

	return nil
}

// VerifyEmail consumes a verification token and marks the user row
// confirmed.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.sessions.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}

	return s.gw.Update(ctx, store.Users, userID, store.Row{
		"email_confirmed": true,
		"updated_at":      time.Now(),
	})
}

// ReAuthenticate checks a password against the stored hash without
// issuing a session. Used by the password-change flow.
func (s *Service) ReAuthenticate(ctx context.Context, emailAddr, password string) error {
	user, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// AdminCreateUser provisions a pre-confirmed account with a temporary
// password, as when staff adds a doctor. Returns the new user id.
func (s *Service) AdminCreateUser(ctx context.Context, emailAddr, tempPassword string, confirmed bool) (uuid.UUID, error) {
	existing, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcryptCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	return s.gw.Insert(ctx, store.Users, store.Row{
		"email":           emailAddr,
		"password_hash":   string(hash),
		"email_confirmed": confirmed,
		"active":          true,
		"created_at":      now,
		"updated_at":      now,
	})
}

// AdminUpdate carries the attributes an admin-level update may change.
type AdminUpdate struct {
	Email    *string
	Password *string
}

// AdminUpdateUser changes a user's email and/or password at the
// provider level.
func (s *Service) AdminUpdateUser(ctx context.Context, userID uuid.UUID, update AdminUpdate) error {
	patch := store.Row{"updated_at": time.Now()}
	if update.Email != nil {
		patch["email"] = *update.Email
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		patch["password_hash"] = string(hash)
	}
	return s.gw.Update(ctx, store.Users, userID, patch)
}

// UpdateProfile updates the actor's own user row. A changed email is
// first updated at the provider level, then the row is patched; the two
// steps are independent and not compensated on partial failure.
func (s *Service) UpdateProfile(ctx context.Context, actor *model.Identity, name, phone, emailAddr string) error {
	if emailAddr != actor.Email {
		if err := s.AdminUpdateUser(ctx, actor.ID, AdminUpdate{Email: &emailAddr}); err != nil {
			return err
		}
	}

	return s.gw.Update(ctx, store.Users, actor.ID, store.Row{
		"name":       name,
		"phone":      phone,
		"updated_at": time.Now(),
	})
}

// ChangePassword re-authenticates with the current password before
// accepting the new one. A failed re-authentication leaves the stored
// hash unchanged.
func (s *Service) ChangePassword(ctx context.Context, actor *model.Identity, currentPassword, newPassword string) error {
	if err := s.ReAuthenticate(ctx, actor.Email, currentPassword); err != nil {
		return err
	}
	return s.AdminUpdateUser(ctx, actor.ID, AdminUpdate{Password: &newPassword})
}

// GetUser loads a user row by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.gw.Get(ctx, store.Users, id, &user, store.Options{}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) userByEmail(ctx context.Context, emailAddr string) (*model.User, error) {
	var users []model.User
	err := s.gw.Select(ctx, store.Users, &users, store.Options{
		Filters: []store.Filter{store.Eq("email", emailAddr)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func identityOf(user *model.User) *model.Identity {
	return &model.Identity{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Active: user.Active,
	}
}

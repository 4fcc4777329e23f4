package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
	"github.com/medhq/hospital-api/internal/store/storetest"
	"github.com/medhq/hospital-api/pkg/auth"
)

type stubEmail struct {
	verifications int
	invites       int
}

func (s *stubEmail) SendVerification(ctx context.Context, to, token string) error {
	s.verifications++
	return nil
}

func (s *stubEmail) SendDoctorInvite(ctx context.Context, to, name, tempPassword string) error {
	s.invites++
	return nil
}

func newTestService(fake *storetest.Fake) *Service {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(fake, jwtSvc, nil, &stubEmail{}, time.Hour)
}

func seedUser(t *testing.T, fake *storetest.Fake, emailAddr, password string, confirmed bool) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	id := uuid.New()
	fake.Seed(store.Users, id, store.Row{
		"email":           emailAddr,
		"name":            "Test User",
		"role":            model.RoleStaff,
		"password_hash":   string(hash),
		"email_confirmed": confirmed,
		"active":          true,
	})
	return id
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	fake := storetest.New()
	seedUser(t, fake, "staff@example.com", "correct-password", true)
	svc := newTestService(fake)

	_, err := svc.SignIn(context.Background(), "staff@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInRejectsUnknownEmail(t *testing.T) {
	fake := storetest.New()
	svc := newTestService(fake)

	_, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInDistinguishesUnconfirmedEmail(t *testing.T) {
	fake := storetest.New()
	seedUser(t, fake, "new@example.com", "correct-password", false)
	svc := newTestService(fake)

	_, err := svc.SignIn(context.Background(), "new@example.com", "correct-password")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	fake := storetest.New()
	userID := seedUser(t, fake, "staff@example.com", "old-password", true)
	svc := newTestService(fake)

	before := fake.Row(store.Users, userID)["password_hash"].(string)

	actor := &model.Identity{ID: userID, Email: "staff@example.com"}
	err := svc.ChangePassword(context.Background(), actor, "wrong-password", "new-password-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	after := fake.Row(store.Users, userID)["password_hash"].(string)
	assert.Equal(t, before, after, "stored hash must be untouched after a failed re-auth")
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	fake := storetest.New()
	userID := seedUser(t, fake, "staff@example.com", "old-password", true)
	svc := newTestService(fake)

	actor := &model.Identity{ID: userID, Email: "staff@example.com"}
	err := svc.ChangePassword(context.Background(), actor, "old-password", "new-password-123")
	require.NoError(t, err)

	hash := fake.Row(store.Users, userID)["password_hash"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password-123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("old-password")))
}

func TestSignUpRejectsTakenEmail(t *testing.T) {
	fake := storetest.New()
	seedUser(t, fake, "taken@example.com", "whatever", true)
	svc := newTestService(fake)

	err := svc.SignUp(context.Background(), "Someone", "taken@example.com", "password123", model.RoleStaff)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, fake.Rows(store.Users), 1)
}

func TestAdminCreateUser(t *testing.T) {
	fake := storetest.New()
	svc := newTestService(fake)

	userID, err := svc.AdminCreateUser(context.Background(), "doc@example.com", "temp-pass-123", true)
	require.NoError(t, err)

	row := fake.Row(store.Users, userID)
	require.NotNil(t, row)
	assert.Equal(t, "doc@example.com", row["email"])
	assert.Equal(t, true, row["email_confirmed"])
	hash := row["password_hash"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("temp-pass-123")))

	_, err = svc.AdminCreateUser(context.Background(), "doc@example.com", "other", true)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestReAuthenticate(t *testing.T) {
	fake := storetest.New()
	seedUser(t, fake, "staff@example.com", "secret-password", true)
	svc := newTestService(fake)

	assert.NoError(t, svc.ReAuthenticate(context.Background(), "staff@example.com", "secret-password"))
	assert.ErrorIs(t, svc.ReAuthenticate(context.Background(), "staff@example.com", "nope"), ErrInvalidCredentials)
}

func TestUpdateProfilePatchesRow(t *testing.T) {
	fake := storetest.New()
	userID := seedUser(t, fake, "staff@example.com", "secret-password", true)
	svc := newTestService(fake)

	actor := &model.Identity{ID: userID, Email: "staff@example.com"}
	err := svc.UpdateProfile(context.Background(), actor, "New Name", "555-0101", "staff@example.com")
	require.NoError(t, err)

	row := fake.Row(store.Users, userID)
	assert.Equal(t, "New Name", row["name"])
	assert.Equal(t, "555-0101", row["phone"])
	// Unchanged email skips the provider-level update.
	assert.Equal(t, "staff@example.com", row["email"])
}

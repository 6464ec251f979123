package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
)

func newAuthService(t *testing.T) (*services.AuthService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	return services.NewAuthService(repos.NewUserRepo(db), "test-secret"), db
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	u, err := svc.Register(services.RegisterRequest{
		Email:    "sous@sugarstudio.test",
		FullName: "Sous Chef",
		Password: "Sourdough9",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, u.Role)

	token, logged, err := svc.Login("sous@sugarstudio.test", "Sourdough9")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, logged.ID)

	verified, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, verified.ID)
}

func TestAuth_BadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Login("nobody@sugarstudio.test", "Whatever1")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	// Seeded admin with the wrong password
	_, _, err = svc.Login("admin@sugarstudio.test", "wrong-password")
	assert.ErrorIs(t, err, services.ErrBadCreds)
}

func TestAuth_RegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := []services.RegisterRequest{
		{Email: "not-an-email", FullName: "A B", Password: "Sourdough9"},
		{Email: "ok@sugarstudio.test", FullName: "", Password: "Sourdough9"},
		{Email: "ok@sugarstudio.test", FullName: "A B", Password: "short"},
		{Email: "ok@sugarstudio.test", FullName: "A B", Password: "alllowercase1"},
		{Email: "ok@sugarstudio.test", FullName: "A B", Password: "Sourdough9", Role: "OWNER"},
		{Email: "admin@sugarstudio.test", FullName: "A B", Password: "Sourdough9"}, // duplicate
	}
	for i, req := range cases {
		_, err := svc.Register(req)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "case %d: %v", i, err)
	}
}

func TestAuth_InactiveUserRejected(t *testing.T) {
	svc, db := newAuthService(t)

	u, err := svc.Register(services.RegisterRequest{
		Email:    "former@sugarstudio.test",
		FullName: "Former Staff",
		Password: "Croissant7",
	})
	require.NoError(t, err)

	token, _, err := svc.Login("former@sugarstudio.test", "Croissant7")
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE users SET is_active = 0 WHERE id = ?`, u.ID)
	require.NoError(t, err)

	_, _, err = svc.Login("former@sugarstudio.test", "Croissant7")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	// Existing tokens die with the account.
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, services.ErrBadCreds)
}

func TestAuth_ChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)

	u, err := svc.Register(services.RegisterRequest{
		Email:    "chef@sugarstudio.test",
		FullName: "Head Chef",
		Password: "Brioche88",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(u.ID, "wrong", "Babka2024")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	require.NoError(t, svc.ChangePassword(u.ID, "Brioche88", "Babka2024"))

	_, _, err = svc.Login("chef@sugarstudio.test", "Brioche88")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = svc.Login("chef@sugarstudio.test", "Babka2024")
	assert.NoError(t, err)
}

func TestAuth_VerifyGarbageToken(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, services.ErrBadCreds)
}

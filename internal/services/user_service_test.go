package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jmherrera/task-tracker-api/internal/models"
	"github.com/jmherrera/task-tracker-api/internal/repository"
)

func setupUserServiceTest(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewUserService(repository.NewUserRepository(db))
}

func TestUserService_CreateUserAndAuthenticate(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	email := "fake.email@example.com"
	password := "securepassword909"

	user, err := svc.Register(RegisterInput{Email: email, Password: password})
	require.NoError(t, err)
	require.Equal(t, email, user.Email)
	require.NotEqual(t, password, user.PasswordHash)

	authed, err := svc.Authenticate(email, password)
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(email, "wrongpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_NormalizesEmailDomain(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	samples := []struct {
		raw        string
		normalized string
	}{
		{"BRANDON101@EXAMPLE.COM", "BRANDON101@example.com"},
		{"Mary.Smith@Example.com", "Mary.Smith@example.com"},
		{"blueRideR200@example.COM", "blueRideR200@example.com"},
	}

	for _, sample := range samples {
		user, err := svc.Register(RegisterInput{Email: sample.raw, Password: "securepassword909"})
		require.NoError(t, err)
		require.Equal(t, sample.normalized, user.Email)
	}
}

func TestNormalizeEmail_NoAtSignLeftUnchanged(t *testing.T) {
	require.Equal(t, "NotAnEmail", NormalizeEmail("NotAnEmail"))
}

func TestUserService_EmptyEmailRejected(t *testing.T) {
	db, svc := setupUserServiceTest(t)

	_, err := svc.Register(RegisterInput{Email: "", Password: "securepassword909"})
	require.ErrorIs(t, err, ErrEmailRequired)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUserService_DuplicateEmailRejected(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	input := RegisterInput{Email: "bob23@example.com", Password: "securepassword909", Name: "Bob Shaw"}
	_, err := svc.Register(input)
	require.NoError(t, err)

	_, err = svc.Register(input)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_ShortPasswordLeavesNoRow(t *testing.T) {
	db, svc := setupUserServiceTest(t)

	_, err := svc.Register(RegisterInput{Email: "bob23@example.com", Password: "test", Name: "Bob Shaw"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "bob23@example.com").Count(&count).Error)
	require.Zero(t, count)

	// The account never existed, so logging in with that password can't work.
	_, err = svc.Authenticate("bob23@example.com", "test")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_BlankPasswordNeverAuthenticates(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	_, err := svc.Register(RegisterInput{Email: "bob23@example.com", Password: "securepassword909"})
	require.NoError(t, err)

	_, err = svc.Authenticate("bob23@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_InactiveUserCannotAuthenticate(t *testing.T) {
	db, svc := setupUserServiceTest(t)

	user, err := svc.Register(RegisterInput{Email: "bob23@example.com", Password: "securepassword909"})
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = svc.Authenticate("bob23@example.com", "securepassword909")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_UpdateProfilePartial(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	user, err := svc.Register(RegisterInput{Email: "bob23@example.com", Password: "securepassword909", Name: "Bob Shaw"})
	require.NoError(t, err)

	name := "Updated Name"
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)

	// The password was not supplied, so the old one still works.
	_, err = svc.Authenticate("bob23@example.com", "securepassword909")
	require.NoError(t, err)

	password := "newpassword123"
	_, err = svc.UpdateProfile(user.ID, UpdateProfileInput{Password: &password})
	require.NoError(t, err)

	_, err = svc.Authenticate("bob23@example.com", password)
	require.NoError(t, err)
	_, err = svc.Authenticate("bob23@example.com", "securepassword909")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_UpdateProfileShortPasswordRejected(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	user, err := svc.Register(RegisterInput{Email: "bob23@example.com", Password: "securepassword909"})
	require.NoError(t, err)

	password := "test"
	_, err = svc.UpdateProfile(user.ID, UpdateProfileInput{Password: &password})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestUserService_CreateSuperuserSetsFlags(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	user, err := svc.CreateSuperuser("root@example.com", "securepassword909", "Root")
	require.NoError(t, err)
	require.True(t, user.IsStaff)
	require.True(t, user.IsSuperuser)
	require.True(t, user.IsActive)
}

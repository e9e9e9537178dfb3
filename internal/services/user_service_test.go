package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"task-manager.com/task-manager/internal/auth"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

func validInput(email, phone string) RegisterInput {
	return RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		PhoneNumber:     phone,
		Password:        "pw1",
		ConfirmPassword: "pw1",
	}
}

func requireValidationCodes(t *testing.T, err error, codes ...string) apperrors.ValidationErrors {
	t.Helper()

	var verrs apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)

	got := make([]string, 0, len(verrs))
	for _, v := range verrs {
		got = append(got, v.Code)
	}
	require.Equal(t, codes, got)
	return verrs
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Register(context.Background(), validInput("a@x.com", "1234567890"))
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	require.NotNil(t, user.PhoneNumber)
	assert.Equal(t, "1234567890", *user.PhoneNumber)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	ok, err := auth.CheckPassword(user.PasswordHash, "pw1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_WithoutPhone(t *testing.T) {
	env := newTestEnv(t)

	first := env.register(t, "a@x.com", "")
	second := env.register(t, "b@x.com", "")

	assert.Nil(t, first.PhoneNumber)
	assert.Nil(t, second.PhoneNumber)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t)

	in := validInput("a@x.com", "")
	in.ConfirmPassword = "pw2"

	_, err := env.users.Register(context.Background(), in)
	verrs := requireValidationCodes(t, err, apperrors.CodePasswordMatch)
	assert.Equal(t, "password: passwords do not match", verrs.Messages()[0])
	assert.Zero(t, env.countUsers(t, "a@x.com"))
}

func TestRegister_PhoneFormat(t *testing.T) {
	cases := []struct {
		name  string
		phone string
		codes []string
	}{
		{"non digit right length", "12345678a0", []string{apperrors.CodePhoneDigits}},
		{"too short", "12345", []string{apperrors.CodePhoneLength}},
		{"too long", "123456789012", []string{apperrors.CodePhoneLength}},
		{"both", "12-34", []string{apperrors.CodePhoneDigits, apperrors.CodePhoneLength}},
		{"unicode digits", "١٢٣٤٥٦٧٨٩٠", []string{apperrors.CodePhoneDigits}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.users.Register(context.Background(), validInput("a@x.com", tc.phone))
			requireValidationCodes(t, err, tc.codes...)
			assert.Zero(t, env.countUsers(t, "a@x.com"))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "")

	_, err := env.users.Register(context.Background(), validInput("a@x.com", ""))
	verrs := requireValidationCodes(t, err, apperrors.CodeEmailTaken)
	assert.Equal(t, "email: email already exists", verrs.Messages()[0])
	assert.EqualValues(t, 1, env.countUsers(t, "a@x.com"))
}

func TestRegister_DuplicatePhone(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "1234567890")

	_, err := env.users.Register(context.Background(), validInput("b@x.com", "1234567890"))
	verrs := requireValidationCodes(t, err, apperrors.CodePhoneTaken)
	assert.Equal(t, "phone_number: phone number already exists", verrs.Messages()[0])
	assert.Zero(t, env.countUsers(t, "b@x.com"))
}

func TestRegister_EvaluationOrder(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "1234567890")

	in := validInput("a@x.com", "12a")
	in.ConfirmPassword = "other"
	_, err := env.users.Register(context.Background(), in)
	requireValidationCodes(t, err,
		apperrors.CodePasswordMatch,
		apperrors.CodePhoneDigits,
		apperrors.CodePhoneLength,
		apperrors.CodeEmailTaken,
	)

	in = validInput("a@x.com", "1234567890")
	_, err = env.users.Register(context.Background(), in)
	requireValidationCodes(t, err, apperrors.CodeEmailTaken, apperrors.CodePhoneTaken)
}

func TestRegister_RequiredFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "x", ConfirmPassword: "y"})
	verrs := requireValidationCodes(t, err,
		apperrors.CodeRequired,
		apperrors.CodeRequired,
		apperrors.CodeInvalid,
	)
	assert.Equal(t, []string{
		"first_name: this field is required",
		"last_name: this field is required",
		"email: enter a valid email address",
	}, verrs.Messages())
}

func TestRegister_PasswordTooLong(t *testing.T) {
	env := newTestEnv(t)

	in := validInput("long@x.com", "")
	in.Password = strings.Repeat("p", 80)
	in.ConfirmPassword = in.Password

	_, err := env.users.Register(context.Background(), in)
	verrs := requireValidationCodes(t, err, apperrors.CodeTooLong)
	assert.Equal(t, []string{"password: ensure this field has no more than 72 bytes"}, verrs.Messages())
	assert.Zero(t, env.countUsers(t, "long@x.com"))

	in.Password = strings.Repeat("p", 72)
	in.ConfirmPassword = in.Password
	_, err = env.users.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = env.users.SignIn(context.Background(), "long@x.com", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestRegister_NormalizesEmailDomain(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "  Bob@Example.COM ", "")
	assert.Equal(t, "Bob@example.com", user.Email)

	_, err := env.users.Register(context.Background(), validInput("Bob@EXAMPLE.com", ""))
	requireValidationCodes(t, err, apperrors.CodeEmailTaken)

	other := env.register(t, "bob@example.com", "")
	assert.NotEqual(t, user.ID, other.ID, "local part stays case-sensitive")
}

func TestSignIn_Success(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "a@x.com", "")

	res, err := env.users.SignIn(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, res.User.ID)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)

	caller, err := env.users.Authenticate(context.Background(), res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, caller.ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "")

	_, err := env.users.SignIn(context.Background(), "a@x.com", "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestSignIn_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.SignIn(context.Background(), "ghost@x.com", "pw1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthenticate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "a@x.com", "")

	res, err := env.users.SignIn(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = env.users.Authenticate(context.Background(), res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "refresh token is not a bearer credential")

	_, err = env.users.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = env.users.Authenticate(context.Background(), res.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, repository.NewUserRepository(env.db).DeleteUser(context.Background(), user.ID))
	_, err = env.users.Authenticate(context.Background(), res.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

type failingUserStore struct {
	UserStore
	err error
}

func (f failingUserStore) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, f.err
}

func (f failingUserStore) EmailExists(context.Context, string) (bool, error) {
	return false, f.err
}

func TestUserService_InternalErrorsAreGeneric(t *testing.T) {
	issuer := auth.NewTokenIssuer("k", time.Minute, time.Hour)
	svc := NewUserService(failingUserStore{err: errBoom{}}, issuer, zap.NewNop())

	_, err := svc.SignIn(context.Background(), "a@x.com", "pw1")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NotContains(t, err.Error(), "boom")

	_, err = svc.Register(context.Background(), validInput("a@x.com", ""))
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Bob@example.com", NormalizeEmail(" Bob@EXAMPLE.com\t"))
	assert.Equal(t, "no-at-sign", NormalizeEmail("no-at-sign"))
	assert.Equal(t, "a@b@c.org", NormalizeEmail("a@b@C.org"))
}

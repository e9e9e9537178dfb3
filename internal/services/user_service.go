package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"task-manager.com/task-manager/internal/auth"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/validation"
)

const phoneNumberLength = 10

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneNumberExists(ctx context.Context, phone string) (bool, error)
}

type RegisterInput struct {
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email,max=254"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type SignInResult struct {
	User   *model.User
	Tokens *auth.TokenPair
}

// UserService registers users, verifies credentials and resolves bearer
// tokens back to users.
type UserService struct {
	users  UserStore
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

func NewUserService(users UserStore, tokens *auth.TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register validates in and creates the user. Shape errors (missing fields,
// malformed email) are reported together first; if there are none, the
// registration rules are evaluated in order (password match, phone digits,
// phone length, email uniqueness, phone uniqueness) and every violated one is
// reported in that order.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = NormalizeEmail(in.Email)

	if err := s.checkShape(in); err != nil {
		return nil, err
	}

	verrs, err := s.checkRegistration(ctx, in)
	if err != nil {
		return nil, s.internal("registration lookup failed", err)
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.internal("password hashing failed", err)
	}

	user := &model.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if in.PhoneNumber != "" {
		phone := in.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration; report which value collided.
			verrs, checkErr := s.checkRegistration(ctx, in)
			if checkErr == nil && (verrs.Has(apperrors.CodeEmailTaken) || verrs.Has(apperrors.CodePhoneTaken)) {
				return nil, verrs
			}
		}
		return nil, s.internal("error creating user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// checkShape reports missing and malformed fields together. bcrypt only
// hashes the first MaxPasswordBytes bytes, so longer passwords are rejected
// here rather than failing in the hasher.
func (s *UserService) checkShape(in RegisterInput) error {
	var verrs apperrors.ValidationErrors
	if err := validation.Struct(in); err != nil {
		if !errors.As(err, &verrs) {
			return s.internal("registration validation failed", err)
		}
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "password",
			Code:    apperrors.CodeTooLong,
			Message: fmt.Sprintf("ensure this field has no more than %d bytes", auth.MaxPasswordBytes),
		})
	}
	return verrs.Err()
}

func (s *UserService) checkRegistration(ctx context.Context, in RegisterInput) (apperrors.ValidationErrors, error) {
	var verrs apperrors.ValidationErrors

	if in.Password != in.ConfirmPassword {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "password",
			Code:    apperrors.CodePasswordMatch,
			Message: "passwords do not match",
		})
	}

	phone := in.PhoneNumber
	phoneWellFormed := true
	if phone != "" {
		if !isDigits(phone) {
			phoneWellFormed = false
			verrs = append(verrs, apperrors.FieldError{
				Field:   "phone_number",
				Code:    apperrors.CodePhoneDigits,
				Message: "phone number must be numeric",
			})
		}
		if utf8.RuneCountInString(phone) != phoneNumberLength {
			phoneWellFormed = false
			verrs = append(verrs, apperrors.FieldError{
				Field:   "phone_number",
				Code:    apperrors.CodePhoneLength,
				Message: fmt.Sprintf("phone number must be %d digits long", phoneNumberLength),
			})
		}
	}

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "email",
			Code:    apperrors.CodeEmailTaken,
			Message: "email already exists",
		})
	}

	if phone != "" && phoneWellFormed {
		taken, err := s.users.PhoneNumberExists(ctx, phone)
		if err != nil {
			return nil, err
		}
		if taken {
			verrs = append(verrs, apperrors.FieldError{
				Field:   "phone_number",
				Code:    apperrors.CodePhoneTaken,
				Message: "phone number already exists",
			})
		}
	}

	return verrs, nil
}

// SignIn returns ErrUserNotFound for an unknown email and ErrInvalidPassword
// for a wrong password. Anything else is logged and reported as ErrInternal.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, s.internal("user lookup failed", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, s.internal("password check failed", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidPassword
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, s.internal("token issuance failed", err)
	}

	return &SignInResult{User: user, Tokens: pair}, nil
}

// Authenticate resolves an access token to an active user.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	userID, err := s.tokens.UserIDFromAccessToken(accessToken)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, s.internal("token user lookup failed", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

func (s *UserService) internal(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return apperrors.ErrInternal
}

// NormalizeEmail trims surrounding whitespace and lower-cases the domain part.
// The local part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

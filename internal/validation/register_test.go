package validation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/password"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindBySlug(ctx context.Context, slug string) (*model.User, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:     "jane.roe@example.org",
		Password:  "orbit-Curve-88",
		FirstName: "Jane",
		LastName:  "Roe",
		Role:      "HST",
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"trims and lowercases domain", "  TestUser@EXAMPLE.com  ", "TestUser@example.com"},
		{"gmail local part folded", "  Test.User@GMAIL.com  ", "testuser@gmail.com"},
		{"googlemail treated as gmail", "J.Doe@GoogleMail.com", "jdoe@googlemail.com"},
		{"non-gmail local part untouched", "J.Doe@corp.io", "J.Doe@corp.io"},
		{"no at sign passes through", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.raw))
		})
	}
}

func TestRegistration_Validate(t *testing.T) {
	newValidator := func(repo *MockUserRepository) *Registration {
		return NewRegistration(repo, password.DefaultPolicy(), false)
	}

	t.Run("valid input passes and is normalized", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "jane.roe@example.org").
			Return(nil, apperrors.ErrUserNotFound)

		in := validInput()
		in.Email = "  jane.roe@EXAMPLE.org "
		out, err := newValidator(repo).Validate(context.Background(), in)

		assert.NoError(t, err)
		assert.Equal(t, "jane.roe@example.org", out.Email)
		repo.AssertExpectations(t)
	})

	t.Run("missing required fields are named", func(t *testing.T) {
		for _, field := range []string{"email", "password", "first_name", "last_name"} {
			in := validInput()
			switch field {
			case "email":
				in.Email = ""
			case "password":
				in.Password = ""
			case "first_name":
				in.FirstName = ""
			case "last_name":
				in.LastName = ""
			}

			repo := new(MockUserRepository)
			repo.On("FindByEmail", mock.Anything, mock.Anything).
				Return(nil, apperrors.ErrUserNotFound).Maybe()

			_, err := newValidator(repo).Validate(context.Background(), in)
			var ferr apperrors.FieldErrors
			assert.ErrorAs(t, err, &ferr, "field %s", field)
			assert.Contains(t, ferr, field)
		}
	})

	t.Run("missing role is valid", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrUserNotFound)

		in := validInput()
		in.Role = ""
		_, err := newValidator(repo).Validate(context.Background(), in)
		assert.NoError(t, err)
	})

	t.Run("malformed emails are rejected", func(t *testing.T) {
		for _, email := range []string{"invalid-email", "fakecom@"} {
			repo := new(MockUserRepository)
			repo.On("FindByEmail", mock.Anything, mock.Anything).
				Return(nil, apperrors.ErrUserNotFound).Maybe()

			in := validInput()
			in.Email = email
			_, err := newValidator(repo).Validate(context.Background(), in)
			var ferr apperrors.FieldErrors
			assert.ErrorAs(t, err, &ferr, "email %s", email)
			assert.Contains(t, ferr, "email")
		}
	})

	t.Run("existing email gets a distinguishing message", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "jane.roe@example.org").
			Return(&model.User{Email: "jane.roe@example.org"}, nil)

		_, err := newValidator(repo).Validate(context.Background(), validInput())
		var ferr apperrors.FieldErrors
		assert.ErrorAs(t, err, &ferr)
		assert.Contains(t, ferr["email"], "a user with this email exists")
	})

	t.Run("weak passwords are rejected with password errors", func(t *testing.T) {
		for _, pswd := range []string{"common", "123456", "123hell"} {
			repo := new(MockUserRepository)
			repo.On("FindByEmail", mock.Anything, mock.Anything).
				Return(nil, apperrors.ErrUserNotFound)

			in := validInput()
			in.Password = pswd
			_, err := newValidator(repo).Validate(context.Background(), in)
			var ferr apperrors.FieldErrors
			assert.ErrorAs(t, err, &ferr, "password %s", pswd)
			assert.Contains(t, ferr, "password")
		}
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrUserNotFound)

		in := validInput()
		in.Role = "BOSS"
		_, err := newValidator(repo).Validate(context.Background(), in)
		var ferr apperrors.FieldErrors
		assert.ErrorAs(t, err, &ferr)
		assert.Contains(t, ferr, "role")
	})
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/password"
	"homestay/internal/service"
	"homestay/internal/validation"
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

func newRegisterHandler(repo *MockUserRepository) *UserHandler {
	policy := password.DefaultPolicy()
	svc := service.NewUserService(repo, nil, policy)
	reg := validation.NewRegistration(repo, policy, false)
	return NewUserHandler(svc, reg)
}

func postRegister(t *testing.T, h *UserHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("created response never echoes the password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "jane.roe@example.org").
			Return(nil, apperrors.ErrUserNotFound)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		rec := postRegister(t, newRegisterHandler(repo), `{
			"email": "jane.roe@example.org",
			"password": "orbit-Curve-88",
			"first_name": "Jane",
			"last_name": "Roe",
			"role": "HST"
		}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "jane.roe@example.org")
		assert.Regexp(t, `"slug":"jane-roe-[0-9a-f]{5}"`, body)
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "orbit-Curve-88")
		repo.AssertExpectations(t)
	})

	t.Run("weak password yields field-keyed errors without echoing it", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrUserNotFound)

		rec := postRegister(t, newRegisterHandler(repo), `{
			"email": "jane.roe@example.org",
			"password": "123hell",
			"first_name": "Jane",
			"last_name": "Roe"
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"password"`)
		assert.NotContains(t, rec.Body.String(), "123hell")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("existing email is reported, not merged", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "jane.roe@example.org").
			Return(&model.User{Email: "jane.roe@example.org"}, nil)

		rec := postRegister(t, newRegisterHandler(repo), `{
			"email": "jane.roe@example.org",
			"password": "orbit-Curve-88",
			"first_name": "Jane",
			"last_name": "Roe"
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "a user with this email exists")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing fields are named", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrUserNotFound).Maybe()

		rec := postRegister(t, newRegisterHandler(repo), `{"email": "jane.roe@example.org"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"password"`)
		assert.Contains(t, body, `"first_name"`)
		assert.Contains(t, body, `"last_name"`)
	})
}

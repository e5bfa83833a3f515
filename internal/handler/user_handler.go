package handler

import (
	"net/http"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/service"
	"homestay/internal/validation"
)

// UserHandler bundles HTTP handlers for registration, profiles and
// password change.
type UserHandler struct {
	svc      service.UserService
	register *validation.Registration
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, register *validation.Registration) *UserHandler {
	return &UserHandler{svc: svc, register: register}
}

// RegisterRequest represents a user registration request. The password is
// write-only and never appears in responses.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

// UpdateUserRequest represents a partial profile update. Absent fields keep
// their prior values.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	Slug      *string `json:"slug"`
	Email     *string `json:"email"`
}

// PasswordChangeRequest carries the three password-change fields. The actor
// comes from the JWT, never from the body.
type PasswordChangeRequest struct {
	OldPassword     string `json:"old_password" validate:"required,max=40"`
	NewPassword     string `json:"new_password" validate:"required,max=40"`
	ConfirmPassword string `json:"confirm_password" validate:"required,max=40"`
}

// UserDetail is the canonical detail representation.
type UserDetail struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserDetail(u *model.User) UserDetail {
	return UserDetail{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		Slug:      u.Slug,
		CreatedAt: u.CreatedAt,
	}
}

// toHTTPError translates domain errors into Echo errors with the standard
// response body.
func toHTTPError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// actorID extracts the acting user's ID from the verified JWT in the
// request context.
func actorID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	idStr, _ := claims["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in, err := h.register.Validate(c.Request().Context(), validation.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return toHTTPError(err)
	}

	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserParams{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      model.Role(in.Role),
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    newUserDetail(user),
	})
}

// GetMe godoc
// @Summary Get the acting user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserDetail
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newUserDetail(user))
}

// GetUser godoc
// @Summary Get user by slug
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param slug path string true "User slug"
// @Success 200 {object} UserDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{slug} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.GetUserBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newUserDetail(user))
}

// UpdateUser godoc
// @Summary Partially update a user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "User slug"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} UserDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{slug} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	user, err := h.svc.GetUserBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	upd := service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Slug:      req.Slug,
		Email:     req.Email,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		upd.Role = &role
	}

	updated, err := h.svc.UpdateProfile(c.Request().Context(), user, upd)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newUserDetail(updated))
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ListEntry
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	entries, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ChangePassword godoc
// @Summary Change the acting user's password
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param request body PasswordChangeRequest true "Password change data"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}

	var req PasswordChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.ChangePasswordByID(c.Request().Context(), id, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

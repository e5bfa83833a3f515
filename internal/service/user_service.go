package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"homestay/internal/cache"
	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/password"
	"homestay/internal/repository"
	"homestay/internal/validation"
)

const userCacheTTL = 5 * time.Minute

// CreateUserParams is the raw input to the user factory. Flag pointers
// distinguish "not provided" from an explicit false.
type CreateUserParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        model.Role
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// ProfileUpdate is a partial mutation over an existing record. Nil fields
// keep their prior values.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Role      *model.Role
	Slug      *string
	Email     *string
}

// ListEntry is the projection returned by ListUsers.
type ListEntry struct {
	Role     model.Role `json:"role"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
}

// UserService exposes the identity and credential lifecycle.
type UserService interface {
	// Create is deliberately disabled; use CreateUser or CreateSuperuser.
	Create(ctx context.Context, user *model.User) (*model.User, error)
	CreateUser(ctx context.Context, p CreateUserParams) (*model.User, error)
	CreateSuperuser(ctx context.Context, p CreateUserParams) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserBySlug(ctx context.Context, slug string) (*model.User, error)
	ListUsers(ctx context.Context) ([]ListEntry, error)
	UpdateProfile(ctx context.Context, user *model.User, upd ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword, confirmPassword string) error
	ChangePasswordByID(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirmPassword string) error
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	policy *password.Policy
}

// NewUserService builds a UserService with repository, cache and password policy.
func NewUserService(repo repository.UserRepository, cache *cache.Client, policy *password.Policy) UserService {
	return &userService{repo: repo, cache: cache, policy: policy}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// Create always fails: records are constructed only through CreateUser and
// CreateSuperuser so that normalization and hashing cannot be bypassed.
func (s *userService) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return nil, apperrors.ErrNotImplemented
}

// CreateUser constructs and persists a valid identity record from raw input.
// The plaintext password is hashed and discarded; email is normalized before
// storage; the slug is derived once at insert.
func (s *userService) CreateUser(ctx context.Context, p CreateUserParams) (*model.User, error) {
	if strings.TrimSpace(p.Email) == "" {
		return nil, apperrors.ErrMissingEmail
	}
	if p.Password == "" {
		return nil, apperrors.ErrMissingPassword
	}

	user := &model.User{
		Email:       validation.NormalizeEmail(p.Email),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        p.Role,
		IsActive:    boolOr(p.IsActive, true),
		IsStaff:     boolOr(p.IsStaff, false),
		IsSuperuser: boolOr(p.IsSuperuser, false),
	}
	if user.Role == "" {
		user.Role = model.RoleGuest
	}

	if err := validateRecord(user); err != nil {
		return nil, err
	}

	// Identity is assigned here, not left to the persistence hook: the slug
	// is derived from the ID exactly once, at creation.
	user.ID = uuid.New()
	user.Slug = user.GenerateSlug()

	hash, err := password.Hash(p.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

// CreateSuperuser is the privileged factory variant: staff, superuser and
// active flags default to true and the role to admin. Explicitly passing
// is_staff=false or is_superuser=false is rejected.
func (s *userService) CreateSuperuser(ctx context.Context, p CreateUserParams) (*model.User, error) {
	if p.IsStaff != nil && !*p.IsStaff {
		return nil, apperrors.ErrPrivilege
	}
	if p.IsSuperuser != nil && !*p.IsSuperuser {
		return nil, apperrors.ErrPrivilege
	}

	yes := true
	p.IsStaff = &yes
	p.IsSuperuser = &yes
	if p.IsActive == nil {
		p.IsActive = &yes
	}
	if p.Role == "" {
		p.Role = model.RoleAdmin
	}
	return s.CreateUser(ctx, p)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) GetUserBySlug(ctx context.Context, slug string) (*model.User, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *userService) ListUsers(ctx context.Context) ([]ListEntry, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]ListEntry, 0, len(users))
	for i := range users {
		entries = append(entries, ListEntry{
			Role:     users[i].Role,
			Email:    users[i].Email,
			FullName: users[i].FullName(),
		})
	}
	return entries, nil
}

// UpdateProfile applies the provided fields to an existing record and
// persists it in place. A provided email is re-validated for format and
// normalized; uniqueness is not re-checked here, the unique index is the
// backstop. ID, created_at and password hash never change on this path.
func (s *userService) UpdateProfile(ctx context.Context, user *model.User, upd ProfileUpdate) (*model.User, error) {
	ferr := apperrors.FieldErrors{}

	if upd.Email != nil {
		email := validation.NormalizeEmail(*upd.Email)
		if err := validation.ValidateEmailFormat(email); err != nil {
			ferr.Add("email", err.Error())
		} else {
			user.Email = email
		}
	}
	if upd.FirstName != nil {
		if strings.TrimSpace(*upd.FirstName) == "" {
			ferr.Add("first_name", "this field may not be blank")
		} else {
			user.FirstName = *upd.FirstName
		}
	}
	if upd.LastName != nil {
		if strings.TrimSpace(*upd.LastName) == "" {
			ferr.Add("last_name", "this field may not be blank")
		} else {
			user.LastName = *upd.LastName
		}
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			ferr.Add("role", "invalid role, must be one of HST, ADN, GST")
		} else {
			user.Role = *upd.Role
		}
	}
	if upd.Slug != nil && *upd.Slug != "" {
		user.Slug = *upd.Slug
	}

	if len(ferr) > 0 {
		return nil, ferr
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

// ChangePassword rotates the actor's credential after three gates pass: the
// old password verifies against the current hash, new and confirm match
// byte-for-byte, and the new password satisfies the strength policy. On
// success exactly the hash changes, nothing else.
func (s *userService) ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword, confirmPassword string) error {
	if !password.Verify(oldPassword, actor.PasswordHash) {
		return apperrors.ErrWrongPassword
	}
	if newPassword != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	attrs := []password.UserAttribute{
		{Name: "email", Value: actor.Email},
		{Name: "first name", Value: actor.FirstName},
		{Name: "last name", Value: actor.LastName},
	}
	if msgs := s.policy.Validate(newPassword, attrs...); len(msgs) > 0 {
		return apperrors.FieldErrors{"new_password": msgs}
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	actor.PasswordHash = hash

	if err := s.repo.Update(ctx, actor); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(actor.ID))
	return nil
}

// ChangePasswordByID resolves a fresh record by identifier and rotates its
// credential. The read-modify-write against the freshly read row keeps
// concurrent rotations serialized at the storage layer.
func (s *userService) ChangePasswordByID(ctx context.Context, id uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.ChangePassword(ctx, user, oldPassword, newPassword, confirmPassword)
}

// validateRecord runs full-record validation before persisting.
func validateRecord(user *model.User) error {
	ferr := apperrors.FieldErrors{}
	if strings.TrimSpace(user.FirstName) == "" {
		ferr.Add("first_name", "this field is required")
	}
	if strings.TrimSpace(user.LastName) == "" {
		ferr.Add("last_name", "this field is required")
	}
	if !user.Role.Valid() {
		ferr.Add("role", "invalid role, must be one of HST, ADN, GST")
	}
	if err := validation.ValidateEmailFormat(user.Email); err != nil {
		ferr.Add("email", err.Error())
	}
	if len(ferr) > 0 {
		return ferr
	}
	if user.IsSuperuser && !user.IsStaff {
		return apperrors.ErrPrivilege
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

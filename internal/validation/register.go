package validation

import (
	"context"
	"errors"
	"strings"

	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/password"
	"homestay/internal/repository"
)

const requiredMsg = "this field is required"

// RegisterInput is the raw registration field mapping before validation.
// Password is write-only: it is accepted here and never serialized back.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Registration validates raw registration input before it reaches the user
// factory. It is an ordered pipeline of field validators; every violation is
// collected into field-keyed errors rather than failing fast.
type Registration struct {
	repo                repository.UserRepository
	policy              *password.Policy
	checkDeliverability bool
}

// NewRegistration builds the registration validator. checkDeliverability
// controls whether the email domain is probed for MX records; tests and
// offline environments switch it off.
func NewRegistration(repo repository.UserRepository, policy *password.Policy, checkDeliverability bool) *Registration {
	return &Registration{
		repo:                repo,
		policy:              policy,
		checkDeliverability: checkDeliverability,
	}
}

// Validate runs the pipeline. On success it returns the normalized input,
// ready for the factory; otherwise field-keyed errors.
func (v *Registration) Validate(ctx context.Context, in RegisterInput) (RegisterInput, error) {
	ferr := apperrors.FieldErrors{}

	required := []struct {
		field string
		value string
	}{
		{"email", in.Email},
		{"password", in.Password},
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			ferr.Add(f.field, requiredMsg)
		}
	}

	if _, ok := ferr["email"]; !ok {
		in.Email = NormalizeEmail(in.Email)
		if err := ValidateEmailFormat(in.Email); err != nil {
			ferr.Add("email", err.Error())
		} else {
			if v.checkDeliverability {
				if err := ValidateEmailDeliverable(in.Email); err != nil {
					ferr.Add("email", err.Error())
				}
			}
			if _, err := v.repo.FindByEmail(ctx, in.Email); err == nil {
				ferr.Add("email", apperrors.ErrDuplicateEmail.Error())
			} else if !errors.Is(err, apperrors.ErrUserNotFound) {
				return in, err
			}
		}
	}

	if _, ok := ferr["password"]; !ok {
		attrs := []password.UserAttribute{
			{Name: "email", Value: in.Email},
			{Name: "first name", Value: in.FirstName},
			{Name: "last name", Value: in.LastName},
		}
		for _, msg := range v.policy.Validate(in.Password, attrs...) {
			ferr.Add("password", msg)
		}
	}

	// Role is optional; absence resolves to the default downstream.
	if in.Role != "" && !model.Role(in.Role).Valid() {
		ferr.Add("role", "invalid role, must be one of HST, ADN, GST")
	}

	if len(ferr) > 0 {
		return in, ferr
	}
	return in, nil
}

package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("orbit-Curve-88")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, "orbit-Curve-88", digest)

	assert.True(t, Verify("orbit-Curve-88", digest))
	assert.False(t, Verify("wrong-password", digest))
}

func TestPolicy_Validate(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		password string
		attrs    []UserAttribute
		wantFail bool
	}{
		{name: "rejects common word", password: "common", wantFail: true},
		{name: "rejects short numeric", password: "123456", wantFail: true},
		{name: "rejects short mixed", password: "123hell", wantFail: true},
		{name: "rejects long numeric", password: "9402817465", wantFail: true},
		{name: "rejects common regardless of case", password: "Password123", wantFail: true},
		{
			name:     "rejects similarity to first name",
			password: "margarethe-1",
			attrs:    []UserAttribute{{Name: "first name", Value: "Margarethe"}},
			wantFail: true,
		},
		{
			name:     "rejects similarity to email local part",
			password: "jdoe1984-extra",
			attrs:    []UserAttribute{{Name: "email", Value: "jdoe1984@example.com"}},
			wantFail: true,
		},
		{name: "accepts strong password", password: "orbit-Curve-88", wantFail: false},
		{
			name:     "accepts strong password with unrelated attrs",
			password: "orbit-Curve-88",
			attrs: []UserAttribute{
				{Name: "email", Value: "jane.roe@example.org"},
				{Name: "first name", Value: "Jane"},
				{Name: "last name", Value: "Roe"},
			},
			wantFail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := policy.Validate(tt.password, tt.attrs...)
			if tt.wantFail {
				assert.NotEmpty(t, msgs)
			} else {
				assert.Empty(t, msgs)
			}
		})
	}
}

func TestPolicy_ValidateMessages(t *testing.T) {
	policy := DefaultPolicy()

	msgs := policy.Validate("123456")
	assert.Contains(t, msgs, "this password is too short, it must contain at least 9 characters")
	assert.Contains(t, msgs, "this password is entirely numeric")
	assert.Contains(t, msgs, "this password is too common")
}

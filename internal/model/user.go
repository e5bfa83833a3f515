package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Role is the access tier attached to a user.
type Role string

// Role codes, stored as 3-letter column values.
const (
	RoleHost  Role = "HST"
	RoleAdmin Role = "ADN"
	RoleGuest Role = "GST"
)

// Valid reports whether r is a known role code.
func (r Role) Valid() bool {
	switch r {
	case RoleHost, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// User represents one account in the system. Email is the login key.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:100;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	Role         Role      `json:"role" gorm:"size:3;default:'GST'"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	IsStaff      bool      `json:"is_staff" gorm:"default:false"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Slug         string    `json:"slug" gorm:"uniqueIndex;size:255;not null"`
}

// BeforeCreate assigns the UUID and derives the slug before the first insert.
// The slug is generated once and never regenerated; changing it afterwards
// would break external links.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Slug == "" {
		u.Slug = u.GenerateSlug()
	}
	return nil
}

// GenerateSlug derives the unique human-readable identifier from the names
// and the record ID. Deterministic: names john/doe with ID ending 86166fef
// yield "john-doe-66fef".
func (u *User) GenerateSlug() string {
	first := u.FirstName
	if first == "" {
		first = "user"
	}
	last := u.LastName
	if last == "" {
		last = "anon"
	}
	base := slug.Make(first + "-" + last)
	hex := strings.ReplaceAll(u.ID.String(), "-", "")
	return base + "-" + hex[len(hex)-5:]
}

var titleCaser = cases.Title(language.English)

// FullName returns the title-cased display name.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return titleCaser.String(strings.ToLower(full))
}

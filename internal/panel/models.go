package panel

import (
	"strings"
	"time"
)

// Project is an admin-panel project; bots, users and documents hang off it.
type Project struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	ModelID string `json:"model_id,omitempty" bson:"model_id,omitempty"`
}

// Bot holds the Telegram bot credentials and derived display fields for a
// project. At most one bot record exists per project.
type Bot struct {
	ProjectID   string    `json:"project_id" bson:"project_id"`
	ProjectName string    `json:"project_name" bson:"project_name"`
	Token       string    `json:"token" bson:"token"`
	Username    string    `json:"username" bson:"username"`
	URL         string    `json:"url" bson:"url"`
	FirstName   string    `json:"first_name" bson:"first_name"`
	Active      bool      `json:"active" bson:"active"`
	UsersCount  int       `json:"users_count" bson:"users_count"`
	VerifiedAt  time.Time `json:"verified_at" bson:"verified_at"`
}

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// ValidUserStatus reports whether s is an allowed status transition target.
func ValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User is a bot end-user grouped under a project.
type User struct {
	ID         string     `json:"id" bson:"id"`
	ProjectID  string     `json:"project_id" bson:"project_id"`
	Phone      string     `json:"phone" bson:"phone"`
	Username   string     `json:"username,omitempty" bson:"username,omitempty"`
	Status     string     `json:"status" bson:"status"`
	FirstLogin *time.Time `json:"first_login" bson:"first_login,omitempty"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// UserPatch carries the merge-update fields; nil means "leave unchanged".
type UserPatch struct {
	Phone    *string `json:"phone,omitempty"`
	Username *string `json:"username,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Document is an uploaded knowledge-base file attached to a project.
type Document struct {
	ID         string    `json:"id" bson:"id"`
	ProjectID  string    `json:"project_id" bson:"project_id"`
	Name       string    `json:"name" bson:"name"`
	Size       int64     `json:"size" bson:"size"`
	FileKey    string    `json:"file_key,omitempty" bson:"file_key,omitempty"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Model is a global catalog entry; read-only from the handlers' perspective.
type Model struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Provider string `json:"provider" bson:"provider"`
}

// Matches reports whether the model matches a case-insensitive substring
// search over id, name and provider. An empty query matches everything.
func (m Model) Matches(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(m.ID), q) ||
		strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Provider), q)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store is the persistence surface the mock admin handlers operate on.
// MemoryStore backs development and tests; MongoStore backs deployments
// that keep the admin state in MongoDB.
type Store interface {
	Projects(ctx context.Context) ([]panel.Project, error)
	ProjectName(ctx context.Context, id string) (string, error)
	AssignModel(ctx context.Context, projectID, modelID string) error

	Bots(ctx context.Context) ([]panel.Bot, error)
	SetBotActive(ctx context.Context, projectID string, active bool) (*panel.Bot, error)
	UpsertBot(ctx context.Context, b panel.Bot) (*panel.Bot, error)

	UsersByProject(ctx context.Context, projectID string) ([]panel.User, error)
	CreateUser(ctx context.Context, u *panel.User) error
	UpdateUser(ctx context.Context, id string, patch panel.UserPatch) (*panel.User, error)
	SetUserStatus(ctx context.Context, id, status string) (*panel.User, error)
	DeleteUser(ctx context.Context, id string) error

	DocumentsByProject(ctx context.Context, projectID string) ([]panel.Document, error)
	CreateDocument(ctx context.Context, d *panel.Document) error
	GetDocument(ctx context.Context, id string) (*panel.Document, error)
	DeleteDocument(ctx context.Context, id string) (*panel.Document, error)

	Models(ctx context.Context, search string) ([]panel.Model, error)
}

// NewID builds a collision-resistant id: unix-nano timestamp plus a short
// random suffix.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), uuid.NewString()[:8])
}

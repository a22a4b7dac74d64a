package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
)

// MemoryStore is the in-process store used in mock mode and unit tests.
// Collections live for the process lifetime; a restart resets everything.
type MemoryStore struct {
	mu        sync.RWMutex
	projects  []panel.Project
	bots      []panel.Bot
	users     map[string][]panel.User     // keyed by project id
	documents map[string][]panel.Document // keyed by project id
	models    []panel.Model
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string][]panel.User),
		documents: make(map[string][]panel.Document),
	}
}

// NewSeededMemoryStore returns a store pre-populated with the development
// fixtures the panel UI expects.
func NewSeededMemoryStore() *MemoryStore {
	s := NewMemoryStore()
	now := time.Now().UTC()
	firstLogin := now.Add(-48 * time.Hour)

	s.projects = []panel.Project{
		{ID: "p1", Name: "Support Bot", ModelID: "gpt-4o-mini"},
		{ID: "p2", Name: "Sales Assistant"},
	}
	s.bots = []panel.Bot{
		{
			ProjectID:   "p1",
			ProjectName: "Support Bot",
			Token:       "1000000001:AAFmockSupportToken",
			Username:    "support_helper_bot",
			URL:         "https://t.me/support_helper_bot",
			FirstName:   "Support Helper",
			Active:      true,
			UsersCount:  3,
			VerifiedAt:  now.Add(-72 * time.Hour),
		},
	}
	s.users["p1"] = []panel.User{
		{ID: "usr_seed_1", ProjectID: "p1", Phone: "+79990000001", Username: "alice", Status: panel.UserStatusActive, FirstLogin: &firstLogin, CreatedAt: now.Add(-96 * time.Hour)},
		{ID: "usr_seed_2", ProjectID: "p1", Phone: "+79990000002", Status: panel.UserStatusActive, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "usr_seed_3", ProjectID: "p1", Phone: "+79990000003", Username: "blocked_guy", Status: panel.UserStatusBlocked, CreatedAt: now.Add(-12 * time.Hour)},
	}
	s.documents["p1"] = []panel.Document{
		{ID: "doc_seed_1", ProjectID: "p1", Name: "faq.pdf", Size: 120_000, FileKey: "p1/faq.pdf", UploadedAt: now.Add(-80 * time.Hour)},
		{ID: "doc_seed_2", ProjectID: "p1", Name: "pricing.docx", Size: 48_000, FileKey: "p1/pricing.docx", UploadedAt: now.Add(-10 * time.Hour)},
	}
	s.documents["p2"] = []panel.Document{
		{ID: "doc_seed_3", ProjectID: "p2", Name: "catalog.pdf", Size: 940_000, FileKey: "p2/catalog.pdf", UploadedAt: now.Add(-5 * time.Hour)},
	}
	s.models = []panel.Model{
		{ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI"},
		{ID: "gpt-4o-mini", Name: "GPT-4o mini", Provider: "OpenAI"},
		{ID: "claude-3-5-sonnet", Name: "Claude 3.5 Sonnet", Provider: "Anthropic"},
		{ID: "llama-3-70b", Name: "Llama 3 70B", Provider: "Meta"},
	}
	return s
}

func (s *MemoryStore) Projects(ctx context.Context) ([]panel.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]panel.Project, len(s.projects))
	copy(out, s.projects)
	return out, nil
}

func (s *MemoryStore) ProjectName(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p.Name, nil
		}
	}
	return "", ErrNotFound
}

func (s *MemoryStore) AssignModel(ctx context.Context, projectID, modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			s.projects[i].ModelID = modelID
			return nil
		}
	}
	// unknown projects still get a record so the assignment is not lost
	s.projects = append(s.projects, panel.Project{ID: projectID, Name: "Unknown project", ModelID: modelID})
	return nil
}

func (s *MemoryStore) Bots(ctx context.Context) ([]panel.Bot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]panel.Bot, len(s.bots))
	copy(out, s.bots)
	return out, nil
}

func (s *MemoryStore) SetBotActive(ctx context.Context, projectID string, active bool) (*panel.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bots {
		if s.bots[i].ProjectID == projectID {
			s.bots[i].Active = active
			b := s.bots[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpsertBot(ctx context.Context, b panel.Bot) (*panel.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bots {
		if s.bots[i].ProjectID == b.ProjectID {
			b.UsersCount = s.bots[i].UsersCount
			s.bots[i] = b
			return &b, nil
		}
	}
	s.bots = append(s.bots, b)
	return &b, nil
}

func (s *MemoryStore) UsersByProject(ctx context.Context, projectID string) ([]panel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]panel.User, len(s.users[projectID]))
	copy(out, s.users[projectID])
	return out, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *panel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = NewID("usr")
	}
	if u.Status == "" {
		u.Status = panel.UserStatusActive
	}
	u.CreatedAt = time.Now().UTC()
	s.users[u.ProjectID] = append(s.users[u.ProjectID], *u)
	return nil
}

// findUser scans every project scope; acceptable at mock scale.
func (s *MemoryStore) findUser(id string) (string, int) {
	for pid, list := range s.users {
		for i := range list {
			if list[i].ID == id {
				return pid, i
			}
		}
	}
	return "", -1
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id string, patch panel.UserPatch) (*panel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, i := s.findUser(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := &s.users[pid][i]
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	out := *u
	return &out, nil
}

func (s *MemoryStore) SetUserStatus(ctx context.Context, id, status string) (*panel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, i := s.findUser(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s.users[pid][i].Status = status
	out := s.users[pid][i]
	return &out, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, i := s.findUser(id)
	if i < 0 {
		return ErrNotFound
	}
	s.users[pid] = append(s.users[pid][:i], s.users[pid][i+1:]...)
	return nil
}

func (s *MemoryStore) DocumentsByProject(ctx context.Context, projectID string) ([]panel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]panel.Document, len(s.documents[projectID]))
	copy(out, s.documents[projectID])
	return out, nil
}

func (s *MemoryStore) CreateDocument(ctx context.Context, d *panel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = NewID("doc")
	}
	d.UploadedAt = time.Now().UTC()
	s.documents[d.ProjectID] = append(s.documents[d.ProjectID], *d)
	return nil
}

func (s *MemoryStore) findDocument(id string) (string, int) {
	for pid, list := range s.documents {
		for i := range list {
			if list[i].ID == id {
				return pid, i
			}
		}
	}
	return "", -1
}

func (s *MemoryStore) GetDocument(ctx context.Context, id string) (*panel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, i := s.findDocument(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	d := s.documents[pid][i]
	return &d, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) (*panel.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, i := s.findDocument(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	d := s.documents[pid][i]
	s.documents[pid] = append(s.documents[pid][:i], s.documents[pid][i+1:]...)
	return &d, nil
}

func (s *MemoryStore) Models(ctx context.Context, search string) ([]panel.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]panel.Model, 0, len(s.models))
	for _, m := range s.models {
		if m.Matches(search) {
			out = append(out, m)
		}
	}
	return out, nil
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repositories that interpret the same specifications the GORM
// implementations translate to SQL. They back service tests without a
// database.

type fakeStore struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]*entity.ChatSession
	messages      []*entity.ChatMessage
	documents     []*entity.Document
	users         []*entity.User
	prefs         map[uuid.UUID]*entity.UserPreference
	modelSettings *entity.ModelSettings

	// messageCreateErr, when set, can fail selected message inserts.
	messageCreateErr func(*entity.ChatMessage) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[uuid.UUID]*entity.ChatSession),
		prefs:    make(map[uuid.UUID]*entity.UserPreference),
	}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}
func (u *fakeUow) DocumentRepository() contract.DocumentRepository {
	return &fakeDocumentRepo{store: u.store}
}
func (u *fakeUow) PreferenceRepository() contract.PreferenceRepository {
	return &fakePrefRepo{store: u.store}
}

// Spec interpretation shared by the fakes.

type messageQuery struct {
	id            *uuid.UUID
	userId        *uuid.UUID
	chatSessionId *uuid.UUID
	role          *string
	after         *time.Time
	orderDesc     bool
	hasOrder      bool
	limit         int
}

func parseSpecs(specs []specification.Specification) messageQuery {
	q := messageQuery{limit: -1}
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			id := spec.ID
			q.id = &id
		case specification.UserOwnedBy:
			id := spec.UserID
			q.userId = &id
		case specification.ByChatSessionID:
			id := spec.ChatSessionID
			q.chatSessionId = &id
		case specification.ByRole:
			role := spec.Role
			q.role = &role
		case specification.CreatedAfter:
			after := spec.After
			q.after = &after
		case specification.OrderBy:
			q.hasOrder = true
			q.orderDesc = spec.Desc
		case specification.Limit:
			q.limit = spec.Limit
		}
	}
	return q
}

func (q messageQuery) matchMessage(m *entity.ChatMessage) bool {
	if q.id != nil && m.Id != *q.id {
		return false
	}
	if q.userId != nil && m.UserId != *q.userId {
		return false
	}
	if q.chatSessionId != nil && m.ChatSessionId != *q.chatSessionId {
		return false
	}
	if q.role != nil && m.Role != *q.role {
		return false
	}
	if q.after != nil && !m.CreatedAt.After(*q.after) {
		return false
	}
	return true
}

// Session repository

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *session
	r.store.sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.sessions[session.Id]; ok {
		cp := *session
		cp.MessageCount = existing.MessageCount
		r.store.sessions[session.Id] = &cp
	}
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *fakeSessionRepo) IncrementMessageCount(ctx context.Context, id uuid.UUID, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if sess, ok := r.store.sessions[id]; ok {
		sess.MessageCount += delta
		if sess.MessageCount < 0 {
			sess.MessageCount = 0
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, specs...)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if q.id != nil && s.Id != *q.id {
			continue
		}
		if q.userId != nil && s.UserId != *q.userId {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.orderDesc {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sessions, _ := r.FindAll(ctx, specs...)
	return int64(len(sessions)), nil
}

// Message repository

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.messageCreateErr != nil {
		if err := r.store.messageCreateErr(message); err != nil {
			return err
		}
	}
	cp := *message
	r.store.messages = append(r.store.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, m := range r.store.messages {
		if m.Id == message.Id {
			cp := *message
			r.store.messages[i] = &cp
		}
	}
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.Id != id {
			out = append(out, m)
		}
	}
	r.store.messages = out
	return nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ChatSessionId != sessionId {
			out = append(out, m)
		}
	}
	r.store.messages = out
	return nil
}

func (r *fakeMessageRepo) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	out := r.store.messages[:0]
	for _, m := range r.store.messages {
		if q.matchMessage(m) {
			deleted++
			continue
		}
		out = append(out, m)
	}
	r.store.messages = out
	return deleted, nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	messages, err := r.FindAll(ctx, specs...)
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return messages[0], nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if q.matchMessage(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if q.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if q.limit >= 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, _ := r.FindAll(ctx, specs...)
	return int64(len(messages)), nil
}

// Document repository

type fakeDocumentRepo struct{ store *fakeStore }

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *document
	r.store.documents = append(r.store.documents, &cp)
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := r.store.documents[:0]
	for _, d := range r.store.documents {
		if d.Id != id {
			out = append(out, d)
		}
	}
	r.store.documents = out
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	documents, err := r.FindAll(ctx, specs...)
	if err != nil || len(documents) == 0 {
		return nil, err
	}
	return documents[0], nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Document
	for _, d := range r.store.documents {
		if q.id != nil && d.Id != *q.id {
			continue
		}
		if q.userId != nil && d.UserId != *q.userId {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	documents, _ := r.FindAll(ctx, specs...)
	return int64(len(documents)), nil
}

// User repository

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users = append(r.store.users, &cp)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, u := range r.store.users {
		if u.Id == user.Id {
			cp := *user
			r.store.users[i] = &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := r.store.users[:0]
	for _, u := range r.store.users {
		if u.Id != id {
			out = append(out, u)
		}
	}
	r.store.users = out
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var email *string
	q := parseSpecs(specs)
	for _, s := range specs {
		if spec, ok := s.(specification.ByEmail); ok {
			e := spec.Email
			email = &e
		}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if q.id != nil && u.Id != *q.id {
			continue
		}
		if email != nil && u.Email != *email {
			continue
		}
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

// Preference repository

type fakePrefRepo struct{ store *fakeStore }

func (r *fakePrefRepo) Upsert(ctx context.Context, preference *entity.UserPreference) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *preference
	r.store.prefs[preference.UserId] = &cp
	return nil
}

func (r *fakePrefRepo) Delete(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.prefs, userId)
	return nil
}

func (r *fakePrefRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserPreference, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if q.userId != nil {
		if pref, ok := r.store.prefs[*q.userId]; ok {
			cp := *pref
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePrefRepo) GetModelSettings(ctx context.Context) (*entity.ModelSettings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.modelSettings == nil {
		return nil, nil
	}
	cp := *r.store.modelSettings
	return &cp, nil
}

func (r *fakePrefRepo) SaveModelSettings(ctx context.Context, settings *entity.ModelSettings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *settings
	r.store.modelSettings = &cp
	return nil
}

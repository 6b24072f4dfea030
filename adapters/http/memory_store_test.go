package http

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
)

// memoryStore backs both repositories so the owner projection and the
// cascading delete behave like the SQL implementation.
type memoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*user.User
	profiles map[uuid.UUID]*profile.Profile
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[uuid.UUID]*user.User{},
		profiles: map[uuid.UUID]*profile.Profile{},
	}
}

type memoryUserRepo struct{ s *memoryStore }

type memoryProfileRepo struct{ s *memoryStore }

func (r memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperror.NewConflict("User", "email", u.Email)
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memoryUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("User not found", email)
}

func (r memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NewNotFound("User not found", id.String())
	}
	cp := *u
	return &cp, nil
}

func (r memoryUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperror.NewNotFound("User not found", id.String())
	}
	u.Avatar = avatar
	return nil
}

func (r memoryProfileRepo) snapshot(p *profile.Profile) *profile.Profile {
	cp := *p
	cp.Skills = append([]string{}, p.Skills...)
	cp.Experience = append([]profile.Experience{}, p.Experience...)
	cp.Education = append([]profile.Education{}, p.Education...)
	if u, ok := r.s.users[p.OwnerID]; ok {
		cp.Owner = profile.Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return &cp
}

func (r memoryProfileRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[ownerID]
	if !ok {
		return nil, apperror.NewNotFound("Profile not found", ownerID.String())
	}
	return r.snapshot(p), nil
}

func (r memoryProfileRepo) FindAll(ctx context.Context) ([]*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*profile.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.snapshot(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memoryProfileRepo) Upsert(ctx context.Context, ownerID uuid.UUID, patch profile.Patch) (*profile.Profile, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[ownerID]; !ok {
		return nil, false, apperror.NewNotFound("User not found", ownerID.String())
	}
	p, ok := r.s.profiles[ownerID]
	if !ok {
		p = profile.New(ownerID, patch)
		r.s.profiles[ownerID] = p
	} else {
		patch.Apply(p)
	}
	p.Version++
	return r.snapshot(p), !ok, nil
}

func (r memoryProfileRepo) Mutate(ctx context.Context, ownerID uuid.UUID, fn func(*profile.Profile) error) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[ownerID]
	if !ok {
		return nil, apperror.NewNotFound("Profile not found", ownerID.String())
	}
	work := r.snapshot(p)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.Version++
	r.s.profiles[ownerID] = work
	return r.snapshot(work), nil
}

func (r memoryProfileRepo) DeleteOwnerData(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, ownerID)
	_, existed := r.s.users[ownerID]
	delete(r.s.users, ownerID)
	return existed, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []user.AccountEvent
}

func (p *recordingPublisher) PublishAccountEvent(ctx context.Context, payload user.AccountEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

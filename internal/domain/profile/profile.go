package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Owner is the read-side projection of the account that owns a profile.
type Owner struct {
	ID     uuid.UUID
	Name   string
	Avatar string
}

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type Profile struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Owner          Owner
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         []string
	Social         Social
	Experience     []Experience
	Education      []Education
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New builds a fresh profile for ownerID seeded from patch.
func New(ownerID uuid.UUID, patch Patch) *Profile {
	now := time.Now().UTC()
	p := &Profile{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Owner:      Owner{ID: ownerID},
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	patch.Apply(p)
	return p
}

type Repository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	FindAll(ctx context.Context) ([]*Profile, error)
	// Upsert applies patch to the owner's profile, creating it when absent.
	// The boolean reports whether a new profile was created.
	Upsert(ctx context.Context, ownerID uuid.UUID, patch Patch) (*Profile, bool, error)
	// Mutate runs fn on the owner's profile under a row lock and persists
	// the result.
	Mutate(ctx context.Context, ownerID uuid.UUID, fn func(*Profile) error) (*Profile, error)
	// DeleteOwnerData removes the profile and the account in one unit.
	// It reports whether the account existed.
	DeleteOwnerData(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

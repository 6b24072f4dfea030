package profile

import (
	"time"

	"github.com/google/uuid"
)

func (p *Profile) AddExperience(e Experience) Experience {
	e.ID = freshID(p.Experience, func(x Experience) uuid.UUID { return x.ID })
	p.Experience = prepend(p.Experience, e)
	p.UpdatedAt = time.Now().UTC()
	return e
}

func (p *Profile) AddEducation(e Education) Education {
	e.ID = freshID(p.Education, func(x Education) uuid.UUID { return x.ID })
	p.Education = prepend(p.Education, e)
	p.UpdatedAt = time.Now().UTC()
	return e
}

// RemoveExperience drops the entry with the given id. It returns false and
// leaves the collection untouched when no entry matches.
func (p *Profile) RemoveExperience(id uuid.UUID) bool {
	var ok bool
	p.Experience, ok = removeByID(p.Experience, id, func(x Experience) uuid.UUID { return x.ID })
	if ok {
		p.UpdatedAt = time.Now().UTC()
	}
	return ok
}

func (p *Profile) RemoveEducation(id uuid.UUID) bool {
	var ok bool
	p.Education, ok = removeByID(p.Education, id, func(x Education) uuid.UUID { return x.ID })
	if ok {
		p.UpdatedAt = time.Now().UTC()
	}
	return ok
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func freshID[T any](items []T, idOf func(T) uuid.UUID) uuid.UUID {
	for {
		id := uuid.New()
		taken := false
		for _, it := range items {
			if idOf(it) == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func removeByID[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID) ([]T, bool) {
	for i, it := range items {
		if idOf(it) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

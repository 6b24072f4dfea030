package profile

import (
	"strings"
	"time"
)

// Patch is a sparse profile update. A nil field is absent and leaves the
// stored value alone; a non-nil field overwrites it, empty string included.
type Patch struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	Social         SocialPatch
}

type SocialPatch struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

func (p Patch) Apply(target *Profile) {
	setIf(&target.Company, p.Company)
	setIf(&target.Website, p.Website)
	setIf(&target.Location, p.Location)
	setIf(&target.Bio, p.Bio)
	setIf(&target.Status, p.Status)
	setIf(&target.GitHubUsername, p.GitHubUsername)
	if p.Skills != nil {
		target.Skills = append([]string(nil), p.Skills...)
	}

	setIf(&target.Social.YouTube, p.Social.YouTube)
	setIf(&target.Social.Twitter, p.Social.Twitter)
	setIf(&target.Social.Facebook, p.Social.Facebook)
	setIf(&target.Social.LinkedIn, p.Social.LinkedIn)
	setIf(&target.Social.Instagram, p.Social.Instagram)

	target.UpdatedAt = time.Now().UTC()
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ParseSkills splits a comma separated list and trims each token.
// Order and duplicates are kept, and so are empty tokens.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, s := range parts {
		parts[i] = strings.TrimSpace(s)
	}
	return parts
}

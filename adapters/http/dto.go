package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/dev-connector/internal/domain/profile"
	"github.com/khoahotran/dev-connector/internal/domain/user"
	"github.com/khoahotran/dev-connector/pkg/apperror"
)

const dateLayout = "2006-01-02"

// Date accepts "2006-01-02" and RFC 3339 timestamps. An empty string
// decodes like null and leaves the zero value.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func requireDate(d *Date, param string) error {
	if d == nil || d.IsZero() {
		return apperror.NewValidation(apperror.FieldError{Msg: fieldMessages[param], Param: param, Location: "body"})
	}
	return nil
}

func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// Auth DTOs

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenDTO struct {
	Token string `json:"token"`
}

type UserDTO struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:     u.ID.String(),
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Date:   u.CreatedAt,
	}
}

// Profile DTOs

// UpsertProfileRequest is sparse: fields missing from the body stay nil.
type UpsertProfileRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status" binding:"required,min=1"`
	GitHubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills" binding:"required,min=1"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

func (req *UpsertProfileRequest) ToPatch() profile.Patch {
	return profile.Patch{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GitHubUsername: req.GitHubUsername,
		Social: profile.SocialPatch{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	}
}

type ExperienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        *Date  `json:"from" binding:"required"`
	To          *Date  `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// validate covers what binding tags cannot: "from": "" yields a non-nil
// zero Date that passes required.
func (req *ExperienceRequest) validate() error {
	return requireDate(req.From, "from")
}

func (req *ExperienceRequest) ToDomain() profile.Experience {
	return profile.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From.Time,
		To:          req.To.ptr(),
		Current:     req.Current,
		Description: req.Description,
	}
}

type EducationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required"`
	From         *Date  `json:"from" binding:"required"`
	To           *Date  `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (req *EducationRequest) validate() error {
	return requireDate(req.From, "from")
}

func (req *EducationRequest) ToDomain() profile.Education {
	return profile.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From.Time,
		To:           req.To.ptr(),
		Current:      req.Current,
		Description:  req.Description,
	}
}

type OwnerDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type ProfileDTO struct {
	ID             uuid.UUID            `json:"id"`
	User           OwnerDTO             `json:"user"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Bio            string               `json:"bio,omitempty"`
	Status         string               `json:"status"`
	GitHubUsername string               `json:"githubusername,omitempty"`
	Skills         []string             `json:"skills"`
	Social         profile.Social       `json:"social"`
	Experience     []profile.Experience `json:"experience"`
	Education      []profile.Education  `json:"education"`
	Version        int64                `json:"version"`
	Date           time.Time            `json:"date"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID: p.ID,
		User: OwnerDTO{
			ID:     p.OwnerID,
			Name:   p.Owner.Name,
			Avatar: p.Owner.Avatar,
		},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         p.Skills,
		Social:         p.Social,
		Experience:     p.Experience,
		Education:      p.Education,
		Version:        p.Version,
		Date:           p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	if dto.Experience == nil {
		dto.Experience = []profile.Experience{}
	}
	if dto.Education == nil {
		dto.Education = []profile.Education{}
	}
	return dto
}

func ToProfileDTOs(ps []*profile.Profile) []ProfileDTO {
	out := make([]ProfileDTO, len(ps))
	for i, p := range ps {
		out[i] = ToProfileDTO(p)
	}
	return out
}

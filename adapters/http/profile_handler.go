package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profileUC "github.com/khoahotran/dev-connector/internal/application/usecase/profile"
	"github.com/khoahotran/dev-connector/pkg/apperror"
	"github.com/khoahotran/dev-connector/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	githubUseCase  *profileUC.GitHubReposUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, githubUC *profileUC.GitHubReposUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		githubUseCase:  githubUC,
		logger:         log,
	}
}

func ownerFromContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
	}
	return ownerID, ok
}

func parseIDParam(c *gin.Context, name, msg string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.Error(apperror.NewMalformedID(msg, raw))
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteGetMine(c.Request.Context(), profileUC.GetProfileInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	output, err := h.profileUseCase.ExecuteUpsert(c.Request.Context(), profileUC.UpsertProfileInput{
		OwnerID: ownerID,
		Patch:   req.ToPatch(),
		Skills:  req.Skills,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) List(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteList(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTOs(output.Profiles))
}

func (h *ProfileHandler) GetByOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "ownerId", "Invalid user id")
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteGetByOwner(c.Request.Context(), profileUC.GetProfileInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	if err := h.profileUseCase.ExecuteDeleteAccount(c.Request.Context(), profileUC.DeleteAccountInput{OwnerID: ownerID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteAddExperience(c.Request.Context(), profileUC.AddExperienceInput{
		OwnerID:    ownerID,
		Experience: req.ToDomain(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "entryId", "Invalid experience id")
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteRemoveExperience(c.Request.Context(), profileUC.RemoveEntryInput{
		OwnerID: ownerID,
		EntryID: entryID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	output, err := h.profileUseCase.ExecuteAddEducation(c.Request.Context(), profileUC.AddEducationInput{
		OwnerID:   ownerID,
		Education: req.ToDomain(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "entryId", "Invalid education id")
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteRemoveEducation(c.Request.Context(), profileUC.RemoveEntryInput{
		OwnerID: ownerID,
		EntryID: entryID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

// GitHubRepos relays the upstream body untouched.
func (h *ProfileHandler) GitHubRepos(c *gin.Context) {
	output, err := h.githubUseCase.Execute(c.Request.Context(), profileUC.GitHubReposInput{Username: c.Param("username")})
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", output.Repos)
}

package v1

import (
	"errors"
	"net/http"

	"netch-backend/internal/delivery/http/response"
	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type OnboardingSessionHandler struct {
	wizardUC domain.OnboardingWizardUsecase
	cfg      domain.OnboardingConfig
}

type positionRequest struct {
	Name     string                  `json:"name" binding:"required,max=100"`
	Category domain.PositionCategory `json:"category"`
	IsCustom bool                    `json:"isCustom"`
}

type hobbyRequest struct {
	Name     string               `json:"name" binding:"required,max=100"`
	Category domain.HobbyCategory `json:"category"`
	IsCustom bool                 `json:"isCustom"`
	Source   domain.HobbySource   `json:"source"`
}

type linkedInRequest struct {
	URL string `json:"url"`
}

func NewOnboardingSessionHandler(r *gin.RouterGroup, wizardUC domain.OnboardingWizardUsecase, cfg domain.OnboardingConfig) {
	handler := &OnboardingSessionHandler{wizardUC: wizardUC, cfg: cfg}

	session := r.Group("/onboarding/session")
	{
		session.GET("", handler.GetState)

		session.POST("/positions", handler.AddPosition)
		session.POST("/positions/toggle", handler.TogglePosition)
		session.DELETE("/positions/:id", handler.RemovePosition)

		session.PUT("/linkedin", handler.UpdateLinkedIn)
		session.PUT("/resume", handler.UpdateResume)
		session.DELETE("/resume", handler.RemoveResume)

		session.POST("/hobbies", handler.AddHobby)
		session.POST("/hobbies/toggle", handler.ToggleHobby)
		session.DELETE("/hobbies/:id", handler.RemoveHobby)

		session.POST("/next", handler.NextStep)
		session.POST("/previous", handler.PreviousStep)

		session.POST("/complete", handler.Complete)
		session.DELETE("/complete", handler.CancelCompletion)
		session.POST("/reset", handler.Reset)
	}
}

// respond renders the wizard state. Failures that come with a state (an
// invalid step, a failed submission) keep the state next to the errors.
func (h *OnboardingSessionHandler) respond(c *gin.Context, message string, state *domain.WizardState, err error) {
	if err != nil {
		var appErr *apperror.AppError
		if state != nil && errors.As(err, &appErr) {
			response.Fail(c, appErr.Code, appErr.Message, appErr.Errors, state)
			return
		}
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, state)
}

// GetState godoc
// @Summary      Get wizard state
// @Description  Current step, selections, progress, validation and hobby suggestions. Restored from the mirror on first use.
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      401  {object}  response.Response
// @Router       /onboarding/session [get]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) GetState(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.GetState(c.Request.Context(), userID)
	h.respond(c, "Onboarding session retrieved", state, err)
}

// ============================================================================
// Positions
// ============================================================================

// AddPosition godoc
// @Summary      Add a position
// @Description  No-op when the position is already selected or the limit is reached
// @Tags         onboarding-session
// @Accept       json
// @Produce      json
// @Param        request  body      positionRequest  true  "Position"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Failure      400      {object}  response.Response
// @Router       /onboarding/session/positions [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) AddPosition(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	state, err := h.wizardUC.AddPosition(c.Request.Context(), userID, req.Name, req.Category, req.IsCustom)
	h.respond(c, "Position updated", state, err)
}

// TogglePosition godoc
// @Summary      Toggle a position
// @Tags         onboarding-session
// @Accept       json
// @Produce      json
// @Param        request  body      positionRequest  true  "Position"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/positions/toggle [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) TogglePosition(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	state, err := h.wizardUC.TogglePosition(c.Request.Context(), userID, req.Name, req.Category)
	h.respond(c, "Position updated", state, err)
}

// RemovePosition godoc
// @Summary      Remove a position
// @Tags         onboarding-session
// @Produce      json
// @Param        id   path      string  true  "Position ID"
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/positions/{id} [delete]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) RemovePosition(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.RemovePosition(c.Request.Context(), userID, c.Param("id"))
	h.respond(c, "Position removed", state, err)
}

// ============================================================================
// Profile
// ============================================================================

// UpdateLinkedIn godoc
// @Summary      Set the LinkedIn URL
// @Description  Validity and username are derived from the URL
// @Tags         onboarding-session
// @Accept       json
// @Produce      json
// @Param        request  body      linkedInRequest  true  "LinkedIn URL"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/linkedin [put]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) UpdateLinkedIn(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req linkedInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	state, err := h.wizardUC.UpdateLinkedIn(c.Request.Context(), userID, req.URL)
	h.respond(c, "LinkedIn profile updated", state, err)
}

// UpdateResume godoc
// @Summary      Attach a resume
// @Description  The file is validated and kept in memory until completion. Invalid files are kept with their error so the step can explain itself.
// @Tags         onboarding-session
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume        formData  file    true   "Resume file"
// @Param        lastModified  formData  integer false  "File modification time (ms since epoch)"
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      400  {object}  response.Response
// @Router       /onboarding/session/resume [put]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) UpdateResume(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	file, err := readResumeUpload(c, h.cfg.MaxResumeSize)
	if err != nil {
		c.Error(err)
		return
	}

	state, err := h.wizardUC.UpdateResume(c.Request.Context(), userID, file)
	h.respond(c, "Resume updated", state, err)
}

// RemoveResume godoc
// @Summary      Remove the resume
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/resume [delete]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) RemoveResume(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.RemoveResume(c.Request.Context(), userID)
	h.respond(c, "Resume removed", state, err)
}

// ============================================================================
// Hobbies
// ============================================================================

// AddHobby godoc
// @Summary      Add a hobby
// @Tags         onboarding-session
// @Accept       json
// @Produce      json
// @Param        request  body      hobbyRequest  true  "Hobby"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/hobbies [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) AddHobby(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req hobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if !req.Source.IsValid() {
		c.Error(apperror.BadRequest("Invalid hobby source"))
		return
	}

	state, err := h.wizardUC.AddHobby(c.Request.Context(), userID, req.Name, req.Category, req.IsCustom, req.Source)
	h.respond(c, "Hobby updated", state, err)
}

// ToggleHobby godoc
// @Summary      Toggle a hobby
// @Tags         onboarding-session
// @Accept       json
// @Produce      json
// @Param        request  body      hobbyRequest  true  "Hobby"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/hobbies/toggle [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) ToggleHobby(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req hobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if !req.Source.IsValid() {
		c.Error(apperror.BadRequest("Invalid hobby source"))
		return
	}

	state, err := h.wizardUC.ToggleHobby(c.Request.Context(), userID, req.Name, req.Category, req.Source)
	h.respond(c, "Hobby updated", state, err)
}

// RemoveHobby godoc
// @Summary      Remove a hobby
// @Tags         onboarding-session
// @Produce      json
// @Param        id   path      string  true  "Hobby ID"
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/hobbies/{id} [delete]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) RemoveHobby(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.RemoveHobby(c.Request.Context(), userID, c.Param("id"))
	h.respond(c, "Hobby removed", state, err)
}

// ============================================================================
// Navigation & Completion
// ============================================================================

// NextStep godoc
// @Summary      Go to the next step
// @Description  Advances only when the current step is valid
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      422  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/next [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) NextStep(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.NextStep(c.Request.Context(), userID)
	h.respond(c, "Moved to next step", state, err)
}

// PreviousStep godoc
// @Summary      Go to the previous step
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/previous [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) PreviousStep(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.PreviousStep(c.Request.Context(), userID)
	h.respond(c, "Moved to previous step", state, err)
}

// Complete godoc
// @Summary      Complete onboarding
// @Description  Validates all steps, uploads the resume and submits. Blocks until the submission finishes.
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Failure      422  {object}  response.Response{data=domain.WizardState}
// @Failure      502  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/complete [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) Complete(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.Complete(c.Request.Context(), userID)
	h.respond(c, "Onboarding completed successfully", state, err)
}

// CancelCompletion godoc
// @Summary      Cancel an in-flight submission
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/complete [delete]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) CancelCompletion(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.CancelCompletion(c.Request.Context(), userID)
	h.respond(c, "Submission cancelled", state, err)
}

// Reset godoc
// @Summary      Start over
// @Description  Discards the session and its stored copy
// @Tags         onboarding-session
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.WizardState}
// @Router       /onboarding/session/reset [post]
// @Security     BearerAuth
func (h *OnboardingSessionHandler) Reset(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	state, err := h.wizardUC.Reset(c.Request.Context(), userID)
	h.respond(c, "Onboarding reset", state, err)
}

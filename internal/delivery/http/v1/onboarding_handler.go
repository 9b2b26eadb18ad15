package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"netch-backend/internal/delivery/http/response"
	"netch-backend/internal/domain"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
	cfg          domain.OnboardingConfig
}

func NewOnboardingHandler(r *gin.RouterGroup, onboardingUC domain.OnboardingUsecase, cfg domain.OnboardingConfig) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC, cfg: cfg}

	r.POST("/upload/resume", handler.UploadResume)

	onboarding := r.Group("/onboarding")
	{
		onboarding.GET("/status", handler.GetStatus)
		onboarding.GET("/options", handler.GetOptions)
		onboarding.POST("/submit", handler.Submit)
	}
}

// UploadResume godoc
// @Summary      Upload resume
// @Description  Store a PDF, DOC or DOCX resume and return its URL
// @Tags         onboarding
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume  formData  file  true  "Resume file (max 5MB)"
// @Success      200  {object}  response.Response{data=domain.ResumeUploadResult}
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /upload/resume [post]
// @Security     BearerAuth
func (h *OnboardingHandler) UploadResume(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	file, err := readResumeUpload(c, h.cfg.MaxResumeSize)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.onboardingUC.UploadResume(c.Request.Context(), userID, c.ClientIP(), file)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume uploaded successfully", result)
}

// GetStatus godoc
// @Summary      Get onboarding status
// @Description  Check if the current user has completed the onboarding wizard
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.OnboardingStatus}
// @Failure      401  {object}  response.Response
// @Router       /onboarding/status [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetStatus(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	status, err := h.onboardingUC.GetOnboardingStatus(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding status retrieved", status)
}

// GetOptions godoc
// @Summary      Get wizard catalogs
// @Description  Positions, hobbies, category labels, steps and limits for the wizard pickers
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.OnboardingOptions}
// @Router       /onboarding/options [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetOptions(c *gin.Context) {
	response.Success(c, http.StatusOK, "Onboarding options retrieved", domain.NewOnboardingOptions(h.cfg))
}

// Submit godoc
// @Summary      Submit onboarding
// @Description  Validate and store the finished wizard. The body userId must be the caller.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body      domain.OnboardingSubmission  true  "Onboarding data"
// @Success      200      {object}  response.Response{data=domain.OnboardingSubmission}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /onboarding/submit [post]
// @Security     BearerAuth
func (h *OnboardingHandler) Submit(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req domain.OnboardingSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	resp, err := h.onboardingUC.SubmitOnboarding(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, resp.Message, resp.Data)
}

// readResumeUpload reads the multipart "resume" field. The declared type is
// kept; when the client sent none, it is sniffed from the content.
func readResumeUpload(c *gin.Context, maxSize int64) (*domain.FileHandle, error) {
	// Leave room for the multipart envelope; the exact size check happens later
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1<<20)

	header, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apperror.New(http.StatusRequestEntityTooLarge, "File size must be less than "+strconv.FormatInt(maxSize>>20, 10)+"MB", err)
		}
		return nil, apperror.BadRequest("Please upload your resume")
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperror.BadRequest("Please upload your resume")
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, apperror.BadRequest("Failed to read uploaded file")
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = security.DetectMIME(content)
	}

	lastModified, _ := strconv.ParseInt(c.PostForm("lastModified"), 10, 64)

	return &domain.FileHandle{
		Name:         header.Filename,
		Size:         header.Size,
		Type:         mimeType,
		LastModified: lastModified,
		Content:      content,
	}, nil
}

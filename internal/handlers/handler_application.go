package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/middleware"
	"github.com/ridgelinefuels/fuel_credit_app/internal/platform/config"
)

// maxSubmissionBytes caps the multipart body of a submission (32 MiB).
const maxSubmissionBytes = 32 << 20

// singleFileKinds are the uploaded document parts accepted once per
// submission. otherDoc parts are numbered otherDoc1..N.
var singleFileKinds = []string{"w9", "taxExemptionCert", "coi"}

// applicationHandler handles credit application intake and review requests.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
	publicBaseURL      string
}

// newApplicationHandler creates a new applicationHandler.
func newApplicationHandler(as portssvc.ApplicationSvcFacade, publicBaseURL string) *applicationHandler {
	return &applicationHandler{
		applicationService: as,
		publicBaseURL:      strings.TrimRight(publicBaseURL, "/"),
	}
}

// RegisterApplicationIntakeRoutes registers the public submission routes.
// The confirmation document is public so the link returned to the applicant
// works for its audience; the application ID is an unguessable UUID.
func RegisterApplicationIntakeRoutes(rg *gin.RouterGroup, as portssvc.ApplicationSvcFacade, cfg *config.Config) {
	h := newApplicationHandler(as, cfg.PublicBaseURL)
	rg.POST("/credit-applications", h.submitApplication)
	rg.GET("/credit-applications/:id/document", h.downloadDocument)
}

// RegisterApplicationAdminRoutes registers the operator review routes.
func RegisterApplicationAdminRoutes(rg *gin.RouterGroup, as portssvc.ApplicationSvcFacade, cfg *config.Config) {
	h := newApplicationHandler(as, cfg.PublicBaseURL)

	apps := rg.Group("/applications")
	{
		apps.GET("", h.listApplications)
		apps.GET("/:id", h.getApplication)
		apps.PATCH("/:id", h.updateApplication)
		apps.GET("/:id/document", h.downloadDocument)
		apps.GET("/:id/attachments/:attachmentID", h.downloadAttachment)
	}
}

// documentURL builds the externally reachable URL of an application's
// confirmation document, on the public intake surface so the applicant can
// open it without operator credentials.
func (h *applicationHandler) documentURL(applicationID string) string {
	return fmt.Sprintf("%s/api/v1/credit-applications/%s/document", h.publicBaseURL, applicationID)
}

// collectFiles extracts the uploaded document parts from the multipart form.
// otherDoc parts are accepted in numbered order regardless of how the client
// named the gaps.
func collectFiles(form *multipart.Form) ([]portssvc.SubmittedFile, []io.Closer, error) {
	var files []portssvc.SubmittedFile
	var closers []io.Closer

	open := func(kind string, fh *multipart.FileHeader) error {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("failed to open uploaded part %s: %w", kind, err)
		}
		closers = append(closers, f)
		files = append(files, portssvc.SubmittedFile{
			Kind:        kind,
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
		return nil
	}

	for _, kind := range singleFileKinds {
		if fhs := form.File[kind]; len(fhs) > 0 {
			if err := open(kind, fhs[0]); err != nil {
				return files, closers, err
			}
		}
	}

	var otherKinds []string
	for name := range form.File {
		if strings.HasPrefix(name, "otherDoc") {
			otherKinds = append(otherKinds, name)
		}
	}
	// Order by numeric suffix so otherDoc2 sorts before otherDoc10.
	sort.Slice(otherKinds, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(otherKinds[i], "otherDoc"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(otherKinds[j], "otherDoc"))
		if ni != nj {
			return ni < nj
		}
		return otherKinds[i] < otherKinds[j]
	})
	for _, kind := range otherKinds {
		if err := open(kind, form.File[kind][0]); err != nil {
			return files, closers, err
		}
	}

	return files, closers, nil
}

// submitApplication godoc
// @Summary Submit a credit application
// @Description Accepts a multipart form with an "application" JSON part and optional document parts (w9, taxExemptionCert, coi, otherDoc{N}). The whole payload is validated; any failure rejects the submission with the full field error list and nothing is stored.
// @Tags applications
// @Accept  multipart/form-data
// @Produce json
// @Param   application formData string true "Application payload as JSON"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} dto.FieldErrorResponse "Validation failure with field list"
// @Failure 413 {object} ErrorResponse "Payload too large"
// @Failure 500 {object} ErrorResponse
// @Router /credit-applications [post]
func (h *applicationHandler) submitApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Submission exceeds the size limit"})
			return
		}
		logger.Warn("Failed to parse multipart form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	payloads := form.Value["application"]
	if len(payloads) == 0 {
		c.JSON(http.StatusBadRequest, dto.FieldErrorResponse{
			Error:  "validation failed",
			Fields: []dto.FieldErrorPayload{{Field: "application", Reason: "required"}},
		})
		return
	}

	var req dto.CreditApplicationRequest
	if err := json.Unmarshal([]byte(payloads[0]), &req); err != nil {
		logger.Warn("Malformed application JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.FieldErrorResponse{
			Error:  "validation failed",
			Fields: []dto.FieldErrorPayload{{Field: "application", Reason: "malformed JSON"}},
		})
		return
	}

	files, closers, err := collectFiles(form)
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()
	if err != nil {
		logger.Error("Failed to read uploaded files", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded files"})
		return
	}

	app, err := h.applicationService.SubmitApplication(c.Request.Context(), req, files, c.ClientIP())
	if err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			fields := make([]dto.FieldErrorPayload, len(vErr.Fields))
			for i, f := range vErr.Fields {
				fields[i] = dto.FieldErrorPayload{Field: f.Field, Reason: f.Reason}
			}
			c.JSON(http.StatusBadRequest, dto.FieldErrorResponse{Error: "validation failed", Fields: fields})
			return
		}
		logger.Error("Failed to process submission", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process submission"})
		return
	}

	c.JSON(http.StatusCreated, dto.SubmissionResponse{
		SubmissionID: app.ApplicationID,
		PDFURL:       h.documentURL(app.ApplicationID),
	})
}

// listApplications godoc
// @Summary List credit applications
// @Description Retrieves a paginated list of applications, optionally filtered by status.
// @Tags admin
// @Produce json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Param   status query string false "Filter by status" Enums(New, Under Review, Approved, Declined)
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *applicationHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListApplicationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	apps, err := h.applicationService.ListApplications(c.Request.Context(), params.Status, params.Limit, params.Offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list applications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list applications"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListApplicationsResponse(apps))
}

// getApplication godoc
// @Summary Get a credit application
// @Description Retrieves a single application with its attachments.
// @Tags admin
// @Produce json
// @Param   id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/applications/{id} [get]
func (h *applicationHandler) getApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	app, err := h.applicationService.GetApplicationByID(c.Request.Context(), applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Application not found"})
			return
		}
		logger.Error("Failed to get application", slog.String("error", err.Error()), slog.String("application_id", applicationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve application"})
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// updateApplication godoc
// @Summary Update application review state
// @Description Applies an operator's status change and/or internal notes. Status changes must follow New -> Under Review -> Approved/Declined.
// @Tags admin
// @Accept  json
// @Produce json
// @Param   id path string true "Application ID"
// @Param   update body dto.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse "Invalid transition or body"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/applications/{id} [patch]
func (h *applicationHandler) updateApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	reviewerID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.Status == nil && req.InternalNotes == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Nothing to update"})
		return
	}

	app, err := h.applicationService.ReviewApplication(c.Request.Context(), applicationID, req, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Application not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update application", slog.String("error", err.Error()), slog.String("application_id", applicationID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update application"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// downloadDocument godoc
// @Summary Download the confirmation document
// @Description Streams the generated confirmation document for a submission. Served on the public intake surface (the link returned on submission) and mirrored under the admin surface for operators.
// @Tags applications
// @Produce html
// @Param   id path string true "Application ID"
// @Success 200 {string} string "Document content"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /credit-applications/{id}/document [get]
func (h *applicationHandler) downloadDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")

	rc, err := h.applicationService.OpenDocument(c.Request.Context(), applicationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Document not found"})
			return
		}
		logger.Error("Failed to open document", slog.String("error", err.Error()), slog.String("application_id", applicationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve document"})
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Error("Failed to stream document", slog.String("error", err.Error()), slog.String("application_id", applicationID))
	}
}

// downloadAttachment godoc
// @Summary Download an application attachment
// @Description Streams an uploaded attachment (w9, tax exemption certificate, certificate of insurance, or other document).
// @Tags admin
// @Produce octet-stream
// @Param   id path string true "Application ID"
// @Param   attachmentID path string true "Attachment ID"
// @Success 200 {string} string "File content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/applications/{id}/attachments/{attachmentID} [get]
func (h *applicationHandler) downloadAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	applicationID := c.Param("id")
	attachmentID := c.Param("attachmentID")

	att, rc, err := h.applicationService.OpenAttachment(c.Request.Context(), applicationID, attachmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Attachment not found"})
			return
		}
		logger.Error("Failed to open attachment", slog.String("error", err.Error()), slog.String("attachment_id", attachmentID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve attachment"})
		return
	}
	defer rc.Close()

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.FileName))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Error("Failed to stream attachment", slog.String("error", err.Error()), slog.String("attachment_id", attachmentID))
	}
}

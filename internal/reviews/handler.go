package reviews

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"archreview-backend/internal/imageprep"
	"archreview-backend/internal/llm"
	"archreview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches review routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.createReview)
	rg.GET("/reviews/:id/export/:format", h.getExport)
}

type createReviewRequest struct {
	Image string `json:"image"`
}

func (h *Handler) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Image = strings.TrimSpace(req.Image)
	if req.Image == "" {
		respond.Error(c, http.StatusBadRequest, "missing_image", "Image data is required", nil)
		return
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_image", "image must be base64 encoded", nil)
		return
	}

	res, err := h.Svc.Analyze(c.Request.Context(), imageBytes)
	if err != nil {
		h.respondAnalyzeError(c, err)
		return
	}

	c.Set("reviewId", res.ReviewID)
	respond.OK(c, gin.H{
		"reviewId":          res.ReviewID,
		"analysis":          res.Analysis,
		"assessment":        res.Assessment,
		"highPriorityItems": res.Assessment.HighPriorityItems(),
		"exports":           res.Exports,
	})
}

func (h *Handler) respondAnalyzeError(c *gin.Context, err error) {
	var verr *imageprep.ValidationError
	if errors.As(err, &verr) {
		respond.Error(c, http.StatusBadRequest, verr.Code, verr.Message, nil)
		return
	}

	var uerr *llm.UpstreamError
	if errors.As(err, &uerr) {
		status := http.StatusBadGateway
		if uerr.Code == llm.ErrCodeTimeout {
			status = http.StatusGatewayTimeout
		}
		details := map[string]any{"code": uerr.Code}
		if uerr.StatusCode != 0 {
			details["statusCode"] = uerr.StatusCode
		}
		respond.Error(c, status, "upstream_error", "model invocation failed", details)
		return
	}

	var perr *ParseFailure
	if errors.As(err, &perr) {
		respond.Error(c, http.StatusUnprocessableEntity, "unparseable_analysis",
			"model response did not contain a recognizable assessment table",
			map[string]any{"analysis": perr.RawAnalysis})
		return
	}

	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze diagram", nil)
}

func (h *Handler) getExport(c *gin.Context) {
	reviewID := c.Param("id")
	if _, err := uuid.Parse(reviewID); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid review id", nil)
		return
	}

	format := strings.ToLower(c.Param("format"))
	if !ValidFormat(format) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be json or txt", nil)
		return
	}

	if h.Svc.Store == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		return
	}

	rc, err := h.Svc.Store.Open(c.Request.Context(), ExportKey(reviewID, format))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read export", nil)
		return
	}

	c.Set("reviewId", reviewID)
	c.Data(http.StatusOK, ContentTypeFor(format), data)
}

package library

import (
	"media-offload/core/logger"
	"media-offload/core/offload"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the library feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/library")
	group.Get("/status", h.HandleStatus)
	group.Get("/report", h.HandleReport)
}

// OrphanObject is one orphan key with its public URL, for display.
type OrphanObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ReportResponse is the JSON shape of a dry-run reconciliation report.
type ReportResponse struct {
	Counters         map[string]int `json:"counters"`
	TotalAttachments int64          `json:"total_attachments"`
	OrphansTotal     int            `json:"orphans_total"`
	Orphans          []OrphanObject `json:"orphans"`
	OrphansTruncated bool           `json:"orphans_truncated"`
}

// HandleStatus reports collaborator health and inventory size.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.GetStatus(c.Context()))
}

// HandleReport runs a read-only reconciliation walk and returns the
// counters and orphan keys. Always dry-run: the admin surface never
// mutates; repairs go through the CLI.
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Verify(c.Context(), offload.Options{DryRun: true})
	if err != nil {
		l.Error("Library report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp := ReportResponse{
		Counters:         report.Counters.Snapshot(),
		TotalAttachments: report.TotalAttachments,
		OrphansTotal:     len(report.Orphans),
		Orphans:          []OrphanObject{},
	}

	limit := h.service.OrphanDisplayLimit()
	for i, key := range report.Orphans {
		if i >= limit {
			resp.OrphansTruncated = true
			break
		}
		resp.Orphans = append(resp.Orphans, OrphanObject{
			Key: key,
			URL: h.service.ObjectURL(key),
		})
	}

	return c.JSON(resp)
}

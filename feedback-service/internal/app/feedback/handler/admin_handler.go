package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/util"
	"feedbackhub/pkg/logger"
	"feedbackhub/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// AdminHandler обслуживает админ-панель: выгрузка CSV и статистика
// Маршруты защищены RequireAdmin в router
type AdminHandler struct {
	feedbackService FeedbackServiceInterface
}

func NewAdminHandler(feedbackService FeedbackServiceInterface) *AdminHandler {
	return &AdminHandler{
		feedbackService: feedbackService,
	}
}

// ExportCSV обрабатывает GET /admin/export.csv
// Одно полное чтение всех отзывов с тредами, без пагинации
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	items, err := h.feedbackService.ExportAll(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load export dataset")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to export data. Please try again."})
		return
	}

	var buf bytes.Buffer
	if err := util.WriteExportCSV(&buf, items); err != nil {
		logger.Error().Err(err).Msg("Failed to serialize export")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to export data. Please try again."})
		return
	}

	metrics.ExportsGenerated.Inc()

	filename := fmt.Sprintf("feedback_export_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Stats обрабатывает GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.feedbackService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

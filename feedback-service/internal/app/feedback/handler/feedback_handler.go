package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/service"

	"github.com/gin-gonic/gin"
)

// FeedbackServiceInterface - контракт сервиса для handlers
type FeedbackServiceInterface interface {
	CreateFeedback(ctx context.Context, ident entity.Identity, req *entity.CreateFeedbackRequest) (*entity.Feedback, error)
	ListFeedbacks(ctx context.Context, limit int, after time.Time) ([]entity.Feedback, bool, error)
	GetFeedback(ctx context.Context, feedbackID string) (*entity.Feedback, error)
	DeleteFeedback(ctx context.Context, feedbackID string, requesterID string) error
	LikeFeedback(ctx context.Context, feedbackID string) error
	AddComment(ctx context.Context, feedbackID string, ident entity.Identity, req *entity.CreateCommentRequest) (*entity.Comment, error)
	ListComments(ctx context.Context, feedbackID string) ([]entity.Comment, error)
	ExportAll(ctx context.Context) ([]entity.FeedbackWithComments, error)
	Stats(ctx context.Context) (*entity.FeedbackStats, error)
}

type FeedbackHandler struct {
	feedbackService FeedbackServiceInterface
}

func NewFeedbackHandler(feedbackService FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// CreateFeedback обрабатывает POST /feedbacks
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req entity.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(c.Request.Context(), ident, &req)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation Error", Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to submit feedback. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// ListFeedbacks обрабатывает GET /feedbacks?limit=&after=
// after - курсор: created_at последнего видимого отзыва в RFC3339Nano
func (h *FeedbackHandler) ListFeedbacks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	var after time.Time
	if cursor := c.Query("after"); cursor != "" {
		parsed, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid cursor"})
			return
		}
		after = parsed
	}

	feedbacks, hasMore, err := h.feedbackService.ListFeedbacks(c.Request.Context(), limit, after)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to load feedbacks"})
		return
	}

	response := entity.FeedbackListResponse{
		Feedbacks: feedbacks,
		Total:     len(feedbacks),
		HasMore:   hasMore,
	}
	if hasMore && len(feedbacks) > 0 {
		response.NextCursor = feedbacks[len(feedbacks)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	c.JSON(http.StatusOK, response)
}

// GetFeedback обрабатывает GET /feedbacks/:feedback_id
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	feedbackID := c.Param("feedback_id")

	feedback, err := h.feedbackService.GetFeedback(c.Request.Context(), feedbackID)
	if err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not Found", Message: "Feedback not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to load feedback"})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// DeleteFeedback обрабатывает DELETE /feedbacks/:feedback_id
// Удалять может только автор отзыва
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	feedbackID := c.Param("feedback_id")

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), feedbackID, ident.ID); err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not Found", Message: "Feedback not found"})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Forbidden", Message: "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to delete feedback"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Feedback deleted successfully"})
}

// LikeFeedback обрабатывает POST /feedbacks/:feedback_id/like
func (h *FeedbackHandler) LikeFeedback(c *gin.Context) {
	feedbackID := c.Param("feedback_id")

	if err := h.feedbackService.LikeFeedback(c.Request.Context(), feedbackID); err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not Found", Message: "Feedback not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to like feedback"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Feedback liked"})
}

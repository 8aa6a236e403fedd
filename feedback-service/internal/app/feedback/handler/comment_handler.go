package handler

import (
	"errors"
	"net/http"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	feedbackService FeedbackServiceInterface
}

func NewCommentHandler(feedbackService FeedbackServiceInterface) *CommentHandler {
	return &CommentHandler{
		feedbackService: feedbackService,
	}
}

// AddComment обрабатывает POST /feedbacks/:feedback_id/comments
func (h *CommentHandler) AddComment(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthorized"})
		return
	}

	feedbackID := c.Param("feedback_id")

	var req entity.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	comment, err := h.feedbackService.AddComment(c.Request.Context(), feedbackID, ident, &req)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation Error", Message: err.Error()})
			return
		}
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not Found", Message: "Feedback not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to add comment. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments обрабатывает GET /feedbacks/:feedback_id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	feedbackID := c.Param("feedback_id")

	comments, err := h.feedbackService.ListComments(c.Request.Context(), feedbackID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, entity.CommentListResponse{
		Comments: comments,
		Total:    len(comments),
	})
}

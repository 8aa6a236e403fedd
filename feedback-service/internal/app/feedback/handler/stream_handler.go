package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/service"
	"feedbackhub/feedback-service/internal/app/feedback/stream"

	"github.com/gin-gonic/gin"
)

// StreamHandler отдаёт live-подписки по Server-Sent Events
// Каждое событие несёт полный упорядоченный снапшот, не дифф
type StreamHandler struct {
	feedbackService FeedbackServiceInterface
	hub             *stream.Hub
}

func NewStreamHandler(feedbackService FeedbackServiceInterface, hub *stream.Hub) *StreamHandler {
	return &StreamHandler{
		feedbackService: feedbackService,
		hub:             hub,
	}
}

// StreamFeed обрабатывает GET /feedbacks/stream
// Первый снапшот уходит сразу после подключения
func (h *StreamHandler) StreamFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	fetch := func(ctx context.Context) (interface{}, error) {
		feedbacks, _, err := h.feedbackService.ListFeedbacks(ctx, limit, time.Time{})
		if err != nil {
			return nil, err
		}
		return feedbacks, nil
	}

	h.serve(c, stream.TopicFeed, fetch, []entity.Feedback{})
}

// StreamComments обрабатывает GET /feedbacks/:feedback_id/comments/stream
func (h *StreamHandler) StreamComments(c *gin.Context) {
	feedbackID := c.Param("feedback_id")

	fetch := func(ctx context.Context) (interface{}, error) {
		comments, err := h.feedbackService.ListComments(ctx, feedbackID)
		if err != nil {
			return nil, err
		}
		return comments, nil
	}

	h.serve(c, stream.TopicComments(feedbackID), fetch, []entity.Comment{})
}

// serve держит SSE соединение, пока клиент не отключится
// Закрытие соединения отменяет подписку; отмена идемпотентна
func (h *StreamHandler) serve(c *gin.Context, topic string, fetch stream.FetchFunc, empty interface{}) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal Server Error", Message: "Streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	sub := h.hub.Subscribe(topic)
	defer sub.Cancel()

	// Открываем поток комментарием, чтобы клиент увидел соединение
	_, _ = c.Writer.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	sub.Stream(c.Request.Context(), fetch, empty, func(event stream.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		_, _ = c.Writer.Write([]byte("data: "))
		_, _ = c.Writer.Write(payload)
		_, _ = c.Writer.Write([]byte("\n\n"))
		flusher.Flush()
	})
}

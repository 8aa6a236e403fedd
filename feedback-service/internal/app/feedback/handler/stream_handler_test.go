package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/service"
	"feedbackhub/feedback-service/internal/app/feedback/stream"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupStreamRouter(svc FeedbackServiceInterface, hub *stream.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)

	streamHandler := NewStreamHandler(svc, hub)

	router := gin.New()
	router.GET("/feedbacks/stream", streamHandler.StreamFeed)
	router.GET("/feedbacks/:feedback_id/comments/stream", streamHandler.StreamComments)
	return router
}

func TestStreamFeed_FirstSnapshot(t *testing.T) {
	mockService := new(MockFeedbackService)
	hub := stream.NewHub()
	router := setupStreamRouter(mockService, hub)

	feedbacks := []entity.Feedback{{Rating: 5, Comment: "great"}}
	mockService.On("ListFeedbacks", mock.Anything, service.DefaultPageSize, time.Time{}).Return(feedbacks, false, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(300*time.Millisecond, cancel)

	req := httptest.NewRequest("GET", "/feedbacks/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, ": stream started")
	// Первый снапшот доставлен без единой мутации
	assert.Contains(t, body, `data: {"items":[`)
	assert.Contains(t, body, `"comment":"great"`)
}

func TestStreamComments_FetchErrorKeepsStreamAlive(t *testing.T) {
	mockService := new(MockFeedbackService)
	hub := stream.NewHub()
	router := setupStreamRouter(mockService, hub)

	mockService.On("ListComments", mock.Anything, "fb-1").Return(nil, assert.AnError)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(300*time.Millisecond, cancel)

	req := httptest.NewRequest("GET", "/feedbacks/fb-1/comments/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Ошибка чтения деградирует в пустой снапшот с side-channel полем
	body := w.Body.String()
	assert.Contains(t, body, `"items":[]`)
	assert.Contains(t, body, `"error":"failed to load data"`)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/entity"
	"feedbackhub/background-worker-service/internal/app/background-worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProcessEvent_FeedbackCreated(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	svc := NewEventProcessingService(archiveRepo)

	eventTime := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	event := &entity.FeedbackEvent{
		EventType:  entity.EventTypeFeedbackCreated,
		FeedbackID: "fb-1",
		ActorID:    "user-1",
		Rating:     5,
		Timestamp:  eventTime,
	}

	archiveRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *entity.ArchivedEvent) bool {
		return a.EventType == entity.EventTypeFeedbackCreated &&
			a.FeedbackID == "fb-1" &&
			a.ActorID == "user-1" &&
			a.Rating == 5 &&
			a.EventTime.Equal(eventTime)
	})).Return(nil)

	// Act
	err := svc.ProcessEvent(context.Background(), event)

	// Assert
	assert.NoError(t, err)
	archiveRepo.AssertExpectations(t)
}

func TestProcessEvent_CommentAdded_KeepsCommentID(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	svc := NewEventProcessingService(archiveRepo)

	event := &entity.FeedbackEvent{
		EventType:  entity.EventTypeCommentAdded,
		FeedbackID: "fb-1",
		CommentID:  "c-42",
		ActorID:    "user-2",
		Timestamp:  time.Now().UTC(),
	}

	archiveRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *entity.ArchivedEvent) bool {
		return a.CommentID == "c-42"
	})).Return(nil)

	// Act
	err := svc.ProcessEvent(context.Background(), event)

	// Assert
	assert.NoError(t, err)
	archiveRepo.AssertExpectations(t)
}

func TestProcessEvent_UnknownTypeSkippedWithoutError(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	svc := NewEventProcessingService(archiveRepo)

	event := &entity.FeedbackEvent{
		EventType:  "SOMETHING_ELSE",
		FeedbackID: "fb-1",
		Timestamp:  time.Now().UTC(),
	}

	// Act
	err := svc.ProcessEvent(context.Background(), event)

	// Assert: неизвестный тип не блокирует консьюмер и не пишется в архив
	assert.NoError(t, err)
	archiveRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessEvent_MissingFeedbackID(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	svc := NewEventProcessingService(archiveRepo)

	event := &entity.FeedbackEvent{
		EventType: entity.EventTypeFeedbackDeleted,
		Timestamp: time.Now().UTC(),
	}

	// Act
	err := svc.ProcessEvent(context.Background(), event)

	// Assert
	assert.Error(t, err)
	archiveRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessEvent_ZeroTimestampDefaultsToNow(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	svc := NewEventProcessingService(archiveRepo)

	event := &entity.FeedbackEvent{
		EventType:  entity.EventTypeFeedbackDeleted,
		FeedbackID: "fb-9",
		ActorID:    "admin-1",
	}

	before := time.Now().UTC()
	archiveRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *entity.ArchivedEvent) bool {
		return !a.EventTime.IsZero() && !a.EventTime.Before(before)
	})).Return(nil)

	// Act
	err := svc.ProcessEvent(context.Background(), event)

	// Assert
	assert.NoError(t, err)
	archiveRepo.AssertExpectations(t)
}

func TestProcessEvent_ArchiveError(t *testing.T) {
	// Arrange
	archiveRepo := new(mocks.MockArchiveRepository)
	svc := NewEventProcessingService(archiveRepo)

	event := &entity.FeedbackEvent{
		EventType:  entity.EventTypeFeedbackCreated,
		FeedbackID: "fb-1",
		ActorID:    "user-1",
		Rating:     3,
		Timestamp:  time.Now().UTC(),
	}

	archiveRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	// Act
	err := svc.ProcessEvent(context.Background(), event)

	// Assert: ошибка пробрасывается, чтобы консьюмер не коммитил offset
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process event")
}

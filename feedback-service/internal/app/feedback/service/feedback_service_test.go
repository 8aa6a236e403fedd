package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
	"feedbackhub/feedback-service/internal/app/feedback/repository"
	"feedbackhub/feedback-service/internal/app/feedback/repository/mocks"
	"feedbackhub/feedback-service/internal/app/feedback/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestService() (*FeedbackService, *mocks.MockFeedbackRepository, *mocks.MockCommentRepository, *mocks.MockMessagePublisher) {
	feedbackRepo := new(mocks.MockFeedbackRepository)
	commentRepo := new(mocks.MockCommentRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewFeedbackService(feedbackRepo, commentRepo, producer, stream.NewHub())
	return svc, feedbackRepo, commentRepo, producer
}

func repoNotFound() error {
	return repository.ErrFeedbackNotFound
}

func testIdentity() entity.Identity {
	return entity.Identity{ID: "user-123", Name: "Jamie Doe", Email: "jamie@iitm.ac.in"}
}

func TestCreateFeedback_Success(t *testing.T) {
	svc, feedbackRepo, _, producer := newTestService()

	ctx := context.Background()
	req := &entity.CreateFeedbackRequest{Rating: 4, Comment: "Great session", Suggestions: ""}

	feedbackRepo.On("Create", ctx, mock.AnythingOfType("*entity.Feedback")).Return(nil).Run(func(args mock.Arguments) {
		fb := args.Get(1).(*entity.Feedback)
		fb.ID = primitive.NewObjectID()
	})
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.CreateFeedback(ctx, testIdentity(), req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "user-123", result.AuthorID)
	assert.Equal(t, 4, result.Rating)
	assert.Equal(t, "Great session", result.Comment)
	// Пустые suggestions становятся отсутствующим полем, не пустой строкой
	assert.Nil(t, result.Suggestions)
}

func TestCreateFeedback_RatingZeroRejected(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	req := &entity.CreateFeedbackRequest{Rating: 0, Comment: "Great session"}

	result, err := svc.CreateFeedback(context.Background(), testIdentity(), req)

	assert.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Nil(t, result)
	feedbackRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFeedback_RatingOutOfRangeRejected(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	for _, rating := range []int{-1, 6, 100} {
		req := &entity.CreateFeedbackRequest{Rating: rating, Comment: "Great session"}
		_, err := svc.CreateFeedback(context.Background(), testIdentity(), req)
		assert.True(t, IsValidationError(err), "rating %d must be rejected", rating)
	}

	feedbackRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFeedback_RatingBoundariesAccepted(t *testing.T) {
	svc, feedbackRepo, _, producer := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Create", ctx, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	for _, rating := range []int{1, 5} {
		req := &entity.CreateFeedbackRequest{Rating: rating, Comment: "Fine"}
		result, err := svc.CreateFeedback(ctx, testIdentity(), req)
		assert.NoError(t, err)
		assert.Equal(t, rating, result.Rating)
	}
}

func TestCreateFeedback_EmptyCommentRejected(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	for _, comment := range []string{"", "   ", "\n\t "} {
		req := &entity.CreateFeedbackRequest{Rating: 3, Comment: comment}
		_, err := svc.CreateFeedback(context.Background(), testIdentity(), req)
		assert.True(t, IsValidationError(err))
	}

	feedbackRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFeedback_CommentLengthBoundary(t *testing.T) {
	svc, feedbackRepo, _, producer := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Create", ctx, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Ровно на границе - принимается
	atLimit := strings.Repeat("a", entity.MaxCommentLength)
	_, err := svc.CreateFeedback(ctx, testIdentity(), &entity.CreateFeedbackRequest{Rating: 3, Comment: atLimit})
	assert.NoError(t, err)

	// На один символ больше - отклоняется
	overLimit := strings.Repeat("a", entity.MaxCommentLength+1)
	_, err = svc.CreateFeedback(ctx, testIdentity(), &entity.CreateFeedbackRequest{Rating: 3, Comment: overLimit})
	assert.True(t, IsValidationError(err))
}

func TestCreateFeedback_SuggestionsLengthBoundary(t *testing.T) {
	svc, _, _, producer := newTestService()

	ctx := context.Background()
	overLimit := strings.Repeat("s", entity.MaxSuggestionsLength+1)
	_, err := svc.CreateFeedback(ctx, testIdentity(), &entity.CreateFeedbackRequest{Rating: 3, Comment: "ok", Suggestions: overLimit})
	assert.True(t, IsValidationError(err))
	producer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFeedback_TrimsFields(t *testing.T) {
	svc, feedbackRepo, _, producer := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Create", ctx, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	req := &entity.CreateFeedbackRequest{Rating: 5, Comment: "  trimmed  ", Suggestions: "  also trimmed  "}
	result, err := svc.CreateFeedback(ctx, testIdentity(), req)

	assert.NoError(t, err)
	assert.Equal(t, "trimmed", result.Comment)
	assert.NotNil(t, result.Suggestions)
	assert.Equal(t, "also trimmed", *result.Suggestions)
}

func TestCreateFeedback_WhitespaceSuggestionsNormalizedToAbsent(t *testing.T) {
	svc, feedbackRepo, _, producer := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Create", ctx, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	req := &entity.CreateFeedbackRequest{Rating: 4, Comment: "Great session", Suggestions: "   "}
	result, err := svc.CreateFeedback(ctx, testIdentity(), req)

	assert.NoError(t, err)
	assert.Nil(t, result.Suggestions)
}

func TestCreateFeedback_RepoError(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	result, err := svc.CreateFeedback(ctx, testIdentity(), &entity.CreateFeedbackRequest{Rating: 3, Comment: "ok"})

	assert.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Nil(t, result)
}

func TestCreateFeedback_KafkaErrorIgnored(t *testing.T) {
	svc, feedbackRepo, _, producer := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		fb := args.Get(1).(*entity.Feedback)
		fb.ID = primitive.NewObjectID()
	})
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := svc.CreateFeedback(ctx, testIdentity(), &entity.CreateFeedbackRequest{Rating: 3, Comment: "ok"})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestListFeedbacks_HasMore(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	fullPage := make([]entity.Feedback, DefaultPageSize)
	feedbackRepo.On("List", ctx, DefaultPageSize, time.Time{}).Return(fullPage, nil)

	feedbacks, hasMore, err := svc.ListFeedbacks(ctx, 0, time.Time{})

	assert.NoError(t, err)
	assert.Len(t, feedbacks, DefaultPageSize)
	assert.True(t, hasMore)
}

func TestListFeedbacks_LastPage(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("List", ctx, DefaultPageSize, time.Time{}).Return([]entity.Feedback{{Rating: 5}}, nil)

	feedbacks, hasMore, err := svc.ListFeedbacks(ctx, DefaultPageSize, time.Time{})

	assert.NoError(t, err)
	assert.Len(t, feedbacks, 1)
	assert.False(t, hasMore)
}

func TestListFeedbacks_LimitCapped(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("List", ctx, MaxPageSize, time.Time{}).Return([]entity.Feedback{}, nil)

	_, _, err := svc.ListFeedbacks(ctx, 1000, time.Time{})

	assert.NoError(t, err)
	feedbackRepo.AssertCalled(t, "List", ctx, MaxPageSize, time.Time{})
}

func TestDeleteFeedback_Success(t *testing.T) {
	svc, feedbackRepo, commentRepo, producer := newTestService()

	ctx := context.Background()
	feedbackID := primitive.NewObjectID()
	feedback := &entity.Feedback{ID: feedbackID, AuthorID: "user-123"}

	feedbackRepo.On("GetByID", ctx, feedbackID.Hex()).Return(feedback, nil)
	feedbackRepo.On("Delete", ctx, feedbackID.Hex()).Return(nil)
	commentRepo.On("DeleteByFeedbackID", ctx, feedbackID.Hex()).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	err := svc.DeleteFeedback(ctx, feedbackID.Hex(), "user-123")

	assert.NoError(t, err)
	// Тред удаляется каскадно вместе с отзывом
	commentRepo.AssertCalled(t, "DeleteByFeedbackID", ctx, feedbackID.Hex())
}

func TestDeleteFeedback_NotAuthor(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	feedbackID := primitive.NewObjectID()
	feedback := &entity.Feedback{ID: feedbackID, AuthorID: "user-123"}

	feedbackRepo.On("GetByID", ctx, feedbackID.Hex()).Return(feedback, nil)

	err := svc.DeleteFeedback(ctx, feedbackID.Hex(), "someone-else")

	assert.ErrorIs(t, err, ErrForbidden)
	feedbackRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteFeedback_NotFound(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("GetByID", ctx, "missing").Return(nil, repoNotFound())

	err := svc.DeleteFeedback(ctx, "missing", "user-123")

	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestLikeFeedback_NotFound(t *testing.T) {
	svc, feedbackRepo, _, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("IncrementLikes", ctx, "missing").Return(repoNotFound())

	err := svc.LikeFeedback(ctx, "missing")

	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestAddComment_Success(t *testing.T) {
	svc, feedbackRepo, commentRepo, producer := newTestService()

	ctx := context.Background()
	feedbackID := primitive.NewObjectID()
	feedback := &entity.Feedback{ID: feedbackID, AuthorID: "author-1"}

	feedbackRepo.On("GetByID", ctx, feedbackID.Hex()).Return(feedback, nil)
	commentRepo.On("Create", ctx, mock.AnythingOfType("*entity.Comment")).Return(nil).Run(func(args mock.Arguments) {
		comment := args.Get(1).(*entity.Comment)
		comment.ID = primitive.NewObjectID()
	})
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	comment, err := svc.AddComment(ctx, feedbackID.Hex(), testIdentity(), &entity.CreateCommentRequest{Text: "  Nice point  "})

	assert.NoError(t, err)
	assert.Equal(t, "Nice point", comment.Text)
	assert.Equal(t, feedbackID.Hex(), comment.FeedbackID)
	assert.Equal(t, "user-123", comment.CommenterID)
}

func TestAddComment_TextLengthBoundary(t *testing.T) {
	svc, feedbackRepo, commentRepo, producer := newTestService()

	ctx := context.Background()
	feedbackID := primitive.NewObjectID()
	feedbackRepo.On("GetByID", ctx, feedbackID.Hex()).Return(&entity.Feedback{ID: feedbackID}, nil)
	commentRepo.On("Create", ctx, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	atLimit := strings.Repeat("x", entity.MaxThreadTextLength)
	_, err := svc.AddComment(ctx, feedbackID.Hex(), testIdentity(), &entity.CreateCommentRequest{Text: atLimit})
	assert.NoError(t, err)

	overLimit := strings.Repeat("x", entity.MaxThreadTextLength+1)
	_, err = svc.AddComment(ctx, feedbackID.Hex(), testIdentity(), &entity.CreateCommentRequest{Text: overLimit})
	assert.True(t, IsValidationError(err))
}

func TestAddComment_EmptyTextRejected(t *testing.T) {
	svc, feedbackRepo, commentRepo, _ := newTestService()

	_, err := svc.AddComment(context.Background(), "any", testIdentity(), &entity.CreateCommentRequest{Text: "   "})

	assert.True(t, IsValidationError(err))
	// Валидация блокирует любые обращения к хранилищу
	feedbackRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddComment_FeedbackGone(t *testing.T) {
	svc, feedbackRepo, commentRepo, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("GetByID", ctx, "missing").Return(nil, repoNotFound())

	_, err := svc.AddComment(ctx, "missing", testIdentity(), &entity.CreateCommentRequest{Text: "hello"})

	assert.ErrorIs(t, err, ErrFeedbackNotFound)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExportAll_AssemblesThreads(t *testing.T) {
	svc, feedbackRepo, commentRepo, _ := newTestService()

	ctx := context.Background()
	first := entity.Feedback{ID: primitive.NewObjectID(), Rating: 5}
	second := entity.Feedback{ID: primitive.NewObjectID(), Rating: 2}

	feedbackRepo.On("ListAll", ctx).Return([]entity.Feedback{first, second}, nil)
	commentRepo.On("ListByFeedbackID", ctx, first.ID.Hex()).Return([]entity.Comment{{Text: "a"}, {Text: "b"}}, nil)
	commentRepo.On("ListByFeedbackID", ctx, second.ID.Hex()).Return([]entity.Comment{}, nil)

	result, err := svc.ExportAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Len(t, result[0].Comments, 2)
	assert.Empty(t, result[1].Comments)
}

func TestStats_MergesCommentCount(t *testing.T) {
	svc, feedbackRepo, commentRepo, _ := newTestService()

	ctx := context.Background()
	feedbackRepo.On("Stats", ctx).Return(&entity.FeedbackStats{TotalFeedbacks: 3, AverageRating: 4.2}, nil)
	commentRepo.On("Count", ctx).Return(int64(7), nil)

	stats, err := svc.Stats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalFeedbacks)
	assert.Equal(t, int64(7), stats.TotalComments)
	assert.InDelta(t, 4.2, stats.AverageRating, 0.001)
}

package entity

// MaxCommentLength и MaxSuggestionsLength - пределы длины текстовых полей отзыва
const (
	MaxCommentLength     = 2000
	MaxSuggestionsLength = 2000
	MaxThreadTextLength  = 1000
)

// CreateFeedbackRequest - запрос на создание отзыва
// Суть валидации живёт в service layer: там же происходит trim
// и нормализация пустых suggestions в отсутствующее поле
type CreateFeedbackRequest struct {
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	Suggestions string `json:"suggestions"`
}

// CreateCommentRequest - запрос на добавление комментария к отзыву
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// FeedbackListResponse - страница ленты отзывов
type FeedbackListResponse struct {
	Feedbacks  []Feedback `json:"feedbacks"`
	Total      int        `json:"total"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// CommentListResponse - тред комментариев одного отзыва
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

package util

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"
)

// ExportHeader - фиксированный порядок колонок выгрузки
var ExportHeader = []string{
	"FeedbackID",
	"AuthorName",
	"AuthorEmail",
	"Rating",
	"Comment",
	"Suggestions",
	"CreatedAt",
	"Likes",
	"CommentID",
	"CommenterName",
	"CommentText",
	"CommentCreatedAt",
}

// WriteExportCSV сериализует полный набор отзывов в CSV
// Одна строка на комментарий; отзыв без комментариев даёт одну строку
// с пустыми колонками комментария, то есть max(1, len(comments)) строк
// Экранирование по RFC 4180: поля с запятой, кавычкой или переводом
// строки оборачиваются в кавычки, внутренние кавычки удваиваются
func WriteExportCSV(w io.Writer, items []entity.FeedbackWithComments) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range items {
		fb := item.Feedback

		suggestions := ""
		if fb.Suggestions != nil {
			suggestions = *fb.Suggestions
		}

		base := []string{
			fb.ID.Hex(),
			fb.AuthorName,
			fb.AuthorEmail,
			strconv.Itoa(fb.Rating),
			fb.Comment,
			suggestions,
			FormatTimestamp(fb.CreatedAt),
			strconv.FormatInt(fb.Likes, 10),
		}

		if len(item.Comments) == 0 {
			row := append(append([]string{}, base...), "", "", "", "")
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			continue
		}

		for _, c := range item.Comments {
			row := append(append([]string{}, base...),
				c.ID.Hex(),
				c.CommenterName,
				c.Text,
				FormatTimestamp(c.CreatedAt),
			)
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatTimestamp выводит время в каноничной сортируемой форме RFC3339
// Нулевое время даёт пустое поле, не ошибку
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

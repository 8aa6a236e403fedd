package util

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"feedbackhub/feedback-service/internal/app/feedback/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCSV(t *testing.T, data string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteExportCSV_RowCount(t *testing.T) {
	suggestions := "more tea"
	items := []entity.FeedbackWithComments{
		{
			Feedback: entity.Feedback{Rating: 5, Comment: "great", Suggestions: &suggestions},
			Comments: []entity.Comment{{Text: "one"}, {Text: "two"}, {Text: "three"}},
		},
		{
			Feedback: entity.Feedback{Rating: 2, Comment: "meh"},
			Comments: nil,
		},
		{
			Feedback: entity.Feedback{Rating: 4, Comment: "fine"},
			Comments: []entity.Comment{{Text: "solo"}},
		},
	}

	var buf bytes.Buffer
	err := WriteExportCSV(&buf, items)
	require.NoError(t, err)

	records := parseCSV(t, buf.String())
	// Заголовок + по строке на комментарий, отзыв без треда даёт одну строку
	assert.Len(t, records, 1+3+1+1)
	assert.Equal(t, ExportHeader, records[0])
}

func TestWriteExportCSV_EmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExportCSV(&buf, []entity.FeedbackWithComments{})
	require.NoError(t, err)

	records := parseCSV(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, ExportHeader, records[0])
}

func TestWriteExportCSV_FeedbackWithoutComments(t *testing.T) {
	items := []entity.FeedbackWithComments{
		{Feedback: entity.Feedback{AuthorName: "Sam", Rating: 3, Comment: "ok", Likes: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExportCSV(&buf, items))

	records := parseCSV(t, buf.String())
	require.Len(t, records, 2)

	row := records[1]
	require.Len(t, row, len(ExportHeader))
	assert.Equal(t, "Sam", row[1])
	assert.Equal(t, "3", row[3])
	assert.Equal(t, "2", row[7])
	// Колонки комментария пустые, не опущенные
	assert.Equal(t, "", row[8])
	assert.Equal(t, "", row[9])
	assert.Equal(t, "", row[10])
	assert.Equal(t, "", row[11])
}

func TestWriteExportCSV_Escaping(t *testing.T) {
	items := []entity.FeedbackWithComments{
		{Feedback: entity.Feedback{Rating: 1, Comment: `a,b"c`}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExportCSV(&buf, items))

	// RFC 4180: поле в кавычках, внутренние кавычки удвоены
	assert.Contains(t, buf.String(), `"a,b""c"`)

	// Обратное чтение восстанавливает исходное значение
	records := parseCSV(t, buf.String())
	assert.Equal(t, `a,b"c`, records[1][4])
}

func TestWriteExportCSV_MultilineField(t *testing.T) {
	items := []entity.FeedbackWithComments{
		{
			Feedback: entity.Feedback{Rating: 4, Comment: "line one\nline two"},
			Comments: []entity.Comment{{CommenterName: "Pat", Text: "reply"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExportCSV(&buf, items))

	records := parseCSV(t, buf.String())
	require.Len(t, records, 2)
	assert.Equal(t, "line one\nline two", records[1][4])
	assert.Equal(t, "Pat", records[1][9])
}

func TestWriteExportCSV_Timestamps(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	items := []entity.FeedbackWithComments{
		{
			Feedback: entity.Feedback{Rating: 5, Comment: "ok", CreatedAt: created},
			Comments: []entity.Comment{{Text: "hi"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExportCSV(&buf, items))

	records := parseCSV(t, buf.String())
	assert.Equal(t, "2026-03-14T09:26:53Z", records[1][6])
	// Нулевое время комментария даёт пустое поле
	assert.Equal(t, "", records[1][11])
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "", FormatTimestamp(time.Time{}))

	loc := time.FixedZone("IST", 5*3600+1800)
	local := time.Date(2026, 1, 2, 10, 0, 0, 0, loc)
	// Время всегда нормализуется к UTC
	assert.Equal(t, "2026-01-02T04:30:00Z", FormatTimestamp(local))
}

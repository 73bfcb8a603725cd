package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/lingofeed/internal/feedback"
)

func TestFormatMessage(t *testing.T) {
	text := feedback.Text{
		Summary:    "오늘 80% 성공했어요",
		Praise:     "잘했어요 🌟",
		Motivation: "내일도 화이팅!",
	}

	got := FormatMessage(text)
	assert.Contains(t, got, "오늘의 피드백")
	assert.Contains(t, got, text.Summary)
	assert.Contains(t, got, text.Praise)
	assert.Contains(t, got, text.Motivation)
}

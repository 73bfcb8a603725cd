package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 5, columnToIndex("F"))
	assert.Equal(t, 25, columnToIndex("Z"))
	assert.Equal(t, 26, columnToIndex("AA"))
	assert.Equal(t, 0, columnToIndex("a"))
}

func TestRowUnit(t *testing.T) {
	config := DefaultImportConfig()
	row := []string{"Statement", "밥 먹었어", "https://cdn/n.mp3", "https://cdn/s.mp3", "일상 표현", "#인사, 일상"}

	data := rowUnit(row, config)
	assert.Equal(t, "statement", data.kind)
	assert.Equal(t, "밥 먹었어", data.text)
	assert.Equal(t, "https://cdn/n.mp3", data.urlNorm)
	assert.Equal(t, "https://cdn/s.mp3", data.urlSlow)
	assert.Equal(t, "일상 표현", data.remark)
	assert.Equal(t, []string{"인사", "일상"}, data.hashtags)
}

func TestRowUnitShortRow(t *testing.T) {
	data := rowUnit([]string{"word", "사과"}, DefaultImportConfig())
	assert.Equal(t, "word", data.kind)
	assert.Equal(t, "사과", data.text)
	assert.Empty(t, data.urlNorm)
	assert.Empty(t, data.hashtags)
}

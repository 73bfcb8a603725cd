package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingofeed/internal/progress"
)

type stubGenerator struct {
	text   Text
	err    error
	called bool
}

func (g *stubGenerator) GenerateFeedback(ctx context.Context, req Request) (Text, error) {
	g.called = true
	return g.text, g.err
}

func snapshot() *progress.Snapshot {
	return &progress.Snapshot{
		LearnerID:     7,
		Date:          "2026-08-31",
		DailyAccuracy: 80,
		BestCategory:  "인사",
		CurrentStage:  3,
		GrowthPhase:   progress.PhaseSprout,
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     Band
	}{
		{100, BandStrong},
		{85, BandStrong},
		{84.99, BandPositive},
		{80, BandPositive},
		{70, BandPositive},
		{69.99, BandEncouraging},
		{0, BandEncouraging},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}

func TestFamilyForIsStable(t *testing.T) {
	first := FamilyFor(42, "2026-08-31")
	assert.Equal(t, first, FamilyFor(42, "2026-08-31"))
	assert.Contains(t, families, first)
}

func TestFallbackCoversEveryCombination(t *testing.T) {
	bands := []Band{BandStrong, BandPositive, BandEncouraging}
	phases := []progress.Phase{
		progress.PhaseSeed, progress.PhaseSprout,
		progress.PhaseGrowing, progress.PhaseFruit,
	}
	categories := []string{"", "인사", "아주 길어서 절대 들어갈 수 없는 카테고리 이름"}

	for _, band := range bands {
		for _, phase := range phases {
			for _, family := range families {
				for _, cat := range categories {
					text := Fallback(Request{
						Accuracy:     80,
						Band:         band,
						BestCategory: cat,
						Phase:        phase,
						Family:       family,
					})
					require.True(t, text.Valid(),
						"band=%s phase=%s family=%s cat=%q text=%+v",
						band, phase, family, cat, text)
				}
			}
		}
	}
}

func TestFallbackCategorySummary(t *testing.T) {
	text := Fallback(Request{Band: BandPositive, BestCategory: "인사",
		Phase: progress.PhaseSprout, Family: FamilyBestCategory})
	assert.Contains(t, text.Summary, "인사")
}

func TestFallbackLongCategoryFallsToVariety(t *testing.T) {
	text := Fallback(Request{Band: BandPositive,
		BestCategory: "아주 길어서 절대 들어갈 수 없는 카테고리 이름",
		Phase:        progress.PhaseSprout, Family: FamilyBestCategory})
	assert.Equal(t, summaryVariety, text.Summary)
}

func TestFallbackAccuracyClamped(t *testing.T) {
	text := Fallback(Request{Accuracy: 250, Band: BandStrong,
		Phase: progress.PhaseFruit, Family: FamilyAccuracy})
	assert.Contains(t, text.Summary, "100%")
	assert.True(t, text.Valid())
}

func TestComposeUsesGeneratedText(t *testing.T) {
	gen := &stubGenerator{text: Text{
		Summary:    "오늘 80% 성공했어요",
		Praise:     "아주 잘했어요 🌟",
		Motivation: "내일도 화이팅!",
	}}
	c := NewComposer(gen)

	text, err := c.Compose(context.Background(), snapshot())
	require.NoError(t, err)
	assert.True(t, gen.called)
	assert.Equal(t, gen.text, text)
}

func TestComposeFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	c := NewComposer(gen)

	text, err := c.Compose(context.Background(), snapshot())
	require.NoError(t, err)
	assert.True(t, text.Valid())
}

func TestComposeRejectsOverlongGeneration(t *testing.T) {
	gen := &stubGenerator{text: Text{
		Summary:    strings.Repeat("가", MaxLen+1),
		Praise:     "잘했어요",
		Motivation: "화이팅",
	}}
	c := NewComposer(gen)

	text, err := c.Compose(context.Background(), snapshot())
	require.NoError(t, err)
	assert.True(t, text.Valid())
	assert.NotEqual(t, gen.text.Summary, text.Summary)
}

func TestComposeWithoutGenerator(t *testing.T) {
	c := NewComposer(nil)

	text, err := c.Compose(context.Background(), snapshot())
	require.NoError(t, err)
	assert.True(t, text.Valid())
}

func TestTextJoin(t *testing.T) {
	text := Text{Summary: "a", Praise: "b", Motivation: "c"}
	assert.Equal(t, "a\nb\nc", text.Join())
}

func TestCannedPhraseLengths(t *testing.T) {
	for band, s := range praiseByBand {
		assert.LessOrEqual(t, utf8.RuneCountInString(s), MaxLen, "praise for %s", band)
	}
	for phase, s := range motivationByPhase {
		assert.LessOrEqual(t, utf8.RuneCountInString(s), MaxLen, "motivation for %s", phase)
	}
	assert.LessOrEqual(t, utf8.RuneCountInString(summaryVariety), MaxLen)
}

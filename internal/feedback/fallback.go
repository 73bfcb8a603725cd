package feedback

import (
	"fmt"

	"github.com/example/lingofeed/internal/progress"
)

// Canned phrase tables. Every entry fits the MaxLen contract; the tests
// verify the full (band, phase, family) product.

const (
	summaryAccuracyFormat = "오늘 단어 듣기 퀴즈에서 %d%% 성공했어요"
	summaryCategoryFormat = "오늘은 %s 듣기를 잘했어요"
	summaryVariety        = "오늘도 다양한 퀴즈에 도전했어요"
)

var praiseByBand = map[Band]string{
	BandStrong:      "정말 훌륭한 실력이에요 🌟",
	BandPositive:    "꾸준히 잘하고 있어요 🌿",
	BandEncouraging: "도전하는 모습이 멋져요 💪",
}

var motivationByPhase = map[progress.Phase]string{
	progress.PhaseSeed:    "씨앗이 곧 싹을 틔울 거예요",
	progress.PhaseSprout:  "새싹이 쑥쑥 자라고 있어요",
	progress.PhaseGrowing: "나무가 무럭무럭 크고 있어요",
	progress.PhaseFruit:   "달콤한 열매가 열리고 있어요",
}

// Fallback renders canned feedback for the request. It is total: any
// request, including one with out-of-range values, yields three valid
// phrases.
func Fallback(req Request) Text {
	return Text{
		Summary:    fallbackSummary(req),
		Praise:     fallbackPraise(req.Band),
		Motivation: fallbackMotivation(req.Phase),
	}
}

func fallbackSummary(req Request) string {
	switch req.Family {
	case FamilyAccuracy:
		acc := req.Accuracy
		if acc < 0 {
			acc = 0
		}
		if acc > 100 {
			acc = 100
		}
		return fmt.Sprintf(summaryAccuracyFormat, acc)
	case FamilyBestCategory:
		if req.BestCategory != "" {
			s := fmt.Sprintf(summaryCategoryFormat, req.BestCategory)
			if fits(s) {
				return s
			}
		}
	}
	return summaryVariety
}

func fallbackPraise(band Band) string {
	if s, ok := praiseByBand[band]; ok {
		return s
	}
	return praiseByBand[BandEncouraging]
}

func fallbackMotivation(phase progress.Phase) string {
	if s, ok := motivationByPhase[phase]; ok {
		return s
	}
	return motivationByPhase[progress.PhaseSeed]
}

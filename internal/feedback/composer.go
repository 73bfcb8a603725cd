// Package feedback turns a progress snapshot into the three daily phrases:
// summary, praise and motivation. Each phrase is bounded to MaxLen visible
// characters; text that cannot be obtained from the generation service
// within the contract falls back to canned phrasing.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"unicode/utf8"

	"github.com/example/lingofeed/internal/progress"
)

// MaxLen is the hard length contract: at most 25 characters per phrase,
// counting spaces, symbols and emoji.
const MaxLen = 25

// ErrLengthContract marks generated text exceeding MaxLen.
var ErrLengthContract = errors.New("text exceeds length contract")

// Family selects the summary template family.
type Family string

// Summary families.
const (
	FamilyAccuracy     Family = "accuracy"
	FamilyBestCategory Family = "best_category"
	FamilyVariety      Family = "variety"
)

var families = []Family{FamilyAccuracy, FamilyBestCategory, FamilyVariety}

// Band is the praise tone band for a daily accuracy value.
type Band string

// Praise bands. The three bands partition [0,100]: boundaries are
// inclusive at the lower edge.
const (
	BandStrong      Band = "strong"      // accuracy >= 85
	BandPositive    Band = "positive"    // 70 <= accuracy < 85
	BandEncouraging Band = "encouraging" // accuracy < 70
)

// BandFor maps an accuracy percentage to its praise band.
func BandFor(accuracy float64) Band {
	switch {
	case accuracy >= 85:
		return BandStrong
	case accuracy >= 70:
		return BandPositive
	default:
		return BandEncouraging
	}
}

// FamilyFor picks the summary family for a learner and date. The pick is
// pseudo-random but reproducible: the same (learner, date) pair always
// yields the same family, so re-runs stay stable.
func FamilyFor(learnerID int64, date string) Family {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s", learnerID, date)
	return families[h.Sum32()%uint32(len(families))]
}

// Text is one day's composed feedback.
type Text struct {
	Summary    string `json:"summary"`
	Praise     string `json:"praise"`
	Motivation string `json:"motivation"`
}

// Join renders the storage layout: the three phrases joined by newlines.
func (t Text) Join() string {
	return t.Summary + "\n" + t.Praise + "\n" + t.Motivation
}

// Valid reports whether every phrase is present and within the length
// contract.
func (t Text) Valid() bool {
	return fits(t.Summary) && fits(t.Praise) && fits(t.Motivation)
}

func fits(s string) bool {
	return s != "" && utf8.RuneCountInString(s) <= MaxLen
}

// Request carries the derived inputs handed to the generation service.
type Request struct {
	Accuracy     int // rounded percentage
	Band         Band
	BestCategory string
	Phase        progress.Phase
	Family       Family
}

// Generator produces feedback text from an external service. A failed or
// contract-violating generation is recovered by the composer, never
// surfaced to callers.
type Generator interface {
	GenerateFeedback(ctx context.Context, req Request) (Text, error)
}

// Composer renders feedback for a snapshot.
type Composer struct {
	gen Generator
}

// NewComposer creates a composer. gen may be nil, in which case every
// composition uses the canned path.
func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen}
}

// Compose renders the three phrases for the snapshot. It never fails: any
// generation problem falls back to the canned table, which covers every
// (band, phase, family) combination.
func (c *Composer) Compose(ctx context.Context, snap *progress.Snapshot) (Text, error) {
	req := Request{
		Accuracy:     int(math.Round(snap.DailyAccuracy)),
		Band:         BandFor(snap.DailyAccuracy),
		BestCategory: snap.BestCategory,
		Phase:        snap.GrowthPhase,
		Family:       FamilyFor(snap.LearnerID, snap.Date),
	}

	if c.gen != nil {
		text, err := c.gen.GenerateFeedback(ctx, req)
		if err == nil && !text.Valid() {
			err = ErrLengthContract
		}
		if err == nil {
			return text, nil
		}
		log.Printf("Feedback generation fell back to canned phrasing for learner %d: %v", snap.LearnerID, err)
	}
	return Fallback(req), nil
}

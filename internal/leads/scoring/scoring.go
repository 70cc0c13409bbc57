// Package scoring computes lead scores from acquisition source, message
// content, and interaction signals.
package scoring

import (
	"strings"

	"leadconvert/internal/leads/domain"
)

// QualificationThreshold mirrors the pipeline's promotion threshold.
const QualificationThreshold = domain.QualificationThreshold

var sourceWeights = map[domain.Source]float64{
	domain.SourceWebForm:  10,
	domain.SourceWhatsApp: 15,
	domain.SourceEmail:    8,
	domain.SourceOther:    5,
}

var positiveKeywords = []string{"interested", "buy", "purchase", "price", "cost", "available"}
var negativeKeywords = []string{"not interested", "expensive", "too much", "no thanks"}

// Signal is the scoring-relevant slice of an interaction.
type Signal struct {
	Sentiment   string
	IntentScore *float64
}

// Input carries everything the score computation needs.
type Input struct {
	Source         domain.Source
	InitialMessage string
	Signals        []Signal
}

// Result is the outcome of a score computation.
type Result struct {
	Score     float64
	Qualified bool
}

// Compute derives a lead score in [0, 100].
//
// The score sums a source weight, a keyword bonus/penalty over the initial
// message (case-insensitive substring match, 5 points per keyword), an
// average-sentiment component mapped to [0, 20], and half the mean intent
// score. The result is clamped to [0, 100]; a score strictly above the
// qualification threshold marks the lead qualified.
func Compute(in Input) Result {
	score := sourceWeights[in.Source]

	if in.InitialMessage != "" {
		message := strings.ToLower(in.InitialMessage)
		for _, keyword := range positiveKeywords {
			if strings.Contains(message, keyword) {
				score += 5
			}
		}
		for _, keyword := range negativeKeywords {
			if strings.Contains(message, keyword) {
				score -= 5
			}
		}
	}

	if len(in.Signals) > 0 {
		var sentimentSum, intentSum float64
		for _, sig := range in.Signals {
			switch sig.Sentiment {
			case "positive":
				sentimentSum++
			case "negative":
				sentimentSum--
			}
			if sig.IntentScore != nil {
				intentSum += *sig.IntentScore
			}
		}
		n := float64(len(in.Signals))
		score += (sentimentSum/n + 1) * 10
		score += intentSum / n * 0.5
	}

	score = clamp(score, 0, 100)

	return Result{
		Score:     score,
		Qualified: score > QualificationThreshold,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

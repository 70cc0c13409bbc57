package scoring

import (
	"testing"

	"leadconvert/internal/leads/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestCompute_SourceWeightOnly(t *testing.T) {
	cases := []struct {
		source domain.Source
		want   float64
	}{
		{domain.SourceWebForm, 10},
		{domain.SourceWhatsApp, 15},
		{domain.SourceEmail, 8},
		{domain.SourceOther, 5},
	}

	for _, tc := range cases {
		got := Compute(Input{Source: tc.source})
		if got.Score != tc.want {
			t.Errorf("Compute(%s) = %v, want %v", tc.source, got.Score, tc.want)
		}
		if got.Qualified {
			t.Errorf("Compute(%s) unexpectedly qualified", tc.source)
		}
	}
}

func TestCompute_KeywordBonuses(t *testing.T) {
	got := Compute(Input{
		Source:         domain.SourceWebForm,
		InitialMessage: "I am very interested in buying",
	})
	// web_form (10) + "interested" (5) + "buy" matched inside "buying" (5)
	if got.Score != 20 {
		t.Fatalf("expected score 20, got %v", got.Score)
	}
}

func TestCompute_NegativeKeywordsSubtract(t *testing.T) {
	got := Compute(Input{
		Source:         domain.SourceOther,
		InitialMessage: "no thanks, this is too much",
	})
	// other (5) - "too much" (5) - "no thanks" (5), clamped at 0
	if got.Score != 0 {
		t.Fatalf("expected score clamped to 0, got %v", got.Score)
	}
}

func TestCompute_InteractionSignalsQualify(t *testing.T) {
	got := Compute(Input{
		Source: domain.SourceWhatsApp,
		Signals: []Signal{
			{Sentiment: "positive", IntentScore: floatPtr(100)},
		},
	})
	// whatsapp (15) + sentiment (1+1)*10 = 20 + intent 100*0.5 = 50
	if got.Score != 85 {
		t.Fatalf("expected score 85, got %v", got.Score)
	}
	if !got.Qualified {
		t.Fatal("expected lead to be qualified above threshold")
	}
}

func TestCompute_MixedSentimentAverages(t *testing.T) {
	got := Compute(Input{
		Source: domain.SourceEmail,
		Signals: []Signal{
			{Sentiment: "positive", IntentScore: floatPtr(60)},
			{Sentiment: "negative"},
		},
	})
	// email (8) + sentiment (0+1)*10 = 10 + intent 30*0.5 = 15
	if got.Score != 33 {
		t.Fatalf("expected score 33, got %v", got.Score)
	}
}

func TestCompute_NilIntentTreatedAsZero(t *testing.T) {
	got := Compute(Input{
		Source:  domain.SourceOther,
		Signals: []Signal{{Sentiment: "neutral"}},
	})
	// other (5) + sentiment (0+1)*10 = 10
	if got.Score != 15 {
		t.Fatalf("expected score 15, got %v", got.Score)
	}
}

func TestCompute_ClampsUpperBound(t *testing.T) {
	signals := make([]Signal, 0, 3)
	for i := 0; i < 3; i++ {
		signals = append(signals, Signal{Sentiment: "positive", IntentScore: floatPtr(100)})
	}
	got := Compute(Input{
		Source:         domain.SourceWhatsApp,
		InitialMessage: "interested to buy, what is the price and cost, still available for purchase?",
		Signals:        signals,
	})
	if got.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %v", got.Score)
	}
	if !got.Qualified {
		t.Fatal("expected qualified at max score")
	}
}

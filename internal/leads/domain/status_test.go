package domain

import "testing"

func TestCanTransition_ForwardOnly(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusContacted, true},
		{StatusNew, StatusQualified, true},
		{StatusContacted, StatusQualified, true},
		{StatusQualified, StatusConverted, true},
		{StatusNew, StatusConverted, true},
		{StatusContacted, StatusNew, false},
		{StatusQualified, StatusContacted, false},
		{StatusConverted, StatusQualified, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransition_LostFromAnyActive(t *testing.T) {
	for _, from := range []Status{StatusNew, StatusContacted, StatusQualified} {
		if !CanTransition(from, StatusLost) {
			t.Errorf("expected %s -> lost to be allowed", from)
		}
	}
	if CanTransition(StatusConverted, StatusLost) {
		t.Error("converted leads must not become lost")
	}
}

func TestCanTransition_ConvertedIsFrozen(t *testing.T) {
	for _, to := range []Status{StatusNew, StatusContacted, StatusQualified, StatusLost} {
		if CanTransition(StatusConverted, to) {
			t.Errorf("expected converted -> %s to be rejected", to)
		}
	}
}

func TestCanTransition_LostOnlyReopensAsNew(t *testing.T) {
	if !CanTransition(StatusLost, StatusNew) {
		t.Error("expected lost -> new reopen to be allowed")
	}
	for _, to := range []Status{StatusContacted, StatusQualified, StatusConverted} {
		if CanTransition(StatusLost, to) {
			t.Errorf("expected lost -> %s to be rejected", to)
		}
	}
}

func TestApplyScoreRecommendation(t *testing.T) {
	if got := ApplyScoreRecommendation(StatusNew, 85); got != StatusQualified {
		t.Errorf("expected new lead above threshold to qualify, got %s", got)
	}
	if got := ApplyScoreRecommendation(StatusNew, 70); got != StatusNew {
		t.Errorf("expected score at threshold to leave status unchanged, got %s", got)
	}
	// Scoring never moves a lead that already progressed, in either direction.
	for _, current := range []Status{StatusContacted, StatusConverted, StatusLost} {
		if got := ApplyScoreRecommendation(current, 95); got != current {
			t.Errorf("expected %s to stay, got %s", current, got)
		}
	}
}

func TestCanTransition_SameStatusIsNoOp(t *testing.T) {
	if !CanTransition(StatusContacted, StatusContacted) {
		t.Error("expected same-status transition to be allowed")
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	if CanTransition(Status("archived"), StatusLost) {
		t.Error("unknown status must not transition")
	}
	if CanTransition(StatusNew, Status("archived")) {
		t.Error("transition to unknown status must be rejected")
	}
}

func TestSourceValid(t *testing.T) {
	for _, s := range []Source{SourceWebForm, SourceWhatsApp, SourceEmail, SourceOther} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Source("carrier_pigeon").Valid() {
		t.Error("unexpected valid source")
	}
}

package service

import "testing"

func TestPointsFor_KnownActivities(t *testing.T) {
	cases := []struct {
		activityType string
		want         int64
	}{
		{ActivityLogin, 50},
		{ActivityCreateLead, 30},
		{ActivityUpdateLead, 15},
		{ActivityInteraction, 25},
		{ActivityOther, 5},
	}

	for _, tc := range cases {
		if got := PointsFor(tc.activityType); got != tc.want {
			t.Errorf("PointsFor(%s) = %d, want %d", tc.activityType, got, tc.want)
		}
	}
}

func TestPointsFor_UnknownActivityEarnsBaseline(t *testing.T) {
	if got := PointsFor("refactored_the_backlog"); got != 5 {
		t.Fatalf("expected baseline 5 points, got %d", got)
	}
}

func TestNormalizeType_MapsUnknownToOther(t *testing.T) {
	if got := normalizeType("refactored_the_backlog"); got != ActivityOther {
		t.Fatalf("expected %q, got %q", ActivityOther, got)
	}
	if got := normalizeType(ActivityCreateLead); got != ActivityCreateLead {
		t.Fatalf("expected %q, got %q", ActivityCreateLead, got)
	}
}

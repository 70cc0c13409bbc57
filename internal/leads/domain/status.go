// Package domain holds the lead lifecycle model shared by the leads
// service and its callers.
package domain

// Status is a lead's pipeline stage.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// rank orders the forward pipeline. Lost sits outside the ordering and is
// reachable from any active stage.
var rank = map[Status]int{
	StatusNew:       0,
	StatusContacted: 1,
	StatusQualified: 2,
	StatusConverted: 3,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	if s == StatusLost {
		return true
	}
	_, ok := rank[s]
	return ok
}

// Terminal reports whether a lead in this status has left the active
// pipeline.
func (s Status) Terminal() bool {
	return s == StatusConverted || s == StatusLost
}

// CanTransition reports whether a lead may move from one status to another.
// The pipeline only moves forward: new, contacted, qualified, converted.
// Any active lead may be marked lost; a lost lead may only be reopened as
// new. Converted leads never change.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	switch from {
	case StatusConverted:
		return false
	case StatusLost:
		return to == StatusNew
	}
	if to == StatusLost {
		return true
	}
	return rank[to] > rank[from]
}

// QualificationThreshold is the score above which a fresh lead is considered
// qualified.
const QualificationThreshold = 70

// ApplyScoreRecommendation returns the status a lead should hold after a
// scoring pass. Only a brand new lead crossing the threshold is promoted to
// qualified; scoring never moves a lead that has progressed.
func ApplyScoreRecommendation(current Status, score float64) Status {
	if current == StatusNew && score > QualificationThreshold {
		return StatusQualified
	}
	return current
}

// Source is the acquisition channel of a lead.
type Source string

const (
	SourceWebForm  Source = "web_form"
	SourceWhatsApp Source = "whatsapp"
	SourceEmail    Source = "email"
	SourceOther    Source = "other"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceWebForm, SourceWhatsApp, SourceEmail, SourceOther:
		return true
	}
	return false
}

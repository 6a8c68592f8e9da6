// ABOUTME: Enumerated field values for deals, leads, and activities
// ABOUTME: Each enum reports membership so validation can reject unknown values
package models

type DealStage string

const (
	StageLead        DealStage = "LEAD"
	StageQualified   DealStage = "QUALIFIED"
	StageProposal    DealStage = "PROPOSAL"
	StageNegotiation DealStage = "NEGOTIATION"
	StageClosedWon   DealStage = "CLOSED_WON"
	StageClosedLost  DealStage = "CLOSED_LOST"
)

var DealStages = []DealStage{StageLead, StageQualified, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost}

type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadQualified LeadStatus = "Qualified"
	LeadConverted LeadStatus = "Converted"
	LeadLost      LeadStatus = "Lost"
)

var LeadStatuses = []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost}

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "PENDING"
	ActivityInProgress ActivityStatus = "IN_PROGRESS"
	ActivityCompleted  ActivityStatus = "COMPLETED"
	ActivityCancelled  ActivityStatus = "CANCELLED"
)

var ActivityStatuses = []ActivityStatus{ActivityPending, ActivityInProgress, ActivityCompleted, ActivityCancelled}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func oneOf[T ~string](v T, allowed []T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (s DealStage) Valid() bool      { return oneOf(s, DealStages) }
func (s LeadStatus) Valid() bool     { return oneOf(s, LeadStatuses) }
func (s ActivityStatus) Valid() bool { return oneOf(s, ActivityStatuses) }
func (p Priority) Valid() bool       { return oneOf(p, Priorities) }

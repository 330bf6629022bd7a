package reminder

import (
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type GroupOutcome string

const (
	OutcomeNotified     GroupOutcome = "notified"
	OutcomeAlreadySent  GroupOutcome = "already_sent"
	OutcomeLostRace     GroupOutcome = "lost_race"
	OutcomeLedgerFailed GroupOutcome = "ledger_failed"
	OutcomeNotifyFailed GroupOutcome = "notify_failed"
)

func (o GroupOutcome) String() string {
	return string(o)
}

// IsSkipped reports outcomes where the ledger already held the group.
func (o GroupOutcome) IsSkipped() bool {
	switch o {
	case OutcomeAlreadySent, OutcomeLostRace:
		return true
	case OutcomeNotified, OutcomeLedgerFailed, OutcomeNotifyFailed:
		return false
	default:
		return false
	}
}

type GroupResult struct {
	Key         string              `json:"key"`
	WindowStart time.Time           `json:"window_start"`
	WindowEnd   time.Time           `json:"window_end"`
	Mode        domain.ReminderMode `json:"mode"`
	TaskIDs     []string            `json:"task_ids"`
	Outcome     GroupOutcome        `json:"outcome"`
	Error       string              `json:"error,omitempty"`
}

type SweepResult struct {
	RunID          string        `json:"run_id"`
	Now            time.Time     `json:"now"`
	TaskCount      int           `json:"task_count"`
	CandidateCount int           `json:"candidate_count"`
	ReadyCount     int           `json:"ready_count"`
	GroupCount     int           `json:"group_count"`
	NotifiedCount  int           `json:"notified_count"`
	SkippedCount   int           `json:"skipped_count"`
	FailedCount    int           `json:"failed_count"`
	Groups         []GroupResult `json:"groups"`
}

func (r *SweepResult) add(group GroupResult) {
	r.Groups = append(r.Groups, group)
	switch {
	case group.Outcome == OutcomeNotified:
		r.NotifiedCount++
	case group.Outcome.IsSkipped():
		r.SkippedCount++
	default:
		r.FailedCount++
	}
}

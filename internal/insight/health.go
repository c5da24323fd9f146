package insight

import (
	"fmt"
	"time"

	"github.com/modline/modtrack/internal/domain"
)

type FactorType string

const (
	FactorSuccess FactorType = "success"
	FactorWarning FactorType = "warning"
	FactorDanger  FactorType = "danger"
)

type HealthFactor struct {
	Type FactorType
	Text string
}

type HealthInput struct {
	Now        time.Time
	Tasks      []*domain.WorkItem
	RFIs       []*domain.WorkItem
	Submittals []*domain.WorkItem
	Milestones []*domain.WorkItem
}

type HealthResult struct {
	Score   int
	Status  domain.HealthStatus
	Factors []HealthFactor
}

// Penalty weights and per-category caps. Caps are independent, so the sum
// can exceed 100 and the final score is clamped.
const (
	lowCompletionPenalty = 15
	lowCompletionPercent = 50

	overdueTaskPenalty = 5
	overdueTaskCap     = 20

	overdueRFIPenalty = 7
	overdueRFICap     = 15
	openRFIPenalty    = 5
	openRFIThreshold  = 3

	overdueSubmittalPenalty = 5
	overdueSubmittalCap     = 15

	overdueMilestonePenalty = 10
	overdueMilestoneCap     = 15

	onTrackMin = 85
	atRiskMin  = 60
)

// ComputeHealth scores a project from 100 down using additive penalties.
func ComputeHealth(in HealthInput) HealthResult {
	score := 100
	var factors []HealthFactor

	total := len(in.Tasks)
	if total > 0 {
		completed := 0
		for _, t := range in.Tasks {
			if t.Status == domain.StatusCompleted {
				completed++
			}
		}
		if completed*100 < total*lowCompletionPercent {
			score -= lowCompletionPenalty
			factors = append(factors, HealthFactor{
				Type: FactorWarning,
				Text: fmt.Sprintf("Low task completion (%d%%)", completed*100/total),
			})
		}
	}

	if n := countOverdue(in.Tasks, domain.TaskTerminal, in.Now); n > 0 {
		score -= min(n*overdueTaskPenalty, overdueTaskCap)
		factors = append(factors, HealthFactor{Type: FactorDanger, Text: countLabel(n, "task", "tasks") + " overdue"})
	}

	if n := countOverdue(in.RFIs, domain.RFITerminal, in.Now); n > 0 {
		score -= min(n*overdueRFIPenalty, overdueRFICap)
		factors = append(factors, HealthFactor{Type: FactorDanger, Text: countLabel(n, "RFI", "RFIs") + " overdue"})
	} else if open := countOpen(in.RFIs, domain.RFITerminal); open > openRFIThreshold {
		score -= openRFIPenalty
		factors = append(factors, HealthFactor{Type: FactorWarning, Text: countLabel(open, "open RFI", "open RFIs")})
	}

	if n := countOverdue(in.Submittals, domain.SubmittalTerminal, in.Now); n > 0 {
		score -= min(n*overdueSubmittalPenalty, overdueSubmittalCap)
		factors = append(factors, HealthFactor{Type: FactorDanger, Text: countLabel(n, "submittal", "submittals") + " overdue"})
	}

	if n := countOverdue(in.Milestones, domain.MilestoneTerminal, in.Now); n > 0 {
		score -= min(n*overdueMilestonePenalty, overdueMilestoneCap)
		factors = append(factors, HealthFactor{Type: FactorDanger, Text: countLabel(n, "milestone", "milestones") + " overdue"})
	}

	score = max(0, min(100, score))

	if len(factors) == 0 {
		factors = append(factors, HealthFactor{Type: FactorSuccess, Text: "All items on track"})
	}

	return HealthResult{
		Score:   score,
		Status:  HealthBand(score),
		Factors: factors,
	}
}

// HealthBand maps a score onto On Track / At Risk / Critical.
func HealthBand(score int) domain.HealthStatus {
	switch {
	case score >= onTrackMin:
		return domain.HealthOnTrack
	case score >= atRiskMin:
		return domain.HealthAtRisk
	default:
		return domain.HealthCritical
	}
}

// HealthPriority returns a sort priority (lower = more urgent).
func HealthPriority(s domain.HealthStatus) int {
	switch s {
	case domain.HealthCritical:
		return 0
	case domain.HealthAtRisk:
		return 1
	default:
		return 2
	}
}

func countOverdue(items []*domain.WorkItem, terminal domain.StatusSet, now time.Time) int {
	n := 0
	for _, w := range items {
		if IsOverdue(w.DueDate, w.Status, terminal, now) {
			n++
		}
	}
	return n
}

func countOpen(items []*domain.WorkItem, terminal domain.StatusSet) int {
	n := 0
	for _, w := range items {
		if !terminal.Contains(w.Status) {
			n++
		}
	}
	return n
}

func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

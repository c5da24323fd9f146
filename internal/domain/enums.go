package domain

import "strings"

// ItemKind identifies which work-item table a row lives in.
type ItemKind string

const (
	KindTask      ItemKind = "task"
	KindRFI       ItemKind = "rfi"
	KindSubmittal ItemKind = "submittal"
	KindMilestone ItemKind = "milestone"
)

// ItemKinds lists every work-item kind in display order.
var ItemKinds = []ItemKind{KindTask, KindRFI, KindSubmittal, KindMilestone}

// ParseItemKind accepts singular or plural forms ("rfi", "rfis", "RFI").
func ParseItemKind(s string) (ItemKind, error) {
	k := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	switch ItemKind(k) {
	case KindTask, KindRFI, KindSubmittal, KindMilestone:
		return ItemKind(k), nil
	}
	return "", &ValidationError{Field: "kind", Message: "unknown item kind " + quote(s)}
}

// Label is the human-facing singular name of the kind.
func (k ItemKind) Label() string {
	switch k {
	case KindTask:
		return "Task"
	case KindRFI:
		return "RFI"
	case KindSubmittal:
		return "Submittal"
	case KindMilestone:
		return "Milestone"
	}
	return string(k)
}

// NumberPrefix is used when rendering an item's per-project number.
func (k ItemKind) NumberPrefix() string {
	switch k {
	case KindTask:
		return "T"
	case KindRFI:
		return "RFI"
	case KindSubmittal:
		return "SUB"
	case KindMilestone:
		return "MS"
	}
	return "?"
}

type WorkItemStatus string

const (
	StatusNotStarted       WorkItemStatus = "Not Started"
	StatusInProgress       WorkItemStatus = "In Progress"
	StatusAwaitingResponse WorkItemStatus = "Awaiting Response"
	StatusCompleted        WorkItemStatus = "Completed"
	StatusCancelled        WorkItemStatus = "Cancelled"

	StatusOpen     WorkItemStatus = "Open"
	StatusPending  WorkItemStatus = "Pending"
	StatusAnswered WorkItemStatus = "Answered"
	StatusClosed   WorkItemStatus = "Closed"

	StatusSubmitted         WorkItemStatus = "Submitted"
	StatusUnderReview       WorkItemStatus = "Under Review"
	StatusApproved          WorkItemStatus = "Approved"
	StatusApprovedAsNoted   WorkItemStatus = "Approved as Noted"
	StatusReviseAndResubmit WorkItemStatus = "Revise and Resubmit"
	StatusRejected          WorkItemStatus = "Rejected"

	// Legacy task statuses still found in older rows and clients.
	legacyOnHold  WorkItemStatus = "On Hold"
	legacyBlocked WorkItemStatus = "Blocked"
)

var kindStatuses = map[ItemKind][]WorkItemStatus{
	KindTask:      {StatusNotStarted, StatusInProgress, StatusAwaitingResponse, StatusCompleted, StatusCancelled},
	KindRFI:       {StatusOpen, StatusPending, StatusAnswered, StatusClosed},
	KindSubmittal: {StatusPending, StatusSubmitted, StatusUnderReview, StatusApproved, StatusApprovedAsNoted, StatusReviseAndResubmit, StatusRejected},
	KindMilestone: {StatusNotStarted, StatusInProgress, StatusCompleted},
}

// Terminal status sets. Callers pass the set that matches the item kind.
var (
	TaskTerminal      = NewStatusSet(StatusCompleted, StatusCancelled)
	RFITerminal       = NewStatusSet(StatusAnswered, StatusClosed)
	SubmittalTerminal = NewStatusSet(StatusApproved, StatusApprovedAsNoted)
	MilestoneTerminal = NewStatusSet(StatusCompleted)
)

// StatusesFor returns the canonical ordered enum for a kind.
func StatusesFor(kind ItemKind) []WorkItemStatus {
	return kindStatuses[kind]
}

// TerminalFor returns the terminal set for a kind.
func TerminalFor(kind ItemKind) StatusSet {
	switch kind {
	case KindTask:
		return TaskTerminal
	case KindRFI:
		return RFITerminal
	case KindSubmittal:
		return SubmittalTerminal
	case KindMilestone:
		return MilestoneTerminal
	}
	return StatusSet{}
}

// DefaultStatus is the status a freshly created item starts in.
func DefaultStatus(kind ItemKind) WorkItemStatus {
	if s := kindStatuses[kind]; len(s) > 0 {
		return s[0]
	}
	return ""
}

// NormalizeStatus maps legacy task statuses onto the canonical enum and
// matches case-insensitively. It returns a ValidationError when the value
// is not part of the kind's enum.
func NormalizeStatus(kind ItemKind, s WorkItemStatus) (WorkItemStatus, error) {
	if kind == KindTask && (strings.EqualFold(string(s), string(legacyOnHold)) || strings.EqualFold(string(s), string(legacyBlocked))) {
		return StatusAwaitingResponse, nil
	}
	for _, valid := range kindStatuses[kind] {
		if strings.EqualFold(string(valid), strings.TrimSpace(string(s))) {
			return valid, nil
		}
	}
	return "", &ValidationError{
		Field:   "status",
		Message: quote(string(s)) + " is not a valid " + kind.Label() + " status",
	}
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Rank orders priorities for sorting: Critical first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// ParsePriority matches case-insensitively; empty means Medium.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityMedium, nil
	}
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical} {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", &ValidationError{Field: "priority", Message: quote(s) + " is not a valid priority"}
}

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectCancelled ProjectStatus = "Cancelled"
)

var projectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled}

// ParseProjectStatus matches case-insensitively; empty means Planning.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	if strings.TrimSpace(s) == "" {
		return ProjectPlanning, nil
	}
	for _, ps := range projectStatuses {
		if strings.EqualFold(string(ps), strings.TrimSpace(s)) {
			return ps, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: quote(s) + " is not a valid project status"}
}

// HealthStatus is the band a project's health score falls into.
type HealthStatus string

const (
	HealthOnTrack  HealthStatus = "On Track"
	HealthAtRisk   HealthStatus = "At Risk"
	HealthCritical HealthStatus = "Critical"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities: critical before warning before info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

type ModuleStatus string

const (
	ModuleDesign       ModuleStatus = "Design"
	ModuleInProduction ModuleStatus = "In Production"
	ModuleQCHold       ModuleStatus = "QC Hold"
	ModuleComplete     ModuleStatus = "Complete"
	ModuleShipped      ModuleStatus = "Shipped"
	ModuleSet          ModuleStatus = "Set"
)

// ModuleStatuses is the production order of a building module.
var ModuleStatuses = []ModuleStatus{ModuleDesign, ModuleInProduction, ModuleQCHold, ModuleComplete, ModuleShipped, ModuleSet}

// ParseModuleStatus matches case-insensitively; empty means Design.
func ParseModuleStatus(s string) (ModuleStatus, error) {
	if strings.TrimSpace(s) == "" {
		return ModuleDesign, nil
	}
	for _, ms := range ModuleStatuses {
		if strings.EqualFold(string(ms), strings.TrimSpace(s)) {
			return ms, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: quote(s) + " is not a valid module status"}
}

type QCResult string

const (
	QCPass        QCResult = "Pass"
	QCFail        QCResult = "Fail"
	QCConditional QCResult = "Conditional"
)

// ParseQCResult matches case-insensitively.
func ParseQCResult(s string) (QCResult, error) {
	for _, r := range []QCResult{QCPass, QCFail, QCConditional} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", &ValidationError{Field: "result", Message: quote(s) + " is not a valid QC result"}
}

func quote(s string) string {
	return `"` + s + `"`
}

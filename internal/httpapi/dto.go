package httpapi

import (
	"time"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

type projectDTO struct {
	ID                string    `json:"id"`
	Number            string    `json:"number"`
	Name              string    `json:"name"`
	Client            string    `json:"client,omitempty"`
	Factory           string    `json:"factory,omitempty"`
	Address           string    `json:"address,omitempty"`
	Status            string    `json:"status"`
	StartDate         *string   `json:"start_date"`
	TargetOfflineDate *string   `json:"target_offline_date"`
	DeliveryDate      *string   `json:"delivery_date"`
	TargetOnlineDate  *string   `json:"target_online_date"`
	ContractValue     string    `json:"contract_value"`
	ModuleCount       int       `json:"module_count"`
	ProjectManagerID  string    `json:"project_manager_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toProjectDTO(p *domain.Project) projectDTO {
	return projectDTO{
		ID:                p.ID,
		Number:            p.Number,
		Name:              p.Name,
		Client:            p.Client,
		Factory:           p.Factory,
		Address:           p.Address,
		Status:            string(p.Status),
		StartDate:         dateString(p.StartDate),
		TargetOfflineDate: dateString(p.TargetOfflineDate),
		DeliveryDate:      dateString(p.DeliveryDate),
		TargetOnlineDate:  dateString(p.TargetOnlineDate),
		ContractValue:     p.ContractValue.StringFixed(2),
		ModuleCount:       p.ModuleCount,
		ProjectManagerID:  p.ProjectManagerID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

type itemDTO struct {
	ID               string     `json:"id"`
	Kind             string     `json:"kind"`
	ProjectID        string     `json:"project_id"`
	Number           int        `json:"number"`
	DisplayNumber    string     `json:"display_number"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	DueDate          *string    `json:"due_date"`
	AssigneeID       string     `json:"assignee_id,omitempty"`
	Question         string     `json:"question,omitempty"`
	Answer           string     `json:"answer,omitempty"`
	SpecSection      string     `json:"spec_section,omitempty"`
	Revision         int        `json:"revision,omitempty"`
	RecipientKind    string     `json:"recipient_kind,omitempty"`
	RecipientEmail   string     `json:"recipient_email,omitempty"`
	RecipientName    string     `json:"recipient_name,omitempty"`
	RecipientOwnerID string     `json:"recipient_owner_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

func toItemDTO(w *domain.WorkItem) itemDTO {
	r := domain.Flatten(w.Recipient)
	return itemDTO{
		ID:               w.ID,
		Kind:             string(w.Kind),
		ProjectID:        w.ProjectID,
		Number:           w.Number,
		DisplayNumber:    w.DisplayNumber(),
		Title:            w.Title,
		Description:      w.Description,
		Status:           string(w.Status),
		Priority:         string(w.Priority),
		DueDate:          dateString(w.DueDate),
		AssigneeID:       w.AssigneeID,
		Question:         w.Question,
		Answer:           w.Answer,
		SpecSection:      w.SpecSection,
		Revision:         w.Revision,
		RecipientKind:    r.Kind,
		RecipientEmail:   r.Email,
		RecipientName:    r.Name,
		RecipientOwnerID: r.OwnerID,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
		CompletedAt:      w.CompletedAt,
	}
}

func toItemDTOs(items []*domain.WorkItem) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, w := range items {
		out = append(out, toItemDTO(w))
	}
	return out
}

type attachmentDTO struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	ItemKind   string    `json:"item_kind,omitempty"`
	ItemID     string    `json:"item_id,omitempty"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAttachmentDTOs(as []*domain.Attachment) []attachmentDTO {
	out := make([]attachmentDTO, 0, len(as))
	for _, a := range as {
		out = append(out, attachmentDTO{
			ID:         a.ID,
			ProjectID:  a.ProjectID,
			ItemKind:   string(a.Target.Kind),
			ItemID:     a.Target.ID,
			FileName:   a.FileName,
			URL:        a.PublicURL,
			FileSize:   a.FileSize,
			FileType:   a.FileType,
			UploadedBy: a.UploadedBy,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}

type uploadResultDTO struct {
	Created []attachmentDTO    `json:"created"`
	Failed  []app.FailedUpload `json:"failed"`
}

func toUploadResultDTO(r app.UploadResult) uploadResultDTO {
	failed := r.Failed
	if failed == nil {
		failed = []app.FailedUpload{}
	}
	return uploadResultDTO{Created: toAttachmentDTOs(r.Created), Failed: failed}
}

type floorPlanDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Level     string    `json:"level,omitempty"`
	URL       string    `json:"url"`
	FileType  string    `json:"file_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toFloorPlanDTO(f *domain.FloorPlan) floorPlanDTO {
	return floorPlanDTO{
		ID:        f.ID,
		ProjectID: f.ProjectID,
		Name:      f.Name,
		Level:     f.Level,
		URL:       f.PublicURL,
		FileType:  f.FileType,
		IsActive:  f.IsActive,
		CreatedAt: f.CreatedAt,
	}
}

type markerDTO struct {
	ID          string  `json:"id"`
	FloorPlanID string  `json:"floor_plan_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Label       string  `json:"label,omitempty"`
	ItemKind    string  `json:"item_kind,omitempty"`
	ItemID      string  `json:"item_id,omitempty"`
}

func toMarkerDTO(m *domain.Marker) markerDTO {
	return markerDTO{
		ID:          m.ID,
		FloorPlanID: m.FloorPlanID,
		X:           m.X,
		Y:           m.Y,
		Label:       m.Label,
		ItemKind:    string(m.ItemKind),
		ItemID:      m.ItemID,
	}
}

type moduleDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Tag       string    `json:"tag"`
	Type      string    `json:"type,omitempty"`
	Status    string    `json:"status"`
	Station   string    `json:"station,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toModuleDTO(m *domain.Module) moduleDTO {
	return moduleDTO{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Tag:       m.Tag,
		Type:      m.Type,
		Status:    string(m.Status),
		Station:   m.Station,
		UpdatedAt: m.UpdatedAt,
	}
}

type qcDTO struct {
	ID          string    `json:"id"`
	ModuleID    string    `json:"module_id"`
	Inspection  string    `json:"inspection"`
	Result      string    `json:"result"`
	Inspector   string    `json:"inspector,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	InspectedAt time.Time `json:"inspected_at"`
}

func toQCDTO(r *domain.QCRecord) qcDTO {
	return qcDTO{
		ID:          r.ID,
		ModuleID:    r.ModuleID,
		Inspection:  r.Inspection,
		Result:      string(r.Result),
		Inspector:   r.Inspector,
		Notes:       r.Notes,
		InspectedAt: r.InspectedAt,
	}
}

type healthDTO struct {
	Score   int            `json:"score"`
	Status  string         `json:"status"`
	Factors []healthFactor `json:"factors"`
}

type healthFactor struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func toHealthDTO(h insight.HealthResult) healthDTO {
	factors := make([]healthFactor, 0, len(h.Factors))
	for _, f := range h.Factors {
		factors = append(factors, healthFactor{Type: string(f.Type), Text: f.Text})
	}
	return healthDTO{Score: h.Score, Status: string(h.Status), Factors: factors}
}

type attentionDTO struct {
	Type     string `json:"type"`
	ItemID   string `json:"item_id"`
	Number   string `json:"number"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func toAttentionDTOs(items []insight.AttentionItem) []attentionDTO {
	out := make([]attentionDTO, 0, len(items))
	for _, a := range items {
		out = append(out, attentionDTO{
			Type:     string(a.Type),
			ItemID:   a.ItemID,
			Number:   a.Number,
			Title:    a.Title,
			Message:  a.Message,
			Severity: string(a.Severity),
		})
	}
	return out
}

type dashboardDTO struct {
	Project   projectDTO                `json:"project"`
	Health    healthDTO                 `json:"health"`
	Attention []attentionDTO            `json:"attention"`
	Counts    map[string]app.ItemCounts `json:"counts"`
	Modules   map[string]int            `json:"modules"`
	Upcoming  []itemDTO                 `json:"upcoming"`
}

func toDashboardDTO(d *app.ProjectDashboard) dashboardDTO {
	counts := make(map[string]app.ItemCounts, len(d.Counts))
	for k, c := range d.Counts {
		counts[string(k)] = c
	}
	modules := make(map[string]int, len(d.Modules))
	for s, n := range d.Modules {
		modules[string(s)] = n
	}
	return dashboardDTO{
		Project:   toProjectDTO(d.Project),
		Health:    toHealthDTO(d.Health),
		Attention: toAttentionDTOs(d.Attention),
		Counts:    counts,
		Modules:   modules,
		Upcoming:  toItemDTOs(d.Upcoming),
	}
}

type calendarItemDTO struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Color  string `json:"color"`
	Status string `json:"status,omitempty"`
}

type calendarDTO struct {
	View  string                       `json:"view"`
	From  string                       `json:"from"`
	To    string                       `json:"to"`
	Days  []string                     `json:"days"`
	Items map[string][]calendarItemDTO `json:"items"`
}

func toCalendarDTO(r *app.CalendarResponse) calendarDTO {
	days := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, insight.DateKey(d))
	}
	items := make(map[string][]calendarItemDTO, len(r.Buckets))
	for key, bucket := range r.Buckets {
		out := make([]calendarItemDTO, 0, len(bucket))
		for _, ci := range bucket {
			out = append(out, calendarItemDTO{
				ID:     ci.ID,
				Type:   ci.Type,
				Title:  ci.Title,
				Date:   ci.Date,
				Color:  ci.Color,
				Status: ci.Status,
			})
		}
		items[key] = out
	}
	return calendarDTO{
		View:  string(r.View),
		From:  insight.DateKey(r.From),
		To:    insight.DateKey(r.To),
		Days:  days,
		Items: items,
	}
}

type portfolioEntryDTO struct {
	Project      projectDTO `json:"project"`
	Health       healthDTO  `json:"health"`
	OpenRFIs     int        `json:"open_rfis"`
	OverdueItems int        `json:"overdue_items"`
}

type portfolioDTO struct {
	Entries []portfolioEntryDTO `json:"entries"`
	Counts  map[string]int      `json:"counts"`
}

func toPortfolioDTO(p *app.Portfolio) portfolioDTO {
	entries := make([]portfolioEntryDTO, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, portfolioEntryDTO{
			Project:      toProjectDTO(e.Project),
			Health:       toHealthDTO(e.Health),
			OpenRFIs:     e.OpenRFIs,
			OverdueItems: e.OverdueItems,
		})
	}
	counts := make(map[string]int, len(p.Counts))
	for s, n := range p.Counts {
		counts[string(s)] = n
	}
	return portfolioDTO{Entries: entries, Counts: counts}
}

type myWorkEntryDTO struct {
	Item          itemDTO `json:"item"`
	ProjectNumber string  `json:"project_number"`
	ProjectName   string  `json:"project_name"`
	Overdue       bool    `json:"overdue"`
	DaysUntil     *int    `json:"days_until"`
}

type myWorkDTO struct {
	AssigneeID string           `json:"assignee_id"`
	Entries    []myWorkEntryDTO `json:"entries"`
}

func toMyWorkDTO(m *app.MyWork) myWorkDTO {
	entries := make([]myWorkEntryDTO, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, myWorkEntryDTO{
			Item:          toItemDTO(e.Item),
			ProjectNumber: e.ProjectNumber,
			ProjectName:   e.ProjectName,
			Overdue:       e.Overdue,
			DaysUntil:     e.DaysUntil,
		})
	}
	return myWorkDTO{AssigneeID: m.AssigneeID, Entries: entries}
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := insight.DateKey(*t)
	return &s
}

// parseDate turns an optional YYYY-MM-DD value into a date. An empty string
// clears the date.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := insight.ParseDateKey(*s)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Message: "must be a date like 2006-01-02"}
	}
	return &t, nil
}

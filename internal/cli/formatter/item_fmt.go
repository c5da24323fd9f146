package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

// FormatItemList renders work items of any kind as a table.
func FormatItemList(items []*domain.WorkItem, now time.Time) string {
	if len(items) == 0 {
		return Dim("No items.")
	}
	headers := []string{"NUMBER", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "DUE"}
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		rows = append(rows, []string{
			KindStyle(w.Kind).Render(w.DisplayNumber()),
			w.Title,
			ItemStatusPill(w),
			PriorityBadge(w.Priority),
			orDash(w.AssigneeID),
			DueLabel(w, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatItemDetail renders one item with its kind-specific fields and any
// attachments.
func FormatItemDetail(w *domain.WorkItem, attachments []*domain.Attachment, now time.Time) string {
	var b strings.Builder
	b.WriteString(KindStyle(w.Kind).Render(w.DisplayNumber()) + "  " + StyleBold.Render(w.Title) + "\n\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("%-10s", label)), value)
	}
	field("STATUS", ItemStatusPill(w))
	field("PRIORITY", PriorityBadge(w.Priority))
	field("DUE", DueLabel(w, now))
	field("ASSIGNEE", orDash(w.AssigneeID))
	if w.Kind == domain.KindSubmittal {
		field("SPEC", orDash(w.SpecSection))
		field("REVISION", fmt.Sprintf("%d", w.Revision))
	}
	if w.Recipient != nil {
		field("TO", recipientLabel(w.Recipient))
	}
	field("UPDATED", insight.RelativeTime(w.UpdatedAt, now))
	if w.CompletedAt != nil {
		field("COMPLETED", insight.ShortDate(*w.CompletedAt))
	}

	if w.Description != "" {
		b.WriteString("\n" + w.Description + "\n")
	}
	if w.Kind == domain.KindRFI {
		b.WriteString("\n" + Header("Question") + "\n" + orDash(w.Question) + "\n")
		b.WriteString("\n" + Header("Answer") + "\n" + orDash(w.Answer) + "\n")
	}
	if len(attachments) > 0 {
		b.WriteString("\n" + Header("Attachments") + "\n" + FormatAttachmentList(attachments))
	}
	return RenderBox(w.Kind.Label(), b.String())
}

func recipientLabel(r domain.Recipient) string {
	switch v := r.(type) {
	case domain.ExternalRecipient:
		if v.Name != "" {
			return fmt.Sprintf("%s <%s>", v.Name, v.Email)
		}
		return v.Email
	case domain.InternalRecipient:
		return v.OwnerID + Dim(" (internal)")
	}
	return Dim("--")
}

func FormatAttachmentList(attachments []*domain.Attachment) string {
	headers := []string{"FILE", "TYPE", "SIZE", "URL"}
	rows := make([][]string, 0, len(attachments))
	for _, a := range attachments {
		rows = append(rows, []string{a.FileName, Dim(a.FileType), HumanSize(a.FileSize), Dim(a.PublicURL)})
	}
	return RenderTable(headers, rows)
}

// FormatUploadResult reports stored and failed files of a multi-upload.
func FormatUploadResult(r app.UploadResult) string {
	var b strings.Builder
	for _, a := range r.Created {
		fmt.Fprintf(&b, "%s %s %s\n", StyleGreen.Render("✔"), a.FileName, Dim(HumanSize(a.FileSize)))
	}
	for _, f := range r.Failed {
		fmt.Fprintf(&b, "%s %s %s\n", StyleRed.Render("✖"), f.Name, Dim(f.Reason))
	}
	fmt.Fprintf(&b, "%d uploaded, %d failed", len(r.Created), len(r.Failed))
	return b.String()
}

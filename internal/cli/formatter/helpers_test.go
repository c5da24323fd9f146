package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/modline/modtrack/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var fmtNow = time.Date(2026, 1, 14, 15, 30, 0, 0, time.UTC)

func day(offset int) *time.Time {
	d := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

func TestDueLabel(t *testing.T) {
	tests := []struct {
		name string
		item *domain.WorkItem
		want string
	}{
		{"undated", &domain.WorkItem{Kind: domain.KindTask, Status: domain.StatusNotStarted}, "--"},
		{"overdue", &domain.WorkItem{Kind: domain.KindTask, Status: domain.StatusInProgress, DueDate: day(-3)}, "Jan 11, 2026 (3d late)"},
		{"today", &domain.WorkItem{Kind: domain.KindTask, Status: domain.StatusInProgress, DueDate: day(0)}, "Jan 14, 2026 (today)"},
		{"soon", &domain.WorkItem{Kind: domain.KindRFI, Status: domain.StatusOpen, DueDate: day(2)}, "Jan 16, 2026 (in 2d)"},
		{"later", &domain.WorkItem{Kind: domain.KindRFI, Status: domain.StatusOpen, DueDate: day(10)}, "Jan 24, 2026"},
		{"done and past", &domain.WorkItem{Kind: domain.KindTask, Status: domain.StatusCompleted, DueDate: day(-3)}, "Jan 11, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(DueLabel(tt.item, fmtNow)))
		})
	}
}

func TestItemStatusPill(t *testing.T) {
	done := &domain.WorkItem{Kind: domain.KindSubmittal, Status: domain.StatusApprovedAsNoted}
	assert.Equal(t, "✔ Approved as Noted", stripANSI(ItemStatusPill(done)))

	bounced := &domain.WorkItem{Kind: domain.KindSubmittal, Status: domain.StatusReviseAndResubmit}
	assert.Equal(t, "✖ Revise and Resubmit", stripANSI(ItemStatusPill(bounced)))

	fresh := &domain.WorkItem{Kind: domain.KindRFI, Status: domain.StatusOpen}
	assert.Equal(t, "○ Open", stripANSI(ItemStatusPill(fresh)))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "2.0 KB", HumanSize(2048))
	assert.Equal(t, "1.5 MB", HumanSize(3<<19))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{StyleRed.Render("long cell"), "x"}, {"s", "y"}}))
	assert.Contains(t, out, "long cell  x")
	assert.Contains(t, out, "s          y")
	assert.Empty(t, RenderTable(nil, nil))
}

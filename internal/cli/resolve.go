package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
)

// resolveProject accepts a project id or job number.
func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("project is required")
	}
	return app.Projects.Resolve(ctx, ref)
}

// resolveItem finds an item of kind on project by display number
// ("RFI-012", "12") or by id.
func resolveItem(ctx context.Context, app *App, p *domain.Project, kind domain.ItemKind, ref string) (*domain.WorkItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("item is required")
	}
	items, err := app.WorkItems.List(ctx, p.ID, kind, insight.ItemFilter{}, "")
	if err != nil {
		return nil, err
	}
	for _, w := range items {
		if w.ID == ref || strings.EqualFold(w.DisplayNumber(), ref) || fmt.Sprint(w.Number) == strings.TrimLeft(ref, "0") {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%s %s on %s: %w", kind.Label(), ref, p.Number, domain.ErrNotFound)
}

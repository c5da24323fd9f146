package cli

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/modline/modtrack/internal/config"
	"github.com/modline/modtrack/internal/httpapi"
	"github.com/modline/modtrack/internal/service"
	"github.com/modline/modtrack/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds the services and settings every command works against.
type App struct {
	Projects    service.ProjectService
	WorkItems   service.WorkItemService
	Attachments service.AttachmentService
	FloorPlans  service.FloorPlanService
	Modules     service.ModuleService
	QC          service.QCService
	Dashboard   service.DashboardService

	// Store is where uploaded files live. Only serve touches it directly.
	Store  storage.ObjectStore
	Config *config.Config
	Logger *zap.Logger

	// IsInteractive reports whether both stdin and stdout are terminals.
	// Forms and TUIs only run when it returns true.
	IsInteractive func() bool
	// Now is the clock for derived views. Nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// TerminalCheck builds an IsInteractive func for the given streams. Output
// piped to a file or pager makes the session non-interactive even when
// input comes from a terminal.
func TerminalCheck(in, out *os.File) func() bool {
	return func() bool {
		return isTerminal(in) && isTerminal(out)
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (a *App) services() httpapi.Services {
	return httpapi.Services{
		Projects:    a.Projects,
		WorkItems:   a.WorkItems,
		Attachments: a.Attachments,
		FloorPlans:  a.FloorPlans,
		Modules:     a.Modules,
		QC:          a.QC,
		Dashboard:   a.Dashboard,
	}
}

// NewRootCmd creates the top-level "modtrack" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "modtrack",
		Short:         "Project tracking for modular construction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newProjectCmd(app),
		newItemCmd(app),
		newAttachCmd(app),
		newHealthCmd(app),
		newAttentionCmd(app),
		newCalendarCmd(app),
		newPortfolioCmd(app),
		newMyWorkCmd(app),
		newModuleCmd(app),
		newQCCmd(app),
		newBoardCmd(app),
		newDashCmd(app),
	)

	return root
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cli

import (
	"fmt"
	"strings"

	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/modline/modtrack/internal/domain"
	"github.com/spf13/cobra"
)

func newModuleCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "module",
		Aliases: []string{"modules", "m"},
		Short:   "Track factory-built modules",
	}
	cmd.AddCommand(newModuleAddCmd(a), newModuleListCmd(a), newModuleStatusCmd(a))
	return cmd
}

func newModuleAddCmd(a *App) *cobra.Command {
	var typ, status, station string

	cmd := &cobra.Command{
		Use:   "add <project> <tag>...",
		Short: "Add one or more modules",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			for _, tag := range args[1:] {
				m := &domain.Module{
					ProjectID: p.ID,
					Tag:       tag,
					Type:      typ,
					Status:    domain.ModuleStatus(status),
					Station:   station,
				}
				if err := a.Modules.Create(ctx, m); err != nil {
					return fmt.Errorf("adding module %s: %w", tag, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added module %s (%s)\n", m.Tag, m.Status)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&typ, "type", "", "Module type, e.g. Box or Corridor")
	f.StringVar(&status, "status", "", "Initial status (default Design)")
	f.StringVar(&station, "station", "", "Factory station")

	return cmd
}

func newModuleListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List modules with production progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			mods, err := a.Modules.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			progress, err := a.Modules.Progress(ctx, p.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatModuleList(mods))
			if len(mods) > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.FormatModuleProgress(progress))
			}
			return nil
		},
	}
}

func newModuleStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project> <tag> <status>",
		Short: "Move a module to another production stage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			m, err := resolveModule(cmd, a, args[0], args[1])
			if err != nil {
				return err
			}
			updated, err := a.Modules.UpdateStatus(ctx, m.ID, domain.ModuleStatus(args[2]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module %s is now %s\n", updated.Tag, updated.Status)
			return nil
		},
	}
}

func newQCCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Record and review module inspections",
	}
	cmd.AddCommand(newQCRecordCmd(a), newQCListCmd(a))
	return cmd
}

func newQCRecordCmd(a *App) *cobra.Command {
	var inspector, notes, date string

	cmd := &cobra.Command{
		Use:   "record <project> <tag> <inspection> <pass|fail|conditional>",
		Short: "Record an inspection result; a fail puts the module on QC hold",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			m, err := resolveModule(cmd, a, args[0], args[1])
			if err != nil {
				return err
			}
			r := &domain.QCRecord{
				ModuleID:   m.ID,
				Inspection: args[2],
				Result:     domain.QCResult(args[3]),
				Inspector:  inspector,
				Notes:      notes,
			}
			at, err := parseOptionalDate(date)
			if err != nil {
				return err
			}
			if at != nil {
				r.InspectedAt = *at
			}
			if err := a.QC.Record(ctx, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s on %s\n", r.Inspection, r.Result, m.Tag)
			if r.Result == domain.QCFail {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleRed.Render("Module "+m.Tag+" is on QC hold"))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&inspector, "inspector", "", "Inspector name")
	f.StringVar(&notes, "notes", "", "Notes")
	f.StringVar(&date, "date", "", "Inspection date (YYYY-MM-DD, default today)")

	return cmd
}

func newQCListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project> [tag]",
		Short: "List inspections for a project or one module",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			var records []*domain.QCRecord
			if len(args) == 2 {
				m, err := resolveModule(cmd, a, args[0], args[1])
				if err != nil {
					return err
				}
				if records, err = a.QC.ListByModule(ctx, m.ID); err != nil {
					return err
				}
			} else {
				p, err := resolveProject(ctx, a, args[0])
				if err != nil {
					return err
				}
				if records, err = a.QC.ListByProject(ctx, p.ID); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatQCList(records))
			return nil
		},
	}
}

// resolveModule finds a module on project by tag (case-insensitive) or id.
func resolveModule(cmd *cobra.Command, a *App, projectRef, ref string) (*domain.Module, error) {
	ctx := cmdContext(cmd)
	p, err := resolveProject(ctx, a, projectRef)
	if err != nil {
		return nil, err
	}
	mods, err := a.Modules.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range mods {
		if m.ID == ref || strings.EqualFold(m.Tag, strings.TrimSpace(ref)) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("module %s on %s: %w", ref, p.Number, domain.ErrNotFound)
}

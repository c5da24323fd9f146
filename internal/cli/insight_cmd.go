package cli

import (
	"fmt"
	"strings"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health <project>",
		Short: "Show a project's health score and the factors behind it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			dash, err := a.Dashboard.GetProjectDashboard(ctx, p.ID, a.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(p.Number+" health", formatter.FormatHealth(dash.Health)))
			return nil
		},
	}
}

func newAttentionCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "attention <project>",
		Short: "List the overdue and due-soon items that need attention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			dash, err := a.Dashboard.GetProjectDashboard(ctx, p.ID, a.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAttention(dash.Attention))
			return nil
		},
	}
}

func newCalendarCmd(a *App) *cobra.Command {
	var (
		month    bool
		weekends bool
		date     string
	)

	cmd := &cobra.Command{
		Use:   "calendar [project]",
		Short: "Show due dates and schedule dates for a week or month",
		Long:  "Show the calendar of one project, or of every project that is not cancelled when none is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			now := a.now()
			req := app.CalendarRequest{
				View:            app.CalendarWeek,
				Ref:             now,
				IncludeWeekends: weekends,
				Now:             now,
			}
			if month {
				req.View = app.CalendarMonth
			}
			if len(args) == 1 {
				p, err := resolveProject(ctx, a, args[0])
				if err != nil {
					return err
				}
				req.ProjectID = p.ID
			}
			if strings.TrimSpace(date) != "" {
				ref, err := parseOptionalDate(date)
				if err != nil {
					return err
				}
				req.Ref = *ref
			}

			resp, err := a.Dashboard.GetCalendar(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCalendar(resp, now))
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&month, "month", false, "Show the whole month instead of the work week")
	f.BoolVar(&weekends, "weekends", false, "Include Saturday and Sunday in the week view")
	f.StringVar(&date, "date", "", "Any day inside the week or month to show (YYYY-MM-DD)")

	return cmd
}

func newPortfolioCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Rank every open project by health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Dashboard.GetPortfolio(cmdContext(cmd), a.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPortfolio(p))
			return nil
		},
	}
}

func newMyWorkCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "my-work <assignee>",
		Short: "List open items assigned to someone across all projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.Dashboard.GetMyWork(cmdContext(cmd), args[0], a.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMyWork(m, a.now()))
			return nil
		},
	}
}

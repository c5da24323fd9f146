package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/modline/modtrack/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectCancelCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var v projectFormValues

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Long:  "Create a project. Without --number and --name on a terminal, a form asks for the details.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.Number == "" && v.Name == "" {
				if !app.interactive() {
					return fmt.Errorf("--number and --name are required")
				}
				var factories []string
				if app.Config != nil {
					factories = app.Config.Factories
				}
				if err := projectForm(&v, factories).Run(); err != nil {
					return err
				}
			}

			p, err := v.project()
			if err != nil {
				return err
			}
			if err := app.Projects.Create(cmdContext(cmd), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", p.Number, formatter.Bold(p.Name))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&v.Number, "number", "", "Job number, e.g. MB-2041")
	f.StringVar(&v.Name, "name", "", "Project name")
	f.StringVar(&v.Client, "client", "", "Client")
	f.StringVar(&v.Factory, "factory", "", "Factory building the modules")
	f.StringVar(&v.Address, "address", "", "Site address")
	f.StringVar(&v.Status, "status", "", "Planning, Active or On Hold")
	f.StringVar(&v.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&v.OfflineDate, "offline", "", "Target offline date (YYYY-MM-DD)")
	f.StringVar(&v.DeliveryDate, "delivery", "", "Delivery date (YYYY-MM-DD)")
	f.StringVar(&v.OnlineDate, "online", "", "Target online date (YYYY-MM-DD)")
	f.StringVar(&v.ContractValue, "contract", "", "Contract value")
	f.StringVar(&v.ModuleCount, "modules", "", "Number of modules")

	return cmd
}

// project converts the form values. Services do the domain validation.
func (v projectFormValues) project() (*domain.Project, error) {
	p := &domain.Project{
		Number:  v.Number,
		Name:    v.Name,
		Client:  v.Client,
		Factory: v.Factory,
		Address: v.Address,
		Status:  domain.ProjectStatus(v.Status),
	}
	var err error
	if p.ContractValue, err = parseMoney(v.ContractValue); err != nil {
		return nil, err
	}
	if v.ModuleCount != "" {
		if p.ModuleCount, err = strconv.Atoi(v.ModuleCount); err != nil {
			return nil, fmt.Errorf("invalid module count %q", v.ModuleCount)
		}
	}
	dates := []struct {
		in  string
		dst **time.Time
	}{
		{v.StartDate, &p.StartDate},
		{v.OfflineDate, &p.TargetOfflineDate},
		{v.DeliveryDate, &p.DeliveryDate},
		{v.OnlineDate, &p.TargetOnlineDate},
	}
	for _, d := range dates {
		if *d.dst, err = parseOptionalDate(d.in); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newProjectListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.ProjectStatus
			if status != "" {
				s, err := domain.ParseProjectStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}
			projects, err := app.Projects.List(cmdContext(cmd), filter)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only projects in this status")
	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <project>",
		Aliases: []string{"inspect"},
		Short:   "Show a project with its health and attention list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			dash, err := app.Dashboard.GetProjectDashboard(ctx, p.ID, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(dash, app.now()))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var v projectFormValues

	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			f := cmd.Flags()
			setIfChanged(f, "number", &p.Number, v.Number)
			setIfChanged(f, "name", &p.Name, v.Name)
			setIfChanged(f, "client", &p.Client, v.Client)
			setIfChanged(f, "factory", &p.Factory, v.Factory)
			setIfChanged(f, "address", &p.Address, v.Address)
			if f.Changed("status") {
				p.Status = domain.ProjectStatus(v.Status)
			}
			if f.Changed("contract") {
				if p.ContractValue, err = parseMoney(v.ContractValue); err != nil {
					return err
				}
			}
			if f.Changed("modules") {
				if p.ModuleCount, err = strconv.Atoi(v.ModuleCount); err != nil {
					return fmt.Errorf("invalid module count %q", v.ModuleCount)
				}
			}
			dates := []struct {
				flag string
				in   string
				dst  **time.Time
			}{
				{"start", v.StartDate, &p.StartDate},
				{"offline", v.OfflineDate, &p.TargetOfflineDate},
				{"delivery", v.DeliveryDate, &p.DeliveryDate},
				{"online", v.OnlineDate, &p.TargetOnlineDate},
			}
			for _, d := range dates {
				if !f.Changed(d.flag) {
					continue
				}
				if *d.dst, err = parseOptionalDate(d.in); err != nil {
					return err
				}
			}

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", p.Number)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&v.Number, "number", "", "Job number")
	f.StringVar(&v.Name, "name", "", "Project name")
	f.StringVar(&v.Client, "client", "", "Client")
	f.StringVar(&v.Factory, "factory", "", "Factory")
	f.StringVar(&v.Address, "address", "", "Site address")
	f.StringVar(&v.Status, "status", "", "Project status")
	f.StringVar(&v.StartDate, "start", "", "Start date (YYYY-MM-DD, empty clears)")
	f.StringVar(&v.OfflineDate, "offline", "", "Target offline date")
	f.StringVar(&v.DeliveryDate, "delivery", "", "Delivery date")
	f.StringVar(&v.OnlineDate, "online", "", "Target online date")
	f.StringVar(&v.ContractValue, "contract", "", "Contract value")
	f.StringVar(&v.ModuleCount, "modules", "", "Number of modules")

	return cmd
}

func newProjectCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "cancel <project>",
		Aliases: []string{"rm"},
		Short:   "Cancel a project (projects are never deleted)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Cancel(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled project %s\n", p.Number)
			return nil
		},
	}
}

// setIfChanged copies v into dst only when the flag was given, so an
// explicit empty value clears the field.
func setIfChanged(f *pflag.FlagSet, name string, dst *string, v string) {
	if f.Changed(name) {
		*dst = v
	}
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modline/modtrack/internal/app"
	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/modline/modtrack/internal/domain"
	"github.com/modline/modtrack/internal/insight"
	"github.com/spf13/cobra"
)

func newItemCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items", "i"},
		Short:   "Manage tasks, RFIs, submittals and milestones",
	}

	cmd.AddCommand(
		newItemAddCmd(a),
		newItemListCmd(a),
		newItemShowCmd(a),
		newItemStatusCmd(a),
		newItemRemoveCmd(a),
	)

	return cmd
}

// kindFlag registers --kind on cmd and returns a parser for it.
func kindFlag(cmd *cobra.Command) func() (domain.ItemKind, error) {
	var kind string
	cmd.Flags().StringVarP(&kind, "kind", "k", "task", "task, rfi, submittal or milestone")
	return func() (domain.ItemKind, error) {
		return domain.ParseItemKind(kind)
	}
}

func newItemAddCmd(a *App) *cobra.Command {
	var (
		v          itemFormValues
		status     string
		answer     string
		ownerID    string
		files      []string
		uploadedBy string
	)

	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Create a work item, optionally with attached files",
		Args:  cobra.ExactArgs(1),
	}
	parseKind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		kind, err := parseKind()
		if err != nil {
			return err
		}
		p, err := resolveProject(ctx, a, args[0])
		if err != nil {
			return err
		}
		if v.Title == "" {
			if !a.interactive() {
				return fmt.Errorf("--title is required")
			}
			if err := itemForm(kind, &v).Run(); err != nil {
				return err
			}
		}

		w := &domain.WorkItem{
			Kind:        kind,
			ProjectID:   p.ID,
			Title:       v.Title,
			Description: v.Description,
			Status:      domain.WorkItemStatus(status),
			Priority:    domain.Priority(v.Priority),
			AssigneeID:  v.AssigneeID,
			Question:    v.Question,
			Answer:      answer,
			SpecSection: v.SpecSection,
		}
		if w.DueDate, err = parseOptionalDate(v.DueDate); err != nil {
			return err
		}
		switch {
		case v.RecipientEmail != "":
			w.Recipient = domain.ExternalRecipient{Email: strings.TrimSpace(v.RecipientEmail), Name: strings.TrimSpace(v.RecipientName)}
		case ownerID != "":
			w.Recipient = domain.InternalRecipient{OwnerID: strings.TrimSpace(ownerID)}
		}

		uploads, closeFiles, err := openFiles(files)
		if err != nil {
			return err
		}
		defer closeFiles()

		result, err := a.WorkItems.CreateWithAttachments(ctx, w, uploads, uploadedBy)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s %s on %s\n", kind.Label(), result.Item.DisplayNumber(), p.Number)
		if len(files) > 0 {
			fmt.Fprintln(out, formatter.FormatUploadResult(result.Uploads))
		}
		return nil
	}

	f := cmd.Flags()
	f.StringVar(&v.Title, "title", "", "Title")
	f.StringVar(&v.Description, "description", "", "Description")
	f.StringVar(&status, "status", "", "Initial status (defaults to the first column)")
	f.StringVar(&v.Priority, "priority", "", "Low, Medium, High or Critical")
	f.StringVar(&v.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	f.StringVar(&v.AssigneeID, "assignee", "", "Assignee id")
	f.StringVar(&v.Question, "question", "", "RFI question")
	f.StringVar(&answer, "answer", "", "RFI answer")
	f.StringVar(&v.SpecSection, "spec", "", "Submittal spec section")
	f.StringVar(&v.RecipientEmail, "to", "", "External recipient email (RFI, submittal)")
	f.StringVar(&v.RecipientName, "to-name", "", "External recipient name")
	f.StringVar(&ownerID, "to-owner", "", "Internal recipient id (RFI, submittal)")
	f.StringSliceVarP(&files, "file", "f", nil, "File to attach; repeatable")
	f.StringVar(&uploadedBy, "by", "", "Uploader recorded on attachments")

	return cmd
}

func newItemListCmd(a *App) *cobra.Command {
	var (
		filter   insight.ItemFilter
		status   string
		priority string
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:   "list <project>",
		Short: "List work items of one kind",
		Args:  cobra.ExactArgs(1),
	}
	parseKind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		kind, err := parseKind()
		if err != nil {
			return err
		}
		p, err := resolveProject(ctx, a, args[0])
		if err != nil {
			return err
		}
		key, err := insight.ParseSortKey(sortBy)
		if err != nil {
			return err
		}
		filter.Status = domain.WorkItemStatus(status)
		if priority != "" {
			if filter.Priority, err = domain.ParsePriority(priority); err != nil {
				return err
			}
		}
		items, err := a.WorkItems.List(ctx, p.ID, kind, filter, key)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemList(items, a.now()))
		return nil
	}

	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Only this status")
	f.StringVar(&priority, "priority", "", "Only this priority")
	f.StringVar(&filter.AssigneeID, "assignee", "", "Only this assignee")
	f.StringVarP(&filter.Query, "search", "q", "", "Match title, description or number")
	f.BoolVar(&filter.OverdueOnly, "overdue", false, "Only overdue items")
	f.BoolVar(&filter.OpenOnly, "open", false, "Hide completed items")
	f.StringVar(&sortBy, "sort", "due", "due, priority, number or updated")

	return cmd
}

func newItemShowCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project> <item>",
		Short: "Show one item with its attachments",
		Args:  cobra.ExactArgs(2),
	}
	parseKind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		kind, err := parseKind()
		if err != nil {
			return err
		}
		p, err := resolveProject(ctx, a, args[0])
		if err != nil {
			return err
		}
		w, err := resolveItem(ctx, a, p, kind, args[1])
		if err != nil {
			return err
		}
		var files []*domain.Attachment
		if kind != domain.KindMilestone {
			if files, err = a.Attachments.ListByTarget(ctx, p.ID, domain.AttachmentTarget{Kind: kind, ID: w.ID}); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemDetail(w, files, a.now()))
		return nil
	}
	return cmd
}

func newItemStatusCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project> <item> <status>",
		Short: "Move an item to another status",
		Args:  cobra.ExactArgs(3),
	}
	parseKind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		kind, err := parseKind()
		if err != nil {
			return err
		}
		p, err := resolveProject(ctx, a, args[0])
		if err != nil {
			return err
		}
		w, err := resolveItem(ctx, a, p, kind, args[1])
		if err != nil {
			return err
		}
		updated, err := a.WorkItems.UpdateStatus(ctx, kind, w.ID, domain.WorkItemStatus(args[2]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", updated.DisplayNumber(), formatter.ItemStatusPill(updated))
		return nil
	}
	return cmd
}

func newItemRemoveCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <project> <item>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an item and its attachments",
		Args:    cobra.ExactArgs(2),
	}
	parseKind := kindFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		kind, err := parseKind()
		if err != nil {
			return err
		}
		p, err := resolveProject(ctx, a, args[0])
		if err != nil {
			return err
		}
		w, err := resolveItem(ctx, a, p, kind, args[1])
		if err != nil {
			return err
		}
		if err := a.WorkItems.Delete(ctx, kind, w.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", w.DisplayNumber())
		return nil
	}
	return cmd
}

// openFiles opens local paths as uploads. The returned func closes them.
func openFiles(paths []string) ([]app.FileUpload, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	uploads := make([]app.FileUpload, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("opening %s: %w", p, err)
		}
		opened = append(opened, f)
		var size int64
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		uploads = append(uploads, app.FileUpload{Name: filepath.Base(p), Size: size, Reader: f})
	}
	return uploads, closeAll, nil
}

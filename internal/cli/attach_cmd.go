package cli

import (
	"fmt"

	"github.com/modline/modtrack/internal/cli/formatter"
	"github.com/modline/modtrack/internal/domain"
	"github.com/spf13/cobra"
)

func newAttachCmd(a *App) *cobra.Command {
	var (
		kind       string
		itemRef    string
		uploadedBy string
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "attach <project> [files...]",
		Short: "Upload files to a project or to one of its items",
		Long: "Upload files to a project, or to a task, RFI or submittal with --kind and --item.\n" +
			"Each file is stored independently; failures are listed and do not stop the rest.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			p, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}

			var target domain.AttachmentTarget
			if itemRef != "" {
				k, err := domain.ParseItemKind(kind)
				if err != nil {
					return err
				}
				w, err := resolveItem(ctx, a, p, k, itemRef)
				if err != nil {
					return err
				}
				target = domain.AttachmentTarget{Kind: k, ID: w.ID}
			}

			out := cmd.OutOrStdout()
			if list || len(args) == 1 {
				var files []*domain.Attachment
				if target.ProjectLevel() {
					files, err = a.Attachments.ListByProject(ctx, p.ID)
				} else {
					files, err = a.Attachments.ListByTarget(ctx, p.ID, target)
				}
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(out, "No attachments.")
					return nil
				}
				fmt.Fprintln(out, formatter.FormatAttachmentList(files))
				return nil
			}

			uploads, closeFiles, err := openFiles(args[1:])
			if err != nil {
				return err
			}
			defer closeFiles()

			result, err := a.Attachments.UploadMany(ctx, p.ID, target, uploads, uploadedBy)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatUploadResult(*result))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&kind, "kind", "k", "task", "Kind of the target item")
	f.StringVar(&itemRef, "item", "", "Target item number or id; omit to attach to the project")
	f.StringVar(&uploadedBy, "by", "", "Uploader recorded on the attachments")
	f.BoolVarP(&list, "list", "l", false, "List attachments instead of uploading")

	return cmd
}

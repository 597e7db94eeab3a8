package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"genvid/internal/api"
	"genvid/internal/poll"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect and manage video projects",
	}

	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosShowCommand(ctx))
	videosCmd.AddCommand(newVideosWatchCommand(ctx))
	videosCmd.AddCommand(newVideosDeleteCommand(ctx))

	return videosCmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List video projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				projects, meta, err := e.client.Projects(cmd.Context(), page, e.cfg.Dashboard.PageLimit)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"projects": projects, "meta": meta})
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No videos yet. Run `genvid create` to make your first one.")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Product", "Status", "Format", "Created"},
					buildVideoRows(projects),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				if meta != nil && meta.TotalPages > 1 {
					fmt.Fprintf(out, "Page %d of %d (%d total)\n", meta.Page, meta.TotalPages, meta.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Results page to fetch")
	return cmd
}

func buildVideoRows(projects []api.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID,
			truncate(p.ProductName, 40),
			statusLabel(p),
			string(p.Format),
			formatAge(p.CreatedAt),
		})
	}
	return rows
}

func newVideosShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one video project in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				project, err := e.client.Project(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, project)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Product:  %s\n", project.ProductName)
				fmt.Fprintf(out, "Status:   %s\n", statusLabel(*project))
				fmt.Fprintf(out, "Format:   %s  Language: %s\n", project.Format, project.Language)
				fmt.Fprintf(out, "Created:  %s\n", formatAge(project.CreatedAt))
				if project.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:    %s\n", project.ErrorMessage)
				}
				if project.VideoURL != "" {
					fmt.Fprintf(out, "Video:    %s\n", project.VideoURL)
				}
				if project.Script != "" {
					fmt.Fprintf(out, "\nScript:\n%s\n", project.Script)
				}
				return nil
			})
		},
	}
}

func newVideosWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow pending videos until they settle",
		Long: "Watch refreshes the project list on the dashboard interval while any " +
			"video is queued or processing and exits once everything has settled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				return watchProjects(cmd, ctx, e)
			})
		},
	}
}

func watchProjects(cmd *cobra.Command, ctx *commandContext, e *env) error {
	out := cmd.OutOrStdout()
	fetch := func(fetchCtx context.Context) ([]api.Project, error) {
		projects, _, err := e.client.Projects(fetchCtx, 1, e.cfg.Dashboard.PageLimit)
		return projects, err
	}

	projects, err := fetch(cmd.Context())
	if err != nil {
		return err
	}
	if !api.AnyPending(projects) {
		fmt.Fprintln(out, "Nothing pending; all videos have settled.")
		return nil
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stdout.Fd()) {
		bar = progressbar.NewOptions(100,
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionSetWriter(out),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	settled := make(chan struct{})
	onUpdate := func(list []api.Project) {
		reportProgress(out, bar, list)
		if !api.AnyPending(list) {
			select {
			case settled <- struct{}{}:
			default:
			}
		}
	}

	interval := time.Duration(e.cfg.Dashboard.PollInterval) * time.Second
	controller := poll.New(fetch, onUpdate, interval, e.logger)
	defer controller.Stop()

	reportProgress(out, bar, projects)
	controller.Update(projects)

	select {
	case <-settled:
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}
	fmt.Fprintln(out, "All videos have settled.")
	return nil
}

// reportProgress renders the furthest-along pending project, either on the
// progress bar or as plain lines when stdout is not a terminal.
func reportProgress(out io.Writer, bar *progressbar.ProgressBar, projects []api.Project) {
	best := -1
	var bestProject api.Project
	for _, p := range projects {
		if p.Status.Pending() && p.ProgressPercent > best {
			best = p.ProgressPercent
			bestProject = p
		}
	}
	if best < 0 {
		return
	}
	if bar != nil {
		_ = bar.Set(best)
		return
	}
	fmt.Fprintf(out, "%s: %s\n", bestProject.ProductName, statusLabel(bestProject))
}

func newVideosDeleteCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a video project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				if !force && !confirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), fmt.Sprintf("Delete video %s?", args[0])) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
				if err := e.client.DeleteProject(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

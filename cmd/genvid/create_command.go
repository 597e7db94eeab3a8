package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"genvid/internal/api"
	"genvid/internal/script"
	"genvid/internal/wizard"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new video through the guided wizard",
		Long: "Create walks through the four wizard steps: product details, avatar " +
			"selection, script, and generation. Every step can also be filled from " +
			"flags; missing values are prompted for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd.Context(), func(e *env) error {
				if err := e.requireAuth(); err != nil {
					return err
				}
				return runCreate(cmd, ctx, e, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.product, "product", "", "Product name")
	cmd.Flags().StringVar(&opts.description, "description", "", "Product description")
	cmd.Flags().StringVar(&opts.url, "url", "", "Product page URL")
	cmd.Flags().StringVar(&opts.image, "image", "", "Product image to upload")
	cmd.Flags().StringVar(&opts.avatarID, "avatar", "", "Avatar id (see `genvid avatars`)")
	cmd.Flags().StringVar(&opts.scriptText, "script", "", "Script text (minimum 10 characters)")
	cmd.Flags().StringVar(&opts.template, "template", "", "Generate the script from this template")
	cmd.Flags().StringVar(&opts.language, "language", "", "Spoken language for the video")
	cmd.Flags().StringVar(&opts.format, "format", "", "Aspect ratio (9:16, 1:1, 16:9)")
	cmd.Flags().IntVar(&opts.duration, "duration", 0, "Video duration in seconds (5, 10, 30)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the final confirmation")
	return cmd
}

type createOptions struct {
	product     string
	description string
	url         string
	image       string
	avatarID    string
	scriptText  string
	template    string
	language    string
	format      string
	duration    int
	yes         bool
}

func runCreate(cmd *cobra.Command, ctx *commandContext, e *env, opts createOptions) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	// The spoken-language default follows the stored language preference,
	// not the config file, so a `genvid lang set` carries into new videos.
	flow := wizard.New(e.client, wizard.Defaults{
		Language:      e.prefs.Language(),
		Format:        e.cfg.Create.Format,
		VideoDuration: e.cfg.Create.VideoDuration,
	}, e.logger)
	if opts.language != "" {
		flow.SetLanguage(opts.language)
	}
	if opts.format != "" {
		flow.SetFormat(opts.format)
	}
	if opts.duration > 0 {
		flow.SetDuration(opts.duration)
	}

	if err := createProductStep(cmd, reader, flow, opts); err != nil {
		return err
	}
	if err := createAvatarStep(cmd, reader, e, flow, opts); err != nil {
		return err
	}
	if err := createScriptStep(cmd, reader, e, flow, opts); err != nil {
		return err
	}

	if status, err := flow.WaitImage(cmd.Context()); err == nil && status.Err != nil {
		// The video can still be generated; the project just has no image.
		fmt.Fprintf(out, "Warning: image upload failed: %v\n", status.Err)
	}

	if !opts.yes {
		fmt.Fprintf(out, "\nProduct: %s\nAvatar:  %s\nScript:  %s\n",
			flow.ProductName(), flow.Avatar().Label(), truncate(flow.Script(), 60))
		if !confirm(reader, out, "Generate this video?") {
			fmt.Fprintln(out, "Aborted; the draft project was kept.")
			return nil
		}
	}

	project, err := flow.Generate(cmd.Context())
	if err != nil {
		return err
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, project)
	}
	fmt.Fprintf(out, "Video queued as %s. Follow it with `genvid videos watch`.\n", project.ID)
	return nil
}

func createProductStep(cmd *cobra.Command, reader *bufio.Reader, flow *wizard.Flow, opts createOptions) error {
	out := cmd.OutOrStdout()

	name := strings.TrimSpace(opts.product)
	for name == "" {
		var err error
		name, err = promptLine(reader, out, "Product name", "")
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Fprintln(out, "A product name is required.")
		}
	}
	description := opts.description
	if description == "" && opts.product == "" {
		var err error
		description, err = promptLine(reader, out, "Product description (optional)", "")
		if err != nil {
			return err
		}
	}
	flow.SetProduct(name, description, opts.url)

	if opts.image != "" {
		if err := flow.AttachImage(cmd.Context(), opts.image); err != nil {
			return err
		}
		fmt.Fprintf(out, "Uploading %s in the background...\n", opts.image)
	}

	return flow.Advance(cmd.Context())
}

func createAvatarStep(cmd *cobra.Command, reader *bufio.Reader, e *env, flow *wizard.Flow, opts createOptions) error {
	out := cmd.OutOrStdout()

	avatars, err := e.client.Avatars(cmd.Context())
	if err != nil {
		return err
	}
	if len(avatars) == 0 {
		return errors.New("no avatars are available")
	}

	selected := findAvatar(avatars, opts.avatarID)
	if selected == nil {
		if opts.avatarID != "" {
			return fmt.Errorf("unknown avatar %q", opts.avatarID)
		}
		rows := make([][]string, 0, len(avatars))
		for _, a := range avatars {
			rows = append(rows, []string{a.ID, a.Label(), a.Gender, a.Style})
		}
		fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Gender", "Style"}, rows, nil))
		for selected == nil {
			id, err := promptLine(reader, out, "Avatar id", avatars[0].ID)
			if err != nil {
				return err
			}
			selected = findAvatar(avatars, id)
			if selected == nil {
				fmt.Fprintf(out, "No avatar with id %q.\n", id)
			}
		}
	}
	flow.SetAvatar(selected)
	return flow.Advance(cmd.Context())
}

func findAvatar(avatars []api.Avatar, id string) *api.Avatar {
	for i := range avatars {
		if avatars[i].ID == id {
			return &avatars[i]
		}
	}
	return nil
}

func createScriptStep(cmd *cobra.Command, reader *bufio.Reader, e *env, flow *wizard.Flow, opts createOptions) error {
	out := cmd.OutOrStdout()

	text := opts.scriptText
	if text == "" && opts.template != "" {
		generated, err := generateScript(cmd, e, flow, opts.template)
		if err != nil {
			return err
		}
		text = generated
	}
	for text == "" {
		line, err := promptLine(reader, out, "Script (or 'template' to generate one)", "")
		if err != nil {
			return err
		}
		if line == "template" {
			templates := script.Templates()
			for _, t := range templates {
				fmt.Fprintf(out, "  %-18s %s\n", t.ID, t.Name)
			}
			id, err := promptLine(reader, out, "Template", templates[0].ID)
			if err != nil {
				return err
			}
			generated, err := generateScript(cmd, e, flow, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n\n", generated)
			if confirm(reader, out, "Use this script?") {
				text = generated
			}
			continue
		}
		text = line
	}

	flow.SetScript(text)
	if err := flow.Advance(cmd.Context()); err != nil {
		if errors.Is(err, wizard.ErrScriptTooShort) {
			return fmt.Errorf("script is too short: need at least 10 characters, got %d", len([]rune(text)))
		}
		return err
	}
	return nil
}

func generateScript(cmd *cobra.Command, e *env, flow *wizard.Flow, templateID string) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Generating script...")
	defer fmt.Fprintln(out)
	engine := script.NewEngine(time.Duration(e.cfg.Script.GenerateDelayMillis) * time.Millisecond)
	return engine.Generate(cmd.Context(), templateID, script.Inputs{
		ProductName:        flow.ProductName(),
		ProductDescription: flow.ProductDescription(),
	})
}

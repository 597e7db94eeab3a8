package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"genvid/internal/script"
)

func newScriptCommand(ctx *commandContext) *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Generate video scripts from templates",
	}

	scriptCmd.AddCommand(newScriptTemplatesCommand(ctx))
	scriptCmd.AddCommand(newScriptGenerateCommand(ctx))

	return scriptCmd
}

func newScriptTemplatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "templates",
		Short:       "List the available script templates",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := script.Templates()
			if ctx.jsonOutput() {
				return writeJSON(cmd, templates)
			}
			rows := make([][]string, 0, len(templates))
			for _, t := range templates {
				rows = append(rows, []string{t.ID, t.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name"}, rows, nil))
			return nil
		},
	}
}

func newScriptGenerateCommand(ctx *commandContext) *cobra.Command {
	var templateID string
	var product string
	var description string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a script for a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if product == "" {
				return fmt.Errorf("a product name is required; pass --product")
			}

			engine := script.NewEngine(time.Duration(cfg.Script.GenerateDelayMillis) * time.Millisecond)
			text, err := engine.Generate(cmd.Context(), templateID, script.Inputs{
				ProductName:        product,
				ProductDescription: description,
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"template": templateID, "script": text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "review", "Template id (see `genvid script templates`)")
	cmd.Flags().StringVarP(&product, "product", "p", "", "Product name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Product description")
	return cmd
}

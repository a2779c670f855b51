package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/prompt"
	"github.com/goliatone/go-formguard/pkg/render"
)

func (a *app) fillCommand() *cobra.Command {
	var (
		form   string
		out    string
		rounds int
	)
	cmd := &cobra.Command{
		Use:   "fill PAGE",
		Short: "Fill the first target form interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readPage(args[0])
			if err != nil {
				return err
			}
			targets, err := a.formSelector(form)
			if err != nil {
				return err
			}
			target := doc.Query(targets)
			if target == nil {
				return fmt.Errorf("no target form in %s", args[0])
			}
			v, err := a.cfg.Validator(a.logger)
			if err != nil {
				return err
			}

			filler := prompt.New(a.newDriver(),
				prompt.WithValidator(v),
				prompt.WithLogger(a.logger),
				prompt.WithMaxRounds(rounds),
			)
			result, err := filler.Fill(cmd.Context(), target)
			if err != nil {
				return err
			}

			registry, err := formguard.NewRenderers()
			if err != nil {
				return err
			}
			renderer, err := registry.Get(render.FormatText)
			if err != nil {
				return err
			}
			report, err := renderer.Render(cmd.Context(), []render.Report{render.NewReport(formLabel(target), result)})
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(report); err != nil {
				return err
			}

			if out != "" {
				var buf bytes.Buffer
				if err := doc.Render(&buf); err != nil {
					return err
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return err
				}
			}
			if !result.Valid {
				return errFormInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&form, "form", "", "CSS selector overriding the configured target forms")
	cmd.Flags().StringVar(&out, "out", "", "write the filled page to this file")
	cmd.Flags().IntVar(&rounds, "rounds", prompt.DefaultMaxRounds, "submit attempts before giving up")
	return cmd
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/binding"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/render"
	"github.com/goliatone/go-formguard/pkg/validation"
)

var errStdinRepeated = errors.New("stdin (-) can be checked only once")

type checkOptions struct {
	values      string
	errors      string
	form        string
	annotateDir string
	format      string
	parallel    int
}

func (a *app) checkCommand() *cobra.Command {
	opts := checkOptions{format: render.FormatText, parallel: 4}
	cmd := &cobra.Command{
		Use:   "check PAGE...",
		Short: "Fill values into target forms, submit them and report the verdict",
		Long: `check parses each page ("-" reads stdin), binds validation to the target
forms, applies the values file, dispatches submit and prints one report per
form. The exit status is 2 when any form is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.Context(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.values, "values", "", "YAML map of field name to value")
	flags.StringVar(&opts.errors, "server-errors", "", "YAML map of field path to backend messages merged into the report")
	flags.StringVar(&opts.form, "form", "", "CSS selector overriding the configured target forms")
	flags.StringVar(&opts.annotateDir, "annotate-dir", "", "write each validated page, annotations included, into this directory")
	flags.StringVarP(&opts.format, "format", "o", opts.format, "report format: text|html|json")
	flags.IntVar(&opts.parallel, "parallel", opts.parallel, "pages checked concurrently")
	return cmd
}

type pageResult struct {
	path    string
	doc     *dom.Document
	reports []render.Report
}

func (a *app) runCheck(ctx context.Context, pages []string, opts checkOptions) error {
	stdinPages := 0
	for _, page := range pages {
		if strings.TrimSpace(page) == "-" {
			stdinPages++
		}
	}
	if stdinPages > 1 {
		return errStdinRepeated
	}

	registry, err := formguard.NewRenderers()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(opts.format)
	if err != nil {
		return err
	}

	values, err := loadYAMLMap[string](opts.values)
	if err != nil {
		return fmt.Errorf("values: %w", err)
	}
	payload, err := loadYAMLMap[[]string](opts.errors)
	if err != nil {
		return fmt.Errorf("server errors: %w", err)
	}
	v, err := a.cfg.Validator(a.logger)
	if err != nil {
		return err
	}

	results := make([]pageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	if opts.parallel > 0 {
		g.SetLimit(opts.parallel)
	}
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.checkPage(page, v, opts.form, values, payload)
			if err != nil {
				return fmt.Errorf("%s: %w", page, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var reports []render.Report
	invalid := false
	for _, res := range results {
		for _, report := range res.reports {
			if len(pages) > 1 {
				report.Form = res.path + "#" + report.Form
			}
			invalid = invalid || !report.Valid
			reports = append(reports, report)
		}
		if opts.annotateDir != "" {
			if err := writeAnnotated(opts.annotateDir, res); err != nil {
				return err
			}
		}
	}

	out, err := renderer.Render(ctx, reports)
	if err != nil {
		return err
	}
	if _, err := a.stdout.Write(out); err != nil {
		return err
	}
	if invalid {
		return errFormInvalid
	}
	return nil
}

func (a *app) checkPage(path string, v *validation.Validator, formOverride string, values map[string]string, payload map[string][]string) (pageResult, error) {
	doc, err := a.readPage(path)
	if err != nil {
		return pageResult{}, err
	}

	bindOpts, err := a.cfg.BindingOptions(v, a.logger)
	if err != nil {
		return pageResult{}, err
	}
	if strings.TrimSpace(formOverride) != "" {
		sel, err := dom.Compile(formOverride)
		if err != nil {
			return pageResult{}, err
		}
		bindOpts = append(bindOpts, binding.WithTargetSelectors(sel))
	}

	res := pageResult{path: path, doc: doc}
	bindOpts = append(bindOpts, binding.WithResultHook(func(form *dom.Element, result validation.Result) {
		report := render.NewReport(formLabel(form), result)
		if len(payload) > 0 {
			report.MergeServerErrors(render.FieldNames(form), payload)
		}
		res.reports = append(res.reports, report)
	}))

	b, err := binding.Init(doc, bindOpts...)
	if err != nil {
		return pageResult{}, err
	}
	defer b.Dispose()

	for _, form := range b.Forms() {
		applyValues(form, values)
		form.Submit()
	}
	return res, nil
}

// applyValues writes values into the controls of form by name. Checkboxes are
// checked by a truthy value or their own value; radios by their own value.
func applyValues(form *dom.Element, values map[string]string) {
	if len(values) == 0 {
		return
	}
	for _, control := range form.Controls() {
		value, ok := values[control.Name()]
		if !ok {
			continue
		}
		switch control.Type() {
		case "checkbox":
			setChecked(control, truthy(value) || value == control.GetAttr("value"))
		case "radio":
			setChecked(control, value == control.GetAttr("value"))
		default:
			control.SetValue(value)
		}
	}
}

func setChecked(control *dom.Element, checked bool) {
	if checked {
		control.SetAttr("checked", "")
		return
	}
	control.RemoveAttr("checked")
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func loadYAMLMap[T any](path string) (map[string]T, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]T{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func writeAnnotated(dir string, res pageResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := filepath.Base(res.path)
	if res.path == "-" {
		name = "stdin.html"
	}
	var buf bytes.Buffer
	if err := res.doc.Render(&buf); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644)
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/dom"
)

type fieldInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	Honeypot  bool   `json:"honeypot"`
	Container bool   `json:"container"`
}

type formInfo struct {
	Form   string      `json:"form"`
	Fields []fieldInfo `json:"fields"`
}

func (a *app) inspectCommand() *cobra.Command {
	var (
		form   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "inspect PAGE",
		Short: "List target forms, their fields and honeypot verdicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := a.inspect(args[0], form)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(forms)
			}
			return a.printInspect(forms)
		},
	}
	cmd.Flags().StringVar(&form, "form", "", "CSS selector overriding the configured target forms")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) inspect(path, formOverride string) ([]formInfo, error) {
	doc, err := a.readPage(path)
	if err != nil {
		return nil, err
	}
	targets, err := a.formSelector(formOverride)
	if err != nil {
		return nil, err
	}
	v, err := a.cfg.Validator(a.logger)
	if err != nil {
		return nil, err
	}
	var container dom.Selector
	if strings.TrimSpace(a.cfg.ContainerSelector) != "" {
		if container, err = dom.Compile(a.cfg.ContainerSelector); err != nil {
			return nil, err
		}
	}

	forms := []formInfo{}
	for _, form := range doc.QueryAll(targets) {
		info := formInfo{Form: formLabel(form), Fields: []fieldInfo{}}
		for _, control := range form.Controls() {
			name := control.Name()
			if name == "" {
				name = control.ID()
			}
			info.Fields = append(info.Fields, fieldInfo{
				Name:      name,
				Type:      control.Type(),
				Required:  control.Required(),
				Honeypot:  v.IsHoneypot(control),
				Container: control.Closest(container) != nil,
			})
		}
		forms = append(forms, info)
	}
	return forms, nil
}

func (a *app) printInspect(forms []formInfo) error {
	if len(forms) == 0 {
		_, err := fmt.Fprintln(a.stdout, "no target forms")
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, form := range forms {
		fmt.Fprintf(tw, "form %s\n", form.Form)
		fmt.Fprintln(tw, "  NAME\tTYPE\tREQUIRED\tHONEYPOT\tCONTAINER")
		for _, field := range form.Fields {
			fmt.Fprintf(tw, "  %s\t%s\t%t\t%t\t%t\n", field.Name, field.Type, field.Required, field.Honeypot, field.Container)
		}
	}
	return tw.Flush()
}

package main

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	formguard "github.com/goliatone/go-formguard"
)

func (a *app) assetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assets [NAME]",
		Short: "List or print the embedded stylesheet, default config and report templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundles := map[string]fs.FS{
				"assets":    formguard.AssetsFS(),
				"templates": formguard.TemplatesFS(),
			}
			if len(args) == 0 {
				for _, prefix := range []string{"assets", "templates"} {
					err := fs.WalkDir(bundles[prefix], ".", func(path string, d fs.DirEntry, err error) error {
						if err != nil || d.IsDir() {
							return err
						}
						_, err = fmt.Fprintf(a.stdout, "%s/%s\n", prefix, path)
						return err
					})
					if err != nil {
						return err
					}
				}
				return nil
			}

			prefix, name, ok := strings.Cut(args[0], "/")
			bundle, known := bundles[prefix]
			if !ok || !known {
				return fmt.Errorf("unknown asset %q (run `formguard assets` to list)", args[0])
			}
			data, err := fs.ReadFile(bundle, name)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
}

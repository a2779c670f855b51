package formguard

import (
	"bytes"
	"embed"
	"io/fs"

	"github.com/goliatone/go-formguard/pkg/config"
)

//go:embed assets/*.css assets/*.yaml
var embeddedAssets embed.FS

//go:embed templates/*
var embeddedTemplates embed.FS

// AssetsFS exposes the error stylesheet and the annotated default
// configuration.
//
// Typical mount:
//
//	mux.Handle("/formguard/",
//	  http.StripPrefix("/formguard/",
//	    http.FileServerFS(formguard.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// TemplatesFS exposes the report templates (report.txt, report.html) so
// callers can copy or extend them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// DefaultConfig decodes the embedded formguard.yaml.
func DefaultConfig() (config.Config, error) {
	raw, err := fs.ReadFile(AssetsFS(), "formguard.yaml")
	if err != nil {
		return config.Config{}, err
	}
	return config.Decode(bytes.NewReader(raw))
}

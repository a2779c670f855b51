package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/logging"
	"github.com/goliatone/go-formguard/pkg/prompt"
)

var errFormInvalid = errors.New("one or more forms are invalid")

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger

	newDriver func() prompt.Driver
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		newDriver: prompt.NewSurveyDriver,
	}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "formguard",
		Short:         "Validate lead-capture forms in HTML pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file (env FORMGUARD_*)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files loaded before configuration")
	flags.StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	flags.StringVar(&a.logFormat, "log-format", "", "text|json (overrides config)")

	root.AddCommand(
		a.checkCommand(),
		a.inspectCommand(),
		a.fillCommand(),
		a.assetsCommand(),
	)
	return root
}

func (a *app) setup() error {
	if len(a.envFiles) > 0 {
		if err := godotenv.Load(a.envFiles...); err != nil {
			return fmt.Errorf("load env files: %w", err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, format := cfg.Log.Level, cfg.Log.Format
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	logger, err := logging.FromStrings(level, format, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// readPage parses path, or stdin when path is "-".
func (a *app) readPage(path string) (*dom.Document, error) {
	if strings.TrimSpace(path) == "-" {
		doc, err := dom.Parse(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("parse stdin: %w", err)
		}
		return doc, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// formSelector returns the --form override or the configured targets.
func (a *app) formSelector(override string) (dom.Selector, error) {
	if strings.TrimSpace(override) != "" {
		return dom.Compile(override)
	}
	return a.cfg.TargetSelector()
}

func formLabel(form *dom.Element) string {
	if name := strings.TrimSpace(form.Name()); name != "" {
		return name
	}
	if id := strings.TrimSpace(form.ID()); id != "" {
		return id
	}
	return "form"
}

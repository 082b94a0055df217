package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/marginlab/marginalia/pkg/buildinfo"
	"github.com/marginlab/marginalia/pkg/config"
	"github.com/marginlab/marginalia/pkg/document"
	"github.com/marginlab/marginalia/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "marginalia"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag value, empty for defaults.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "marginalia",
		Short:        "Marginalia lays out margin annotations without collisions",
		Long:         `Marginalia is a layout engine for margin annotations on scholarly web pages. It positions sidenotes and citation cards in the margin column next to their anchors, resolving vertical collisions, and falls back to modal overlays on narrow viewports.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to TOML config file")

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig loads the configured TOML file, or defaults when --config is unset.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(c.configPath)
}

// openDocument loads the annotated document using the configured region selector.
func (c *CLI) openDocument(path string, cfg config.Config) (*document.Document, error) {
	return document.LoadFile(path, cfg.RegionSelector)
}

// newRunner creates a pipeline runner over the document for CLI use.
func (c *CLI) newRunner(doc *document.Document, cfg config.Config, applier pipeline.Applier) *pipeline.Runner {
	return pipeline.NewRunner(doc, doc, applier, c.Logger,
		pipeline.WithBreakpoint(cfg.BreakpointPx))
}

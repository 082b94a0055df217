package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/pipeline"
	"github.com/marginlab/marginalia/pkg/render/sink"
)

const (
	// FormatSVG renders an interactive page snapshot.
	FormatSVG = "svg"
	// FormatJSON exports the resolved layout data.
	FormatJSON = "json"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "json"
	gap        float64  // minimum spacing between annotations
	width      float64  // viewport width for the mode check
	focused    string   // annotation to pin under the focused policy
	connectors bool     // draw anchor-to-annotation connectors in SVG
}

// renderCommand creates the render command for generating snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{connectors: true}

	cmd := &cobra.Command{
		Use:   "render [document.html]",
		Short: "Render a resolved layout to SVG or JSON",
		Long: `Render a resolved layout to SVG or JSON.

The render command runs a layout pass over the document and draws the
result as a page snapshot: the prose column with anchor ticks on the left,
the margin column with every annotation at its resolved offset on the
right. Hovering an annotation in the SVG highlights it together with its
anchor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().Float64Var(&opts.gap, "gap", 0, "minimum spacing between annotations (default from config)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width for the margin/modal mode check")
	cmd.Flags().StringVar(&opts.focused, "focus", "", "annotation ID to pin under the focused policy")
	cmd.Flags().BoolVar(&opts.connectors, "connectors", opts.connectors, "draw anchor-to-annotation connectors")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that every requested format is supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case FormatSVG, FormatJSON:
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (svg, json)", f)
		}
	}
	return nil
}

// runRender runs a pass and writes one output file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc, err := c.openDocument(input, cfg)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	passOpts := pipeline.FromConfig(cfg)
	if opts.gap > 0 {
		passOpts.Gap = opts.gap
	}
	passOpts.ViewportWidth = opts.width
	passOpts.FocusedID = opts.focused
	passOpts.Logger = c.Logger

	spin := startSpinner(ctx, "Resolving layout...")

	result, err := c.newRunner(doc, cfg, nil).Execute(ctx, passOpts)
	if err != nil {
		spin.Fail("Layout failed")
		return fmt.Errorf("layout pass: %w", err)
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if opts.output != "" {
		base = strings.TrimSuffix(opts.output, filepath.Ext(opts.output))
	}

	printSuccess("Layout resolved")
	for _, format := range opts.formats {
		outputPath, err := c.writeFormat(result, opts, format, base, passOpts.Gap)
		if err != nil {
			return err
		}
		printFile(outputPath)
	}
	printStats(result.Stats.RegionCount, result.Stats.ItemCount, result.Stats.Displaced)

	return nil
}

// writeFormat renders one output format and writes it next to base.
func (c *CLI) writeFormat(result *pipeline.Result, opts *renderOpts, format, base string, gap float64) (string, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithTitle(filepath.Base(base))}
		if !opts.connectors {
			svgOpts = append(svgOpts, sink.WithoutConnectors())
		}
		data = sink.RenderSVG(result, svgOpts...)
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONGap(gap), sink.WithJSONContent()}
		if opts.focused != "" {
			jsonOpts = append(jsonOpts, sink.WithJSONFocused(opts.focused))
		}
		data, err = sink.RenderJSON(result, jsonOpts...)
		if err != nil {
			return "", fmt.Errorf("encode layout: %w", err)
		}
	}

	outputPath := base + "." + format
	if len(opts.formats) == 1 && opts.output != "" {
		outputPath = opts.output
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write output %s: %w", outputPath, err)
	}
	return outputPath, nil
}

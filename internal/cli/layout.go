package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marginlab/marginalia/pkg/pipeline"
	"github.com/marginlab/marginalia/pkg/render/sink"
)

// layoutCommand creates the layout command for computing resolved offsets.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		gap     float64
		width   float64
		focused string
		stats   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [document.html]",
		Short: "Run a layout pass and export the resolved offsets",
		Long: `Run a layout pass and export the resolved offsets.

The layout command parses the document, runs one full collect, measure,
resolve, apply pass, and writes the resolved offsets as JSON. The output
can be rendered to SVG with the 'render' command or consumed directly by
external tools.

With --focus the named annotation is pinned at its anchor and neighbors
are displaced around it, matching the hover behavior of the live page.
With --width below the breakpoint the pass reports modal mode and no
offsets are produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutPass(cmd.Context(), args[0], output, gap, width, focused, stats)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, '-' for stdout)")
	cmd.Flags().Float64Var(&gap, "gap", 0, "minimum spacing between annotations (default from config)")
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width for the margin/modal mode check")
	cmd.Flags().StringVar(&focused, "focus", "", "annotation ID to pin under the focused policy")
	cmd.Flags().BoolVar(&stats, "stats", false, "include pass timing statistics in the output")

	return cmd
}

// runLayoutPass runs one pass over the document and writes the JSON export.
func (c *CLI) runLayoutPass(ctx context.Context, input, output string, gap, width float64, focused string, stats bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc, err := c.openDocument(input, cfg)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	opts := pipeline.FromConfig(cfg)
	if gap > 0 {
		opts.Gap = gap
	}
	opts.ViewportWidth = width
	opts.FocusedID = focused
	opts.Logger = c.Logger

	runner := c.newRunner(doc, cfg, nil)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("layout pass: %w", err)
	}

	jsonOpts := []sink.JSONOption{sink.WithJSONGap(opts.Gap), sink.WithJSONContent()}
	if focused != "" {
		jsonOpts = append(jsonOpts, sink.WithJSONFocused(focused))
	}
	if stats {
		jsonOpts = append(jsonOpts, sink.WithJSONStats())
	}

	data, err := sink.RenderJSON(result, jsonOpts...)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if output == "-" {
		fmt.Println(string(data))
		return nil
	}
	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.RegionCount, result.Stats.ItemCount, result.Stats.Displaced)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}

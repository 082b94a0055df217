package cli

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/marginlab/marginalia/pkg/margin"
)

// scanCommand creates the scan command for listing a document's annotations.
func (c *CLI) scanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [document.html]",
		Short: "List the margin regions and annotations of a document",
		Long: `List the margin regions and annotations of a document.

The scan command parses the document, collects every margin region and its
annotations in document order, and prints them without running layout. Use
it to verify that anchors and annotations are recognized before rendering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runScan loads the document and prints its collected structure.
func (c *CLI) runScan(ctx context.Context, input string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc, err := c.openDocument(input, cfg)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	p := newProgress(loggerFromContext(ctx))
	regions, err := margin.NewRegistry(doc, c.Logger).Snapshot()
	if err != nil {
		return fmt.Errorf("collect annotations: %w", err)
	}

	items := 0
	for i := range regions {
		items += len(regions[i].Items)
	}
	p.done(fmt.Sprintf("Collected %d annotations", items))

	if len(regions) == 0 {
		printWarning("no margin regions found")
		return nil
	}

	for _, region := range regions {
		printInfo("region %s", StyleHighlight.Render(region.ID))
		for _, it := range region.Items {
			printDetail("%-20s %-14s height %.0f  %s", it.ID, it.Kind, it.Height, truncateContent(it.Content, 48))
		}
	}

	printNewline()
	printStats(len(regions), items, 0)
	printNextStep("Layout", appName+" layout "+input)

	return nil
}

// truncateContent shortens annotation content to n runes for single-line
// display without splitting a multibyte character.
func truncateContent(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

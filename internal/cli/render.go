package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netform/netform/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "dot", "json"
	detailed   bool     // show shapes and roles in node labels
	horizontal bool     // lay the diagram out left-to-right
	noCache    bool     // disable the artifact cache
	refresh    bool     // recompute even when cached
}

// renderCommand creates the render command for generating network diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a network diagram to SVG, DOT, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show shapes and roles in node labels")
	cmd.Flags().BoolVar(&opts.horizontal, "horizontal", false, "lay the diagram out left-to-right")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Source:     input,
		Formats:    opts.formats,
		Detailed:   opts.detailed,
		Horizontal: opts.horizontal,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %s", input))

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(base, format, opts.output, len(opts.formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.ConnectionCount, result.CacheInfo.RenderHit)
	return nil
}

// knownExtensions is the set of format extensions stripped from output paths.
var knownExtensions = map[string]bool{"svg": true, "dot": true, "json": true}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// format extension, that extension is stripped so per-format suffixes can be
// appended.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if knownExtensions[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath builds the file name for one rendered format. A single format
// with an explicit output keeps that path verbatim; otherwise the format is
// appended as the extension.
func outputPath(base, format, output string, formatCount int) string {
	if formatCount == 1 && output != "" {
		return output
	}
	return base + "." + format
}

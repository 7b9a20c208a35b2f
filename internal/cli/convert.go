package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netform/netform/pkg/graph"
	"github.com/netform/netform/pkg/manifest"
	"github.com/netform/netform/pkg/netio"
)

// convertCommand creates the convert command for translating between the
// TOML manifest and JSON document formats.
func (c *CLI) convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a network between TOML manifest and JSON document formats",
		Long: `Convert reads a network from the input file and writes it to the output
file. Formats are chosen by file extension: .toml for manifests, .json for
documents. Converting between the same format normalizes the file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args[0], args[1])
		},
	}

	return cmd
}

func runConvert(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)

	net, err := loadByExtension(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded network", "nodes", net.NodeCount(), "connections", net.ConnectionCount())

	if err := saveByExtension(net, output); err != nil {
		return err
	}

	printSuccess("converted %s", input)
	printFile(output)
	return nil
}

func loadByExtension(path string) (*graph.Network, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return manifest.Load(path)
	case ".json":
		return netio.Import(path)
	default:
		return nil, fmt.Errorf("unsupported input extension %q (expected .toml or .json)", ext)
	}
}

func saveByExtension(net *graph.Network, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return manifest.Save(net, path)
	case ".json":
		return netio.Export(net, path)
	default:
		return fmt.Errorf("unsupported output extension %q (expected .toml or .json)", ext)
	}
}

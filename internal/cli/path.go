package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netform/netform/pkg/graph"
	"github.com/netform/netform/pkg/pipeline"
)

// pathCommand creates the path command for finding a connection path
// between two nodes.
func (c *CLI) pathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path [file] [from] [to]",
		Short: "Find the shortest connection path between two nodes",
		Long: `Path searches the network for the shortest directed path from one node to
another. The reported path excludes the start node and includes the end node,
so a direct connection prints a single name.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPath(cmd.Context(), args[0], args[1], args[2])
		},
	}

	return cmd
}

func (c *CLI) runPath(ctx context.Context, input, from, to string) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	net, err := runner.Load(ctx, pipeline.Options{Source: input, Logger: logger})
	if err != nil {
		return err
	}

	path, found, err := net.FindPath(from, to)
	if err != nil {
		return err
	}
	if !found {
		printWarning("no path from %s to %s", from, to)
		return nil
	}

	printSuccess("path found (%d hops)", len(path))
	printDetail("%s", pathLine(from, path))
	return nil
}

// pathLine renders the full route on one line, start node included.
func pathLine(from string, path []*graph.Node) string {
	names := make([]string, 0, len(path)+1)
	names = append(names, from)
	for _, n := range path {
		names = append(names, n.Name)
	}
	return strings.Join(names, " "+iconArrow+" ")
}

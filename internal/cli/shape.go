package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netform/netform/pkg/pipeline"
	"github.com/netform/netform/pkg/shape"
)

// shapeCommand creates the shape command for inferring the shape of nested data.
func (c *CLI) shapeCommand() *cobra.Command {
	var inline, networkPath, nodeName string

	cmd := &cobra.Command{
		Use:   "shape [file]",
		Short: "Infer the shape of a nested JSON value",
		Long: `Shape infers the dimensional structure of an arbitrarily nested JSON value,
either from a file or from an inline --json payload. Regular values yield a
dimension tuple such as (2, 3); ragged values yield per-branch tuples.

With --network and --node, the inferred shape is additionally checked against
the node's declared shape.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			switch {
			case inline != "":
				data = []byte(inline)
			case len(args) == 1:
				var err error
				data, err = os.ReadFile(args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("provide a file argument or --json payload")
			}
			return c.runShape(cmd.Context(), data, networkPath, nodeName)
		},
	}

	cmd.Flags().StringVar(&inline, "json", "", "inline JSON payload instead of a file")
	cmd.Flags().StringVar(&networkPath, "network", "", "network file to validate the data against")
	cmd.Flags().StringVar(&nodeName, "node", "", "node whose declared shape the data must match")

	return cmd
}

func (c *CLI) runShape(ctx context.Context, data []byte, networkPath, nodeName string) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	form, err := shape.FormOf(value)
	if err != nil {
		return err
	}
	s := shape.ShapeOf(form)

	printKeyValue("form", form.String())
	printKeyValue("shape", s.String())
	if s.Ragged() {
		printKeyValue("ragged", "yes")
		for i, b := range s.Branches {
			printDetail("branch %d: %s", i, b.String())
		}
	} else {
		printKeyValue("ragged", "no")
		printKeyValue("dims", formatDims(s.Dims))
	}

	if networkPath == "" && nodeName == "" {
		return nil
	}
	if networkPath == "" || nodeName == "" {
		return fmt.Errorf("--network and --node must be given together")
	}
	return c.checkDeclared(ctx, networkPath, nodeName, value)
}

// checkDeclared validates the data against a node's declared shape.
func (c *CLI) checkDeclared(ctx context.Context, networkPath, nodeName string, value any) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	net, err := runner.Load(ctx, pipeline.Options{Source: networkPath, Logger: logger})
	if err != nil {
		return err
	}
	if err := pipeline.ValidateData(net, nodeName, value); err != nil {
		return err
	}
	node, _ := net.Node(nodeName)
	printSuccess("data matches %s declared shape %s", nodeName, node.Shape)
	return nil
}

// formatDims renders a dimension tuple as space-separated extents, or "scalar"
// for the empty tuple.
func formatDims(dims []int) string {
	if len(dims) == 0 {
		return "scalar"
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

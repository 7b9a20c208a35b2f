package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/netform/netform/pkg/graph"
	"github.com/netform/netform/pkg/pipeline"
)

// inspectCommand creates the inspect command for analyzing a network.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache, refresh, interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Analyze a network: roles, build order, and structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], noCache, refresh, interactive)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse nodes interactively")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, noCache, refresh, interactive bool) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := newProgress(logger)
	opts := pipeline.Options{Source: input, Refresh: refresh, Logger: logger}
	net, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	analysis, cached, err := runner.AnalyzeWithCacheInfo(ctx, net, pipeline.NetworkHash(net), opts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Analyzed %s", input))

	if interactive {
		return browseNodes(net)
	}

	printAnalysis(net, analysis, cached)
	return nil
}

func printAnalysis(net *graph.Network, a pipeline.Analysis, cached bool) {
	title := a.Name
	if title == "" {
		title = "(unnamed network)"
	}
	fmt.Println(StyleTitle.Render(title))
	printStats(a.NodeCount, a.ConnectionCount, cached)
	fmt.Println()

	if a.Acyclic {
		printKeyValue("structure", "acyclic")
	} else {
		printKeyValue("structure", StyleError.Render("cyclic, no build order exists"))
	}
	printKeyValue("inputs", strings.Join(a.Inputs, ", "))
	printKeyValue("outputs", strings.Join(a.Outputs, ", "))
	if len(a.BuildOrder) > 0 {
		printKeyValue("build order", strings.Join(a.BuildOrder, " "+iconArrow+" "))
	}
	for _, name := range a.ShapeConflicts {
		printWarning("%s: display shape does not fit the declared shape", name)
	}
	fmt.Println()

	for _, node := range net.Nodes() {
		line := fmt.Sprintf("%-20s %-12s", node.Name, renderRole(node.Role().String()))
		if node.Shape != nil {
			line += " " + StyleDim.Render("shape "+node.Shape.String())
		}
		if node.Display != nil {
			line += " " + StyleDim.Render("display "+node.Display.String())
		}
		fmt.Println("  " + line)
	}
}

// browseNodes starts the interactive node browser.
func browseNodes(net *graph.Network) error {
	model := NewNodeListModel(net)
	_, err := tea.NewProgram(model).Run()
	return err
}

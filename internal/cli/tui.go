package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/netform/netform/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// NodeListModel is the bubbletea model for browsing a network's nodes.
// The upper pane lists nodes with role and shape; the lower pane shows the
// connections of the node under the cursor.
type NodeListModel struct {
	Network *graph.Network
	Nodes   []*graph.Node
	Cursor  int
	Height  int
	Offset  int
}

// NewNodeListModel creates a node browser over the network's nodes in
// registration order.
func NewNodeListModel(net *graph.Network) NodeListModel {
	return NodeListModel{
		Network: net,
		Nodes:   net.Nodes(),
		Height:  15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	title := m.Network.Name()
	if title == "" {
		title = "network"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		display := "—"
		if n.Display != nil {
			display = n.Display.String()
		}

		rows = append(rows, []string{
			cursor,
			n.Name,
			n.Role().String(),
			n.Shape.String(),
			display,
			fmt.Sprintf("%d/%d", len(n.Incoming), len(n.Outgoing)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Role", "Shape", "Display", "In/Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			if actualIdx == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				if style, ok := roleStyles[m.Nodes[actualIdx].Role().String()]; ok {
					return style
				}
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if m.Cursor < len(m.Nodes) {
		n := m.Nodes[m.Cursor]
		b.WriteString(listDimStyle.Render("  " + n.Summary()))
		b.WriteString("\n")
		if len(n.Incoming) > 0 {
			b.WriteString(listDimStyle.Render("  from: " + strings.Join(n.Incoming, ", ")))
			b.WriteString("\n")
		}
		if len(n.Outgoing) > 0 {
			b.WriteString(listDimStyle.Render("  to:   " + strings.Join(n.Outgoing, ", ")))
			b.WriteString("\n")
		}
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

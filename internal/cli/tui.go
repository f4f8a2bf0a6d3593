package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/treematch/pkg/pipeline"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	pathStyle    = lipgloss.NewStyle().Foreground(colorWhite)
)

// =============================================================================
// PairModel - Interactive matched-pair browser
// =============================================================================

// PairModel is the bubbletea model for browsing the matched pairs of a
// comparison. The selected pair's root paths are shown below the table.
type PairModel struct {
	T1, T2 *tree.Tree
	Mode   pipeline.Mode
	Match  *subtree.Result
	Cursor int
	Height int
	Offset int
}

func newPairModel(t1, t2 *tree.Tree, mode pipeline.Mode, m *subtree.Result) PairModel {
	return PairModel{T1: t1, T2: t2, Mode: mode, Match: m, Height: 15}
}

func (m PairModel) Init() tea.Cmd {
	return nil
}

func (m PairModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Match.Pairs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Match.Pairs)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m PairModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · value %g", m.Mode, m.Match.Value)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	pairs := m.Match.Pairs
	if len(pairs) == 0 {
		b.WriteString(listDimStyle.Render("  no matched nodes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(pairs))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		p := pairs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.Node1, displayName(m.T1, p.Node1), p.Node2, displayName(m.T2, p.Node2)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node 1", "Label", "Node 2", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 2 || col == 4 {
				base = base.Foreground(colorGray)
			}
			if m.Offset+row == m.Cursor {
				if col == 2 || col == 4 {
					return base.Bold(true)
				}
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	sel := pairs[m.Cursor]
	b.WriteString(listDimStyle.Render("  tree 1  ") + pathStyle.Render(rootPath(m.T1, sel.Node1)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  tree 2  ") + pathStyle.Render(rootPath(m.T2, sel.Node2)))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(pairs))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func displayName(t *tree.Tree, id string) string {
	if n, ok := t.Node(id); ok {
		return n.DisplayName()
	}
	return "—"
}

// rootPath renders the chain of display names from the root down to id.
func rootPath(t *tree.Tree, id string) string {
	var names []string
	for cur, ok := id, true; ok; cur, ok = t.Parent(cur) {
		names = append(names, displayName(t, cur))
	}
	slices.Reverse(names)
	return strings.Join(names, " › ")
}

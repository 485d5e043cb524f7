package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nodegroup/pkg/ident"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// groupKeyMap holds the bindings of the group browser.
type groupKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Open key.Binding
	Back key.Binding
	Quit key.Binding
}

var groupKeys = groupKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace", "left", "h"),
		key.WithHelp("←", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpLine renders bindings as "key desc" pairs.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, "  ")
}

// previewWidth caps the member preview column in the group table.
const previewWidth = 60

// =============================================================================
// GroupListModel - Interactive group browser
// =============================================================================

// GroupListModel is the bubbletea model for browsing groups. The list view
// shows one row per group; enter opens the members of the current group.
type GroupListModel struct {
	Groups [][]ident.ID
	Cursor int
	Height int
	Offset int

	// Open is the index of the group being inspected, or -1 in list view.
	Open int
	// MemberCursor and MemberOffset scroll the member view.
	MemberCursor int
	MemberOffset int
}

// NewGroupListModel creates a new group list model.
func NewGroupListModel(groups [][]ident.ID) GroupListModel {
	return GroupListModel{
		Groups: groups,
		Height: 15,
		Open:   -1,
	}
}

func (m GroupListModel) Init() tea.Cmd {
	return nil
}

func (m GroupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Open >= 0 {
			return m.updateMembers(msg)
		}
		switch {
		case key.Matches(msg, groupKeys.Quit), msg.Type == tea.KeyEsc:
			return m, tea.Quit
		case key.Matches(msg, groupKeys.Up):
			m.Cursor, m.Offset = scrollUp(m.Cursor, m.Offset)
		case key.Matches(msg, groupKeys.Down):
			m.Cursor, m.Offset = scrollDown(m.Cursor, m.Offset, len(m.Groups), m.Height)
		case key.Matches(msg, groupKeys.Open):
			if len(m.Groups) == 0 {
				return m, nil
			}
			m.Open = m.Cursor
			m.MemberCursor, m.MemberOffset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GroupListModel) updateMembers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	members := m.Groups[m.Open]
	switch {
	case key.Matches(msg, groupKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, groupKeys.Back):
		m.Open = -1
	case key.Matches(msg, groupKeys.Up):
		m.MemberCursor, m.MemberOffset = scrollUp(m.MemberCursor, m.MemberOffset)
	case key.Matches(msg, groupKeys.Down):
		m.MemberCursor, m.MemberOffset = scrollDown(m.MemberCursor, m.MemberOffset, len(members), m.Height)
	}
	return m, nil
}

func scrollUp(cursor, offset int) (int, int) {
	if cursor > 0 {
		cursor--
		if cursor < offset {
			offset = cursor
		}
	}
	return cursor, offset
}

func scrollDown(cursor, offset, n, height int) (int, int) {
	if cursor < n-1 {
		cursor++
		if cursor >= offset+height {
			offset = cursor - height + 1
		}
	}
	return cursor, offset
}

func (m GroupListModel) View() string {
	if m.Open >= 0 {
		return m.membersView()
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(helpLine(groupKeys.Up, groupKeys.Down, groupKeys.Open, groupKeys.Quit)))
	b.WriteString("\n\n")

	if len(m.Groups) == 0 {
		b.WriteString(listDimStyle.Render("  no identifiers"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Groups))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		members := m.Groups[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(members)),
			typeSummary(members),
			preview(members, previewWidth),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Group", "Size", "Types", "Members").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Groups))))

	return b.String()
}

func (m GroupListModel) membersView() string {
	var b strings.Builder
	members := m.Groups[m.Open]

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Group %d", m.Open+1)))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(plural(len(members), "member")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(helpLine(groupKeys.Up, groupKeys.Down, groupKeys.Back, groupKeys.Quit)))
	b.WriteString("\n\n")

	end := min(m.MemberOffset+m.Height, len(members))
	for i := m.MemberOffset; i < end; i++ {
		id := members[i]
		cursor := "  "
		if i == m.MemberCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-16s %s", cursor, id.Type(), id.Name())
		if i == m.MemberCursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.MemberCursor+1, len(members))))
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// typeSummary lists the distinct identifier types of a group in first-seen
// order, with counts when a type repeats.
func typeSummary(members []ident.ID) string {
	counts := make(map[string]int)
	var order []string
	for _, id := range members {
		if counts[id.Type()] == 0 {
			order = append(order, id.Type())
		}
		counts[id.Type()]++
	}
	parts := make([]string, len(order))
	for i, typ := range order {
		if n := counts[typ]; n > 1 {
			parts[i] = fmt.Sprintf("%s×%d", typ, n)
		} else {
			parts[i] = typ
		}
	}
	return strings.Join(parts, " ")
}

// preview joins canonical member strings, truncating to width runes.
func preview(members []ident.ID, width int) string {
	parts := make([]string, len(members))
	for i, id := range members {
		parts[i] = id.String()
	}
	s := []rune(strings.Join(parts, ", "))
	if len(s) <= width {
		return string(s)
	}
	return string(s[:width-1]) + "…"
}

// Package quit is the confirmation shown before leaving the program.
package quit

import (
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/tujuhre12/togglelist/internal/tui/styles"
	"github.com/tujuhre12/togglelist/internal/tui/util"
)

const question = "Are you sure you want to quit?"

// CloseMsg is sent when the dialog is dismissed without quitting.
type CloseMsg struct{}

type Dialog interface {
	util.Model
	KeyMap() KeyMap
}

type dialog struct {
	selectedNo bool
	keymap     KeyMap
}

// New returns a dialog with "No" selected.
func New() Dialog {
	return &dialog{
		selectedNo: true,
		keymap:     DefaultKeyMap(),
	}
}

func (q *dialog) Init() tea.Cmd {
	return nil
}

func (q *dialog) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, q.keymap.Switch):
			q.selectedNo = !q.selectedNo
		case key.Matches(msg, q.keymap.Confirm):
			if q.selectedNo {
				return q, util.CmdHandler(CloseMsg{})
			}
			return q, tea.Quit
		case key.Matches(msg, q.keymap.Yes):
			return q, tea.Quit
		case key.Matches(msg, q.keymap.No):
			return q, util.CmdHandler(CloseMsg{})
		}
	}
	return q, nil
}

func (q *dialog) View() string {
	t := styles.CurrentTheme()
	baseStyle := t.S().Base

	var yesStyle, noStyle lipgloss.Style
	selected := baseStyle.Foreground(t.White).Background(t.Secondary)
	unselected := baseStyle.Background(t.BgSubtle)
	if q.selectedNo {
		noStyle, yesStyle = selected, unselected
	} else {
		noStyle, yesStyle = unselected, selected
	}

	const horizontalPadding = 3
	yesButton := yesStyle.PaddingLeft(horizontalPadding).Underline(true).Render("Y") +
		yesStyle.PaddingRight(horizontalPadding).Render("ep!")
	noButton := noStyle.PaddingLeft(horizontalPadding).Underline(true).Render("N") +
		noStyle.PaddingRight(horizontalPadding).Render("ope")

	buttons := baseStyle.Width(lipgloss.Width(question)).Align(lipgloss.Right).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, yesButton, "  ", noButton),
	)

	content := baseStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Center,
			question,
			"",
			buttons,
		),
	)

	return baseStyle.
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Render(content)
}

func (q *dialog) KeyMap() KeyMap {
	return q.keymap
}

package quit

import (
	"github.com/charmbracelet/bubbles/v2/key"
)

// KeyMap holds the dialog's bindings. ctrl+c is left to the program, which
// quits on it without asking.
type KeyMap struct {
	Switch  key.Binding
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Switch: key.NewBinding(
			key.WithKeys("left", "right", "h", "l", "tab"),
			key.WithHelp("←/→", "switch"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "quit"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "stay"),
		),
	}
}

// ShortHelp fits the single help line under the list.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Switch, k.Confirm}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Yes, k.No},
		{k.Switch, k.Confirm},
	}
}

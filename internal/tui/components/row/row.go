// Package row renders a single item of the toggle list.
package row

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/tujuhre12/togglelist/internal/items"
	"github.com/tujuhre12/togglelist/internal/memo"
	"github.com/tujuhre12/togglelist/internal/metrics"
	"github.com/tujuhre12/togglelist/internal/tui/exp/list"
	"github.com/tujuhre12/togglelist/internal/tui/styles"
)

const (
	statusActive   = "active"
	statusInactive = "inactive"
	separator      = " is "
	ellipsis       = "…"
	padding        = 1
)

// Toggler flips the active flag of the item at index.
type Toggler interface {
	ToggleItemActive(index int) tea.Cmd
}

// Data is shared by every row of the list. A new *Data means the items or
// the toggler changed and every mounted row has to be rendered again.
type Data struct {
	Items  *items.Store
	Toggle Toggler
}

// NewDataFunc returns a constructor for *Data that hands back the previous
// value while both arguments are unchanged.
func NewDataFunc(m *metrics.Metrics) func(*items.Store, Toggler) *Data {
	var computed bool
	create := memo.Last2(func(store *items.Store, toggle Toggler) *Data {
		computed = true
		return &Data{Items: store, Toggle: toggle}
	})
	return func(store *items.Store, toggle Toggler) *Data {
		computed = false
		data := create(store, toggle)
		m.ItemData(!computed)
		return data
	}
}

// Render is a list.RowFunc for *Data.
func Render(index int, style list.Style, data *Data) list.Row {
	if data == nil {
		return list.Row{}
	}
	item := data.Items.At(index)
	if item == nil {
		return list.Row{}
	}

	t := styles.CurrentTheme()
	base := t.S().RowEven
	if index%2 == 1 {
		base = t.S().RowOdd
	}

	status, statusStyle := statusInactive, t.S().Inactive
	if item.IsActive {
		status, statusStyle = statusActive, t.S().Active
	}
	statusStyle = statusStyle.Background(base.GetBackground())

	labelWidth := style.Width - 2*padding - ansi.StringWidth(separator+status)
	label := ansi.Truncate(item.Label, max(0, labelWidth), ellipsis)

	content := base.Render(label+separator) + statusStyle.Render(status)

	var onClick func() tea.Cmd
	if data.Toggle != nil {
		onClick = func() tea.Cmd {
			return data.Toggle.ToggleItemActive(index)
		}
	}

	return list.Row{
		Content: base.
			Padding(0, padding).
			Width(style.Width).
			MaxWidth(style.Width).
			Height(style.Height).
			Render(content),
		OnClick: onClick,
	}
}

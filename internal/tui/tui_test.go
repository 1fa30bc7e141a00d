package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tujuhre12/togglelist/internal/config"
	"github.com/tujuhre12/togglelist/internal/items"
	"github.com/tujuhre12/togglelist/internal/metrics"
	"github.com/tujuhre12/togglelist/internal/tui/util"
)

func fruitStore() *items.Store {
	labels := []string{"apple", "banana", "cherry", "date", "elderberry"}
	list := make([]*items.Item, len(labels))
	for i, label := range labels {
		list[i] = &items.Item{ID: "id-" + label, Label: label}
	}
	return items.NewStore(list...)
}

func testOptions() config.Options {
	opts := config.Defaults()
	opts.Height = 10
	return opts
}

func newTestModel(t *testing.T, options ...Option) (*Model, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	options = append([]Option{WithStore(fruitStore()), WithMetrics(m)}, options...)
	model := New(testOptions(), options...)
	model.Init()
	return model, m
}

func press(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code, Text: text})
}

// collect runs cmd and returns the messages it produced, flattening
// batches. Commands that tick must not be passed here.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestToggleItemActive(t *testing.T) {
	t.Parallel()

	t.Run("replaces the store and shares untouched items", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)
		before := m.Store()

		assert.Nil(t, m.ToggleItemActive(2))

		after := m.Store()
		assert.NotSame(t, before, after)
		assert.True(t, after.At(2).IsActive)
		assert.False(t, before.At(2).IsActive)
		for _, i := range []int{0, 1, 3, 4} {
			assert.Same(t, before.At(i), after.At(i))
		}
	})

	t.Run("the list sees the new store after update", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.ToggleItemActive(2)
		m.Update(util.ClearStatusMsg{})

		assert.Same(t, m.Store(), m.list.Data().Items)
		view := ansi.Strip(m.render())
		assert.Contains(t, view, "cherry is active")
		assert.Contains(t, view, "apple is inactive")
		assert.Contains(t, view, "5 items · 1 active")

		w, _ := m.list.GetSize()
		snapshot := m.header(m.store, w+2*borderSize) + "\n" + m.list.View()
		golden.RequireEqual(t, []byte(ansi.Strip(snapshot)))
	})

	t.Run("out of range is reported and changes nothing", func(t *testing.T) {
		t.Parallel()
		m, reg := newTestModel(t)
		before := m.Store()
		data := m.list.Data()

		cmd := m.ToggleItemActive(99)
		require.NotNil(t, cmd)
		assert.Same(t, before, m.Store())

		info, ok := cmd().(util.InfoMsg)
		require.True(t, ok)
		assert.Equal(t, util.InfoTypeError, info.Type)
		assert.Contains(t, info.Msg, "out of range")

		m.Update(info)
		assert.Same(t, data, m.list.Data())
		assert.Contains(t, ansi.Strip(m.render()), "out of range")
		assert.Equal(t, 1.0, testutil.ToFloat64(reg.Toggles("error")))
	})
}

func TestItemDataMemoization(t *testing.T) {
	t.Parallel()

	m, reg := newTestModel(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ItemDataComputations()))

	first := m.list.Data()
	m.Update(util.ClearStatusMsg{})
	m.Update(util.ClearStatusMsg{})
	assert.Same(t, first, m.list.Data())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ItemDataComputations()))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.ItemDataHits()))

	m.ToggleItemActive(0)
	m.Update(util.ClearStatusMsg{})
	assert.NotSame(t, first, m.list.Data())
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.ItemDataComputations()))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Toggles("ok")))
}

func TestInput(t *testing.T) {
	t.Parallel()

	t.Run("space toggles the cursor row", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(press(tea.KeySpace, " "))
		assert.True(t, m.Store().At(0).IsActive)

		m.Update(press(tea.KeyDown, ""))
		m.Update(press(tea.KeySpace, " "))
		assert.True(t, m.Store().At(1).IsActive)

		m.Update(press(tea.KeySpace, " "))
		assert.False(t, m.Store().At(1).IsActive)
	})

	t.Run("click toggles the row under the pointer", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(tea.MouseClickMsg{X: 5, Y: headerHeight + borderSize + 3, Button: tea.MouseLeft})
		assert.True(t, m.Store().At(3).IsActive)
		assert.Equal(t, 3, m.list.Cursor())
		assert.Contains(t, ansi.Strip(m.render()), "date is active")
	})

	t.Run("clicks on the header do nothing", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)
		before := m.Store()

		m.Update(tea.MouseClickMsg{X: 5, Y: 0, Button: tea.MouseLeft})
		assert.Same(t, before, m.Store())
	})

	t.Run("quit asks first", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		_, cmd := m.Update(press('q', "q"))
		require.NotNil(t, m.quitDialog)
		assert.False(t, m.list.IsFocused())
		assert.Contains(t, ansi.Strip(m.render()), "Are you sure you want to quit?")
		assert.NotPanics(t, func() { collect(cmd) })

		_, cmd = m.Update(press('n', "n"))
		msgs := collect(cmd)
		require.Len(t, msgs, 1)
		m.Update(msgs[0])
		assert.Nil(t, m.quitDialog)
		assert.True(t, m.list.IsFocused())

		m.Update(press('q', "q"))
		_, cmd = m.Update(press('y', "y"))
		assert.Equal(t, []tea.Msg{tea.QuitMsg{}}, collect(cmd))
	})

	t.Run("mouse is ignored while the quit dialog is open", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)
		before := m.Store()

		m.Update(press('q', "q"))
		require.NotNil(t, m.quitDialog)
		m.Update(tea.MouseClickMsg{X: 5, Y: headerHeight + borderSize + 3, Button: tea.MouseLeft})
		m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})

		assert.Same(t, before, m.Store())
		assert.Equal(t, 0, m.list.Cursor())
		assert.Equal(t, 0, m.list.Offset())
	})

	t.Run("mouse is ignored while jumping", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)
		before := m.Store()

		m.Update(press('/', "/"))
		require.True(t, m.jumping)
		m.Update(tea.MouseClickMsg{X: 5, Y: headerHeight + borderSize + 3, Button: tea.MouseLeft})

		assert.Same(t, before, m.Store())
		assert.Equal(t, 0, m.list.Cursor())
	})

	t.Run("ctrl+c quits at once", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		_, cmd := m.Update(tea.KeyPressMsg(tea.Key{Code: 'c', Mod: tea.ModCtrl}))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("help toggles the full key list", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(press('?', "?"))
		assert.True(t, m.help.ShowAll)
		assert.Contains(t, ansi.Strip(m.render()), "page down")
	})
}

func TestJump(t *testing.T) {
	t.Parallel()

	t.Run("jumps to the best match", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(press('/', "/"))
		require.True(t, m.jumping)
		assert.False(t, m.list.IsFocused())

		m.jump.SetValue("chry")
		m.Update(press(tea.KeyEnter, ""))
		assert.False(t, m.jumping)
		assert.True(t, m.list.IsFocused())
		assert.Equal(t, 2, m.list.Cursor())
	})

	t.Run("escape cancels", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(press('/', "/"))
		m.jump.SetValue("date")
		m.Update(press(tea.KeyEscape, ""))
		assert.False(t, m.jumping)
		assert.Equal(t, 0, m.list.Cursor())
	})

	t.Run("keys go to the prompt while jumping", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(press('/', "/"))
		m.Update(press('q', "q"))
		assert.True(t, m.jumping)
		m.Update(press(tea.KeySpace, " "))
		assert.False(t, m.Store().At(0).IsActive)
	})

	t.Run("labels are computed once per store", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		first := m.labels(m.Store())
		again := m.labels(m.Store())
		assert.Same(t, &first[0], &again[0])

		m.ToggleItemActive(0)
		next := m.labels(m.Store())
		assert.NotSame(t, &first[0], &next[0])
		assert.Equal(t, first, next)
	})

	t.Run("no match warns", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		cmd := m.JumpTo("zzz")
		require.NotNil(t, cmd)
		info, ok := cmd().(util.InfoMsg)
		require.True(t, ok)
		assert.Equal(t, util.InfoTypeWarn, info.Type)
	})
}

func TestCopyLabel(t *testing.T) {
	t.Parallel()

	t.Run("copies the cursor label", func(t *testing.T) {
		t.Parallel()
		var copied []string
		m, _ := newTestModel(t, WithClipboard(func(s string) error {
			copied = append(copied, s)
			return nil
		}))
		m.list.SetCursor(1)

		_, cmd := m.Update(press('y', "y"))
		msgs := collect(cmd)
		assert.Equal(t, []string{"banana"}, copied)
		require.Len(t, msgs, 1)
		info := msgs[0].(util.InfoMsg)
		assert.Equal(t, util.InfoTypeInfo, info.Type)
		assert.Contains(t, info.Msg, "banana")
	})

	t.Run("clipboard errors are reported", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t, WithClipboard(func(string) error {
			return errors.New("no clipboard")
		}))

		_, cmd := m.Update(press('y', "y"))
		msgs := collect(cmd)
		require.Len(t, msgs, 1)
		info := msgs[0].(util.InfoMsg)
		assert.Equal(t, util.InfoTypeError, info.Type)
		assert.Contains(t, info.Msg, "no clipboard")
	})
}

func TestLayout(t *testing.T) {
	t.Parallel()

	t.Run("configured size is clamped to the terminal", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestModel(t)

		m.Update(tea.WindowSizeMsg{Width: 30, Height: 40})
		w, h := m.list.GetSize()
		assert.Equal(t, 28, w)
		assert.Equal(t, 10, h)
	})

	t.Run("zero fills the terminal", func(t *testing.T) {
		t.Parallel()
		opts := testOptions()
		opts.Width, opts.Height = 0, 0
		m := New(opts, WithStore(fruitStore()))
		m.Init()

		m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
		w, h := m.list.GetSize()
		assert.Equal(t, 78, w)
		assert.Equal(t, 20-headerHeight-2*borderSize-statusHeight-1, h)
	})

	t.Run("generates items from the configuration", func(t *testing.T) {
		t.Parallel()
		opts := testOptions()
		opts.Count = 30
		opts.Seed = 7
		m := New(opts)

		assert.Equal(t, 30, m.Store().Len())
		assert.Equal(t, 30, m.list.Len())
		assert.Equal(t, items.Generate(30, ItemOptions(opts)...).Labels(), m.Store().Labels())
	})
}

// Package tui is the Bubble Tea program: a windowed list of items whose
// active flag can be toggled by click or keyboard.
package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/sahilm/fuzzy"
	"github.com/tujuhre12/togglelist/internal/config"
	"github.com/tujuhre12/togglelist/internal/items"
	"github.com/tujuhre12/togglelist/internal/memo"
	"github.com/tujuhre12/togglelist/internal/metrics"
	"github.com/tujuhre12/togglelist/internal/tui/components/dialogs/quit"
	"github.com/tujuhre12/togglelist/internal/tui/components/row"
	"github.com/tujuhre12/togglelist/internal/tui/exp/list"
	"github.com/tujuhre12/togglelist/internal/tui/styles"
	"github.com/tujuhre12/togglelist/internal/tui/util"
)

const (
	headerHeight = 1
	statusHeight = 1
	borderSize   = 1

	defaultStatusTTL = 4 * time.Second
)

// clearStatusMsg expires the status with the same sequence number.
type clearStatusMsg struct {
	seq int
}

type Option func(*Model)

func WithMetrics(m *metrics.Metrics) Option {
	return func(model *Model) {
		model.metrics = m
	}
}

// WithStore replaces the generated items.
func WithStore(store *items.Store) Option {
	return func(model *Model) {
		model.store = store
	}
}

// WithClipboard sets the function used to copy labels.
func WithClipboard(write func(string) error) Option {
	return func(model *Model) {
		model.writeClipboard = write
	}
}

// Model owns the item store. It is the only place the store is replaced,
// and it hands the list a new row.Data exactly when that happens.
type Model struct {
	opts          config.Options
	width, height int

	store    *items.Store
	itemData func(*items.Store, row.Toggler) *row.Data
	header   func(*items.Store, int) string
	labels   func(*items.Store) []string

	list     list.List[*row.Data]
	keyMap   KeyMap
	jumpKeys jumpKeyMap
	help     help.Model
	jump     textinput.Model
	jumping  bool
	// open quit confirmation, nil when closed
	quitDialog quit.Dialog

	status    util.InfoMsg
	statusSeq int

	metrics        *metrics.Metrics
	writeClipboard func(string) error
}

// ItemOptions translates the configuration into item generation options.
func ItemOptions(opts config.Options) []items.GenerateOption {
	var genOpts []items.GenerateOption
	if opts.Seed != 0 {
		genOpts = append(genOpts, items.WithSeed(opts.Seed))
	}
	if opts.UniqueLabels {
		genOpts = append(genOpts, items.WithUniqueLabels())
	}
	return genOpts
}

func New(opts config.Options, options ...Option) *Model {
	t := styles.CurrentTheme()

	m := &Model{
		opts:           opts,
		keyMap:         DefaultKeyMap(),
		jumpKeys:       defaultJumpKeyMap(),
		writeClipboard: clipboard.WriteAll,
	}
	for _, o := range options {
		o(m)
	}
	if m.store == nil {
		m.store = items.Generate(opts.Count, ItemOptions(opts)...)
	}

	m.itemData = row.NewDataFunc(m.metrics)
	m.header = memo.Last2(renderHeader)
	m.labels = memo.Last((*items.Store).Labels)

	m.help = help.New()
	m.help.Styles = t.S().Help

	m.jump = textinput.New()
	m.jump.Prompt = "/ "
	m.jump.Placeholder = "label"

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = config.Defaults().Width
	}
	if height <= 0 {
		height = config.Defaults().Height
	}

	m.list = list.New(m.store.Len(), opts.ItemSize, row.Render,
		list.WithSize[*row.Data](width, height),
		list.WithPosition[*row.Data](borderSize, headerHeight+borderSize),
		list.WithOverscan[*row.Data](opts.Overscan),
		list.WithItemKey(itemKey),
		list.WithKeyMap[*row.Data](m.keyMap.List),
		list.WithEnableMouse[*row.Data](),
		list.WithMetrics[*row.Data](m.metrics),
		list.WithData(m.itemData(m.store, m)),
	)
	return m
}

// itemKey keys rows by item ID so a row keeps its cache entry for as long as
// it shows the same item.
func itemKey(index int, data *row.Data) string {
	if data != nil {
		if item := data.Items.At(index); item != nil {
			return item.ID
		}
	}
	return strconv.Itoa(index)
}

func (m *Model) Init() tea.Cmd {
	return m.list.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cmds = append(cmds, m.layout())
	case util.InfoMsg:
		cmds = append(cmds, m.setStatus(msg))
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = util.InfoMsg{}
		}
	case util.ClearStatusMsg:
		m.status = util.InfoMsg{}
	case quit.CloseMsg:
		m.quitDialog = nil
		cmds = append(cmds, m.list.Focus(), m.layout())
	case tea.KeyPressMsg:
		if key.Matches(msg, m.keyMap.ForceQuit) {
			return m, tea.Quit
		}
		if m.quitDialog != nil {
			u, cmd := m.quitDialog.Update(msg)
			m.quitDialog = u.(quit.Dialog)
			cmds = append(cmds, cmd)
			break
		}
		if m.jumping {
			cmds = append(cmds, m.updateJump(msg))
			break
		}
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.quitDialog = quit.New()
			cmds = append(cmds, m.list.Blur(), m.layout())
		case key.Matches(msg, m.keyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
			cmds = append(cmds, m.layout())
		case key.Matches(msg, m.keyMap.Jump):
			cmds = append(cmds, m.startJump())
		case key.Matches(msg, m.keyMap.Copy):
			cmds = append(cmds, m.copyLabel())
		default:
			cmds = append(cmds, m.updateList(msg))
		}
	case tea.MouseClickMsg, tea.MouseWheelMsg:
		// modals own the input
		if m.quitDialog == nil && !m.jumping {
			cmds = append(cmds, m.updateList(msg))
		}
	default:
		cmds = append(cmds, m.updateList(msg))
	}

	// parent before child: the list sees the new data in the same update
	// that replaced the store
	cmds = append(cmds, m.list.SetData(m.itemData(m.store, m)))
	return m, tea.Batch(cmds...)
}

func (m *Model) updateList(msg tea.Msg) tea.Cmd {
	u, cmd := m.list.Update(msg)
	m.list = u.(list.List[*row.Data])
	return cmd
}

// ToggleItemActive replaces the store with one where the item at index has
// its active flag flipped. An invalid index leaves the store untouched and
// reports the error.
func (m *Model) ToggleItemActive(index int) tea.Cmd {
	next, err := m.store.Toggle(index)
	m.metrics.Toggled(err)
	if err != nil {
		return util.ReportError(fmt.Errorf("failed to toggle item: %w", err))
	}
	m.store = next
	slog.Debug("Item toggled", "index", index, "active", next.At(index).IsActive)
	return nil
}

// Store returns the current item store.
func (m *Model) Store() *items.Store {
	return m.store
}

func (m *Model) setStatus(msg util.InfoMsg) tea.Cmd {
	m.status = msg
	m.statusSeq++
	seq := m.statusSeq
	ttl := msg.TTL
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) startJump() tea.Cmd {
	m.jumping = true
	m.jump.Reset()
	return tea.Batch(m.list.Blur(), m.jump.Focus(), m.layout())
}

func (m *Model) stopJump() tea.Cmd {
	m.jumping = false
	m.jump.Blur()
	return tea.Batch(m.list.Focus(), m.layout())
}

func (m *Model) updateJump(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.jumpKeys.Cancel):
		return m.stopJump()
	case key.Matches(msg, m.jumpKeys.Accept):
		query := strings.TrimSpace(m.jump.Value())
		cmd := m.stopJump()
		if query == "" {
			return cmd
		}
		return tea.Batch(cmd, m.JumpTo(query))
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return cmd
}

// JumpTo moves the cursor to the label that best matches query.
func (m *Model) JumpTo(query string) tea.Cmd {
	matches := fuzzy.Find(query, m.labels(m.store))
	if len(matches) == 0 {
		return util.ReportWarn(fmt.Sprintf("No label matches %q", query))
	}
	index := matches[0].Index
	slog.Debug("Jumping to label", "query", query, "index", index, "label", matches[0].Str)
	return tea.Batch(
		m.list.ScrollToItem(index, list.AlignSmart),
		m.list.SetCursor(index),
	)
}

func (m *Model) copyLabel() tea.Cmd {
	item := m.store.At(m.list.Cursor())
	if item == nil {
		return nil
	}
	if err := m.writeClipboard(item.Label); err != nil {
		return util.ReportError(fmt.Errorf("failed to copy label: %w", err))
	}
	return util.ReportInfo(fmt.Sprintf("Copied %q", item.Label))
}

// layout sizes the list to the terminal. A configured size of zero fills
// the available space; anything larger is clamped to it.
func (m *Model) layout() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	availWidth := m.width - 2*borderSize
	availHeight := m.height - headerHeight - 2*borderSize - statusHeight - lipgloss.Height(m.helpView())

	width, height := availWidth, availHeight
	if m.opts.Width > 0 {
		width = min(m.opts.Width, availWidth)
	}
	if m.opts.Height > 0 {
		height = min(m.opts.Height, availHeight)
	}
	return m.list.SetSize(max(1, width), max(1, height))
}

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	t := styles.CurrentTheme()
	width, height := m.list.GetSize()

	var body string
	if m.quitDialog != nil {
		body = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.quitDialog.View())
	} else {
		body = t.S().Base.
			Width(width).
			Height(height).
			Render(m.list.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header(m.store, width+2*borderSize),
		t.S().ListBorder.Render(body),
		m.statusView(),
		m.helpView(),
	)
}

func renderHeader(store *items.Store, width int) string {
	t := styles.CurrentTheme()
	title := styles.ApplyBoldForegroundGrad("togglelist", t.Primary, t.Secondary)
	counts := t.S().Subtle.Render(fmt.Sprintf("%d items · %d active", store.Len(), store.ActiveCount()))
	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(counts))
	return title + strings.Repeat(" ", gap) + counts
}

func (m *Model) statusView() string {
	t := styles.CurrentTheme()
	if m.jumping {
		return m.jump.View()
	}
	if m.status.Msg != "" {
		switch m.status.Type {
		case util.InfoTypeError:
			return t.S().ErrorStatus.Render(m.status.Msg)
		case util.InfoTypeWarn:
			return t.S().WarnStatus.Render(m.status.Msg)
		default:
			return t.S().InfoStatus.Render(m.status.Msg)
		}
	}
	cursor := m.list.Cursor()
	if cursor < 0 {
		return t.S().Muted.Render("no items")
	}
	return t.S().Muted.Render(fmt.Sprintf("row %d of %d", cursor+1, m.store.Len()))
}

func (m *Model) helpView() string {
	if m.quitDialog != nil {
		return m.help.View(m.quitDialog.KeyMap())
	}
	if m.jumping {
		return m.help.View(m.jumpKeys)
	}
	return m.help.View(m.keyMap)
}

package list

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/tujuhre12/togglelist/internal/metrics"
	"github.com/tujuhre12/togglelist/internal/tui/styles"
	"github.com/tujuhre12/togglelist/internal/tui/util"
)

// Style positions a row inside the list. Top is measured from the top of
// the whole list, not the viewport.
type Style struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Row is what a RowFunc produces for one index.
type Row struct {
	Content string
	// OnClick runs when the row is clicked or toggled with the keyboard.
	OnClick func() tea.Cmd
}

// RowFunc renders the row at index. It must be pure: the list only calls it
// again when index, style or data changed.
type RowFunc[D comparable] func(index int, style Style, data D) Row

type Align int

const (
	AlignAuto Align = iota
	AlignSmart
	AlignCenter
	AlignStart
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignSmart:
		return "smart"
	case AlignCenter:
		return "center"
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	default:
		return "auto"
	}
}

type List[D comparable] interface {
	util.Model

	SetSize(width, height int) tea.Cmd
	GetSize() (int, int)
	// SetPosition sets the screen cell of the list's top left corner, used
	// for hit-testing clicks.
	SetPosition(x, y int)

	Focus() tea.Cmd
	Blur() tea.Cmd
	IsFocused() bool

	// SetData replaces the data passed to every row. Passing the value the
	// list already holds does nothing.
	SetData(D) tea.Cmd
	Data() D
	Len() int

	Offset() int
	ScrollTo(offset int) tea.Cmd
	ScrollToItem(index int, align Align) tea.Cmd
	MoveUp(int) tea.Cmd
	MoveDown(int) tea.Cmd

	Cursor() int
	SetCursor(index int) tea.Cmd
	CursorUp(int) tea.Cmd
	CursorDown(int) tea.Cmd
	GoToTop() tea.Cmd
	GoToBottom() tea.Cmd
	// Activate runs the click handler of the row under the cursor.
	Activate() tea.Cmd
	HandleClick(x, y int) tea.Cmd

	// VisibleRange returns the first and last index intersecting the
	// viewport. OverscanRange widens it by the overscan count.
	VisibleRange() (int, int)
	OverscanRange() (int, int)
}

const (
	ItemNotFound              = -1
	ViewportDefaultScrollSize = 2
	DefaultOverscan           = 2

	gutterWidth = 1
	cursorMark  = "▌"
)

type rowProps[D comparable] struct {
	Index int
	Style Style
	Data  D
}

type mountedRow[D comparable] struct {
	props rowProps[D]
	row   Row
	lines []string
}

type confOptions[D comparable] struct {
	width, height int
	x, y          int
	overscan      int
	keyMap        KeyMap
	focused       bool
	enableMouse   bool
	itemKey       func(index int, data D) string
	metrics       *metrics.Metrics
	data          D
}

type list[D comparable] struct {
	*confOptions[D]

	count    int
	itemSize int
	renderFn RowFunc[D]

	offset int
	cursor int

	// mounted rows by key
	mounted  map[string]*mountedRow[D]
	rendered string
}

type ListOption[D comparable] func(*confOptions[D])

// WithSize sets the size of the list.
func WithSize[D comparable](width, height int) ListOption[D] {
	return func(l *confOptions[D]) {
		l.width = width
		l.height = height
	}
}

// WithPosition sets the screen position of the list.
func WithPosition[D comparable](x, y int) ListOption[D] {
	return func(l *confOptions[D]) {
		l.x = x
		l.y = y
	}
}

func WithData[D comparable](data D) ListOption[D] {
	return func(l *confOptions[D]) {
		l.data = data
	}
}

// WithOverscan sets how many rows are rendered beyond each viewport edge.
// Values below one are raised to one.
func WithOverscan[D comparable](n int) ListOption[D] {
	return func(l *confOptions[D]) {
		l.overscan = n
	}
}

// WithItemKey sets the key rows are cached under. The default is the index.
func WithItemKey[D comparable](fn func(index int, data D) string) ListOption[D] {
	return func(l *confOptions[D]) {
		l.itemKey = fn
	}
}

func WithKeyMap[D comparable](keyMap KeyMap) ListOption[D] {
	return func(l *confOptions[D]) {
		l.keyMap = keyMap
	}
}

func WithEnableMouse[D comparable]() ListOption[D] {
	return func(l *confOptions[D]) {
		l.enableMouse = true
	}
}

func WithMetrics[D comparable](m *metrics.Metrics) ListOption[D] {
	return func(l *confOptions[D]) {
		l.metrics = m
	}
}

// New creates a list of count rows, each itemSize lines tall.
func New[D comparable](count, itemSize int, render RowFunc[D], opts ...ListOption[D]) List[D] {
	l := &list[D]{
		confOptions: &confOptions[D]{
			overscan: DefaultOverscan,
			keyMap:   DefaultKeyMap(),
			focused:  true,
		},
		count:    max(0, count),
		itemSize: max(1, itemSize),
		renderFn: render,
		mounted:  make(map[string]*mountedRow[D]),
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}
	return l
}

// Init implements List.
func (l *list[D]) Init() tea.Cmd {
	l.render()
	return nil
}

// Update implements List.
func (l *list[D]) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		if l.enableMouse && l.focused {
			return l, l.handleMouseWheel(msg)
		}
		return l, nil
	case tea.MouseClickMsg:
		if l.enableMouse && l.focused && msg.Button == tea.MouseLeft {
			return l, l.HandleClick(msg.X, msg.Y)
		}
		return l, nil
	case tea.KeyPressMsg:
		if !l.focused {
			return l, nil
		}
		switch {
		case key.Matches(msg, l.keyMap.Down):
			return l, l.CursorDown(1)
		case key.Matches(msg, l.keyMap.Up):
			return l, l.CursorUp(1)
		case key.Matches(msg, l.keyMap.PageDown):
			return l, l.CursorDown(l.pageRows())
		case key.Matches(msg, l.keyMap.PageUp):
			return l, l.CursorUp(l.pageRows())
		case key.Matches(msg, l.keyMap.HalfPageDown):
			return l, l.CursorDown(max(1, l.pageRows()/2))
		case key.Matches(msg, l.keyMap.HalfPageUp):
			return l, l.CursorUp(max(1, l.pageRows()/2))
		case key.Matches(msg, l.keyMap.Home):
			return l, l.GoToTop()
		case key.Matches(msg, l.keyMap.End):
			return l, l.GoToBottom()
		case key.Matches(msg, l.keyMap.Toggle):
			return l, l.Activate()
		}
	}
	return l, nil
}

func (l *list[D]) handleMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseWheelDown:
		cmd = l.MoveDown(ViewportDefaultScrollSize)
	case tea.MouseWheelUp:
		cmd = l.MoveUp(ViewportDefaultScrollSize)
	}
	return cmd
}

// View implements List.
func (l *list[D]) View() string {
	return l.rendered
}

func (l *list[D]) SetSize(width, height int) tea.Cmd {
	if width == l.width && height == l.height {
		return nil
	}
	l.width = max(0, width)
	l.height = max(0, height)
	l.offset = l.clampOffset(l.offset)
	l.keepCursorVisible()
	l.render()
	return nil
}

func (l *list[D]) GetSize() (int, int) {
	return l.width, l.height
}

func (l *list[D]) SetPosition(x, y int) {
	l.x = x
	l.y = y
}

func (l *list[D]) Focus() tea.Cmd {
	l.focused = true
	l.render()
	return nil
}

func (l *list[D]) Blur() tea.Cmd {
	l.focused = false
	l.render()
	return nil
}

func (l *list[D]) IsFocused() bool {
	return l.focused
}

func (l *list[D]) SetData(data D) tea.Cmd {
	if data == l.data {
		return nil
	}
	l.data = data
	slog.Debug("List data changed", "mounted", len(l.mounted))
	l.render()
	return nil
}

func (l *list[D]) Data() D {
	return l.data
}

func (l *list[D]) Len() int {
	return l.count
}

func (l *list[D]) Offset() int {
	return l.offset
}

func (l *list[D]) Cursor() int {
	if l.count == 0 {
		return ItemNotFound
	}
	return l.cursor
}

// ScrollTo moves the viewport to offset cells from the top. The cursor is
// pulled along when it would leave the viewport.
func (l *list[D]) ScrollTo(offset int) tea.Cmd {
	offset = l.clampOffset(offset)
	if offset == l.offset {
		return nil
	}
	l.offset = offset
	l.keepCursorVisible()
	l.render()
	return nil
}

// ScrollToItem scrolls so that index is visible, placed according to align.
func (l *list[D]) ScrollToItem(index int, align Align) tea.Cmd {
	if l.count == 0 {
		return nil
	}
	index = util.Clamp(index, 0, l.count-1)
	return l.ScrollTo(l.offsetForIndex(index, align))
}

func (l *list[D]) offsetForIndex(index int, align Align) int {
	size := l.itemSize
	lastItemOffset := max(0, l.count*size-l.height)
	maxOffset := min(lastItemOffset, index*size)
	minOffset := max(0, index*size-l.height+size)

	if align == AlignSmart {
		if l.offset >= minOffset-l.height && l.offset <= maxOffset+l.height {
			align = AlignAuto
		} else {
			align = AlignCenter
		}
	}

	switch align {
	case AlignStart:
		return maxOffset
	case AlignEnd:
		return minOffset
	case AlignCenter:
		middle := int(math.Round(float64(minOffset) + float64(maxOffset-minOffset)/2))
		if middle < int(math.Ceil(float64(l.height)/2)) {
			return 0
		}
		if middle > lastItemOffset+l.height/2 {
			return lastItemOffset
		}
		return middle
	default:
		if l.offset >= minOffset && l.offset <= maxOffset {
			return l.offset
		}
		if l.offset < minOffset {
			return minOffset
		}
		return maxOffset
	}
}

func (l *list[D]) MoveUp(n int) tea.Cmd {
	return l.ScrollTo(l.offset - n)
}

func (l *list[D]) MoveDown(n int) tea.Cmd {
	return l.ScrollTo(l.offset + n)
}

// SetCursor moves the cursor to index and scrolls it into view.
func (l *list[D]) SetCursor(index int) tea.Cmd {
	if l.count == 0 {
		return nil
	}
	index = util.Clamp(index, 0, l.count-1)
	changed := index != l.cursor
	l.cursor = index
	offset := l.clampOffset(l.offsetForIndex(index, AlignAuto))
	if offset != l.offset {
		l.offset = offset
		changed = true
	}
	if changed {
		l.render()
	}
	return nil
}

func (l *list[D]) CursorUp(n int) tea.Cmd {
	return l.SetCursor(l.cursor - n)
}

func (l *list[D]) CursorDown(n int) tea.Cmd {
	return l.SetCursor(l.cursor + n)
}

func (l *list[D]) GoToTop() tea.Cmd {
	return l.SetCursor(0)
}

func (l *list[D]) GoToBottom() tea.Cmd {
	return l.SetCursor(l.count - 1)
}

func (l *list[D]) Activate() tea.Cmd {
	if l.count == 0 {
		return nil
	}
	return l.click(l.cursor)
}

// HandleClick hit-tests the screen cell (x, y) and runs the click handler of
// the row under it.
func (l *list[D]) HandleClick(x, y int) tea.Cmd {
	area := uv.Rect(l.x, l.y, l.width, l.height)
	if !uv.Pos(x, y).In(area) {
		return nil
	}
	index := (l.offset + y - l.y) / l.itemSize
	if index < 0 || index >= l.count {
		return nil
	}
	slog.Debug("List row clicked", "index", index, "x", x, "y", y)
	l.SetCursor(index)
	return l.click(index)
}

func (l *list[D]) click(index int) tea.Cmd {
	var row Row
	if m, ok := l.mounted[l.key(index)]; ok && m.props.Index == index {
		row = m.row
	} else {
		// not mounted, render without caching
		row = l.renderFn(index, l.itemStyle(index), l.data)
	}
	if row.OnClick == nil {
		return nil
	}
	return row.OnClick()
}

func (l *list[D]) VisibleRange() (int, int) {
	if l.count == 0 || l.height <= 0 {
		return 0, -1
	}
	size := l.itemSize
	start := util.Clamp(l.offset/size, 0, l.count-1)
	top := start * size
	n := int(math.Ceil(float64(l.height+l.offset-top) / float64(size)))
	stop := util.Clamp(start+n-1, start, l.count-1)
	return start, stop
}

func (l *list[D]) OverscanRange() (int, int) {
	start, stop := l.VisibleRange()
	if stop < start {
		return start, stop
	}
	overscan := max(1, l.overscan)
	return max(0, start-overscan), min(l.count-1, stop+overscan)
}

func (l *list[D]) pageRows() int {
	return max(1, l.height/l.itemSize)
}

func (l *list[D]) maxOffset() int {
	return max(0, l.count*l.itemSize-l.height)
}

func (l *list[D]) clampOffset(offset int) int {
	return util.Clamp(offset, 0, l.maxOffset())
}

func (l *list[D]) keepCursorVisible() {
	if l.count == 0 {
		return
	}
	start, stop := l.VisibleRange()
	if stop < start {
		return
	}
	l.cursor = util.Clamp(l.cursor, start, stop)
}

func (l *list[D]) key(index int) string {
	if l.itemKey != nil {
		return l.itemKey(index, l.data)
	}
	return strconv.Itoa(index)
}

func (l *list[D]) itemStyle(index int) Style {
	return Style{
		Top:    index * l.itemSize,
		Left:   gutterWidth,
		Width:  max(0, l.width-gutterWidth),
		Height: l.itemSize,
	}
}

// render mounts the overscan range, reusing rows whose props are unchanged,
// unmounts everything else and rebuilds the visible lines.
func (l *list[D]) render() {
	if l.width <= 0 || l.height <= 0 || l.count == 0 {
		clear(l.mounted)
		l.rendered = ""
		return
	}
	started := time.Now()

	start, stop := l.OverscanRange()
	keep := make(map[string]struct{}, stop-start+1)
	lines := make([]string, 0, (stop-start+1)*l.itemSize)

	for i := start; i <= stop; i++ {
		k := l.key(i)
		keep[k] = struct{}{}
		props := rowProps[D]{Index: i, Style: l.itemStyle(i), Data: l.data}

		m, ok := l.mounted[k]
		if ok && m.props == props {
			l.metrics.RowSkipped()
		} else {
			row := l.renderFn(props.Index, props.Style, props.Data)
			m = &mountedRow[D]{
				props: props,
				row:   row,
				lines: rowLines(row.Content, props.Style.Width, props.Style.Height),
			}
			l.mounted[k] = m
			l.metrics.RowRendered()
		}
		lines = append(lines, l.withGutter(i, m.lines)...)
	}

	for k := range l.mounted {
		if _, ok := keep[k]; !ok {
			delete(l.mounted, k)
		}
	}

	// lines start at the top of row `start`
	from := util.Clamp(l.offset-start*l.itemSize, 0, len(lines))
	to := min(from+l.height, len(lines))
	l.rendered = strings.Join(lines[from:to], "\n")

	visStart, visStop := l.VisibleRange()
	l.metrics.Rendered(visStop-visStart+1, len(l.mounted), l.offset, time.Since(started))
}

func (l *list[D]) withGutter(index int, lines []string) []string {
	gutter := strings.Repeat(" ", gutterWidth)
	if index == l.cursor {
		t := styles.CurrentTheme()
		style := t.S().Cursor
		if !l.focused {
			style = t.S().Muted
		}
		gutter = style.Render(cursorMark)
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = gutter + line
	}
	return out
}

// rowLines splits content into exactly height lines of width cells.
func rowLines(content string, width, height int) []string {
	src := strings.Split(content, "\n")
	lines := make([]string, height)
	for i := range lines {
		var line string
		if i < len(src) {
			line = ansi.Truncate(src[i], width, "")
		}
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		lines[i] = line
	}
	return lines
}

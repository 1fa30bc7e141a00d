package styles

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	White color.Color

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base   lipgloss.Style
	Title  lipgloss.Style
	Subtle lipgloss.Style
	Muted  lipgloss.Style

	Help help.Styles

	// Rows alternate background so the window edges stay visible while
	// scrolling.
	RowEven lipgloss.Style
	RowOdd  lipgloss.Style

	Active   lipgloss.Style
	Inactive lipgloss.Style
	Cursor   lipgloss.Style

	ListBorder lipgloss.Style

	InfoStatus  lipgloss.Style
	WarnStatus  lipgloss.Style
	ErrorStatus lipgloss.Style
}

// NewCharmtoneTheme is the default dark theme.
func NewCharmtoneTheme() *Theme {
	return &Theme{
		Name:   "charmtone",
		IsDark: true,

		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Tertiary:  charmtone.Bok,

		BgBase:    charmtone.Pepper,
		BgSubtle:  charmtone.BBQ,
		BgOverlay: charmtone.Charcoal,

		FgBase:   charmtone.Ash,
		FgMuted:  charmtone.Squid,
		FgSubtle: charmtone.Oyster,

		Border:      charmtone.Charcoal,
		BorderFocus: charmtone.Dolly,

		Success: charmtone.Guac,
		Error:   charmtone.Sriracha,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,

		White: charmtone.Butter,
	}
}

func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:   base,
		Title:  base.Foreground(t.Primary).Bold(true),
		Subtle: base.Foreground(t.FgSubtle),
		Muted:  base.Foreground(t.FgMuted),

		Help: help.Styles{
			ShortKey:       base.Foreground(t.FgMuted),
			ShortDesc:      base.Foreground(t.FgSubtle),
			ShortSeparator: base.Foreground(t.Border),
			Ellipsis:       base.Foreground(t.Border),
			FullKey:        base.Foreground(t.FgMuted),
			FullDesc:       base.Foreground(t.FgSubtle),
			FullSeparator:  base.Foreground(t.Border),
		},

		RowEven: base.Background(t.BgBase),
		RowOdd:  base.Background(t.BgSubtle),

		Active:   base.Foreground(t.Success).Bold(true),
		Inactive: base.Foreground(t.Error),
		Cursor:   base.Foreground(t.Secondary).Bold(true),

		ListBorder: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus),

		InfoStatus:  base.Foreground(t.BgBase).Background(t.Info).Padding(0, 1),
		WarnStatus:  base.Foreground(t.BgBase).Background(t.Warning).Padding(0, 1),
		ErrorStatus: base.Foreground(t.White).Background(t.Error).Padding(0, 1),
	}
}

var (
	currentTheme *Theme
	themeMu      sync.RWMutex
)

// CurrentTheme returns the active theme, creating the default on first use.
func CurrentTheme() *Theme {
	themeMu.RLock()
	t := currentTheme
	themeMu.RUnlock()
	if t != nil {
		return t
	}

	themeMu.Lock()
	defer themeMu.Unlock()
	if currentTheme == nil {
		currentTheme = NewCharmtoneTheme()
	}
	return currentTheme
}

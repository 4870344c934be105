// Package tui draws settings tabs on a terminal with tcell.
//
// Keys: Tab/Shift-Tab move focus, typing edits the focused text field,
// Backspace deletes, Enter clicks the focused button, PgUp/PgDn switch tabs
// and Esc closes the panel.
package tui

import (
	"errors"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/opennotes/internal/form"
	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/notice"
)

// ErrNoTabs is returned by Run when no tab was added.
var ErrNoTabs = errors.New("tui: no setting tabs")

// FormTab is a setting tab that renders into a form container.
type FormTab interface {
	host.SettingTab
	Container() *form.Container
}

// NoticeSource supplies the notices shown on the bottom line.
type NoticeSource interface {
	Active() []notice.Notice
}

// Styles used when drawing.
type Styles struct {
	Base        tcell.Style
	Tab         tcell.Style
	ActiveTab   tcell.Style
	Heading     tcell.Style
	Label       tcell.Style
	Placeholder tcell.Style
	Focused     tcell.Style
	Warning     tcell.Style
	Notice      map[notice.Level]tcell.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Base:        base,
		Tab:         base.Foreground(tcell.ColorSilver),
		ActiveTab:   base.Bold(true).Reverse(true),
		Heading:     base.Bold(true),
		Label:       base.Foreground(tcell.ColorTeal),
		Placeholder: base.Foreground(tcell.ColorGray),
		Focused:     base.Reverse(true),
		Warning:     base.Foreground(tcell.ColorRed),
		Notice: map[notice.Level]tcell.Style{
			notice.Info:    base.Foreground(tcell.ColorGreen),
			notice.Warning: base.Foreground(tcell.ColorYellow),
			notice.Error:   base.Foreground(tcell.ColorRed).Bold(true),
		},
	}
}

// Option configures a Panel.
type Option func(*Panel)

// WithNotices shows notices from src on the last screen line.
func WithNotices(src NoticeSource) Option {
	return func(p *Panel) { p.notices = src }
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(p *Panel) { p.styles = s }
}

// Panel is a PanelHost drawing onto a tcell screen. The caller owns the
// screen's Init and Fini.
type Panel struct {
	screen  tcell.Screen
	styles  Styles
	notices NoticeSource

	mu     sync.Mutex
	tabs   []host.SettingTab
	active int
	focus  int
	scroll int
}

// New creates a panel drawing on screen.
func New(screen tcell.Screen, opts ...Option) *Panel {
	p := &Panel{
		screen: screen,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddSettingTab adds a tab. The first tab added is active.
func (p *Panel) AddSettingTab(tab host.SettingTab) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tabs = append(p.tabs, tab)
}

// Tabs returns the added tabs in order.
func (p *Panel) Tabs() []host.SettingTab {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]host.SettingTab, len(p.tabs))
	copy(out, p.tabs)
	return out
}

// Active returns the active tab, or nil.
func (p *Panel) Active() host.SettingTab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeTab()
}

func (p *Panel) activeTab() host.SettingTab {
	if len(p.tabs) == 0 {
		return nil
	}
	return p.tabs[p.active]
}

// Show asks the active tab to rebuild itself, then draws.
func (p *Panel) Show() {
	if tab := p.Active(); tab != nil {
		tab.Display()
	}
	p.Draw()
}

// Post queues fn to run on the event loop, followed by a redraw. It is
// safe to call from any goroutine.
func (p *Panel) Post(fn func()) error {
	return p.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Run shows the panel and processes events until Esc or Ctrl-C.
func (p *Panel) Run() error {
	if len(p.Tabs()) == 0 {
		return ErrNoTabs
	}
	p.Show()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if p.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent processes one event and redraws. It reports whether the
// panel should close.
func (p *Panel) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if p.handleKey(ev) {
			return true
		}
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok && fn != nil {
			fn()
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	p.Draw()
	return false
}

func (p *Panel) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab, tcell.KeyDown:
		p.moveFocus(1)
	case tcell.KeyBacktab, tcell.KeyUp:
		p.moveFocus(-1)
	case tcell.KeyPgDn:
		p.switchTab(1)
	case tcell.KeyPgUp:
		p.switchTab(-1)
	case tcell.KeyEnter:
		if btn, ok := p.focused().(*form.Button); ok {
			btn.Click()
			p.clampFocus()
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if t, ok := p.focused().(*form.Text); ok {
			v := []rune(t.Value())
			if len(v) > 0 {
				t.Input(string(v[:len(v)-1]))
			}
		}
	case tcell.KeyRune:
		if t, ok := p.focused().(*form.Text); ok {
			t.Input(t.Value() + string(ev.Rune()))
		}
	}
	return false
}

// Focused returns the focused control, or nil.
func (p *Panel) Focused() form.Control {
	return p.focused()
}

func (p *Panel) controls() []form.Control {
	p.mu.Lock()
	tab := p.activeTab()
	p.mu.Unlock()

	ft, ok := tab.(FormTab)
	if !ok {
		return nil
	}
	return ft.Container().Controls()
}

func (p *Panel) focused() form.Control {
	ctls := p.controls()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focus < 0 || p.focus >= len(ctls) {
		return nil
	}
	return ctls[p.focus]
}

func (p *Panel) moveFocus(delta int) {
	n := len(p.controls())
	p.mu.Lock()
	defer p.mu.Unlock()
	if n == 0 {
		p.focus = 0
		return
	}
	p.focus = ((p.focus+delta)%n + n) % n
}

// clampFocus keeps focus in range after the form was rebuilt.
func (p *Panel) clampFocus() {
	n := len(p.controls())
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focus >= n {
		p.focus = n - 1
	}
	if p.focus < 0 {
		p.focus = 0
	}
}

func (p *Panel) switchTab(delta int) {
	p.mu.Lock()
	n := len(p.tabs)
	if n < 2 {
		p.mu.Unlock()
		return
	}
	p.active = ((p.active+delta)%n + n) % n
	p.focus, p.scroll = 0, 0
	tab := p.tabs[p.active]
	p.mu.Unlock()

	tab.Display()
}

// line is one drawn row. ctl is the control on the row, if any.
type line struct {
	text  string
	style tcell.Style
	ctl   form.Control
	// value is drawn after text with its own style.
	value      string
	valueStyle tcell.Style
}

// Draw renders the tab bar, the active tab and the notices.
func (p *Panel) Draw() {
	w, h := p.screen.Size()
	p.screen.Clear()

	p.mu.Lock()
	tabs := make([]host.SettingTab, len(p.tabs))
	copy(tabs, p.tabs)
	active := p.active
	p.mu.Unlock()

	x := 0
	for i, tab := range tabs {
		style := p.styles.Tab
		if i == active {
			style = p.styles.ActiveTab
		}
		x = p.drawText(x, 0, w, " "+tab.Title()+" ", style) + 1
	}

	focused := p.focused()
	var lines []line
	if len(tabs) > 0 {
		if ft, ok := tabs[active].(FormTab); ok {
			lines = p.layout(ft.Container(), w)
		}
	}

	top, bottom := 2, h-1
	p.scrollTo(lines, focused, bottom-top)

	p.mu.Lock()
	scroll := p.scroll
	p.mu.Unlock()

	for i := scroll; i < len(lines) && top+i-scroll < bottom; i++ {
		ln := lines[i]
		style := ln.style
		valueStyle := ln.valueStyle
		if ln.ctl != nil && ln.ctl == focused {
			style = p.styles.Focused
			valueStyle = p.styles.Focused
		}
		y := top + i - scroll
		end := p.drawText(0, y, w, ln.text, style)
		p.drawText(end, y, w, ln.value, valueStyle)
	}

	if p.notices != nil && h > 0 {
		if shown := p.notices.Active(); len(shown) > 0 {
			n := shown[len(shown)-1]
			style, ok := p.styles.Notice[n.Level]
			if !ok {
				style = p.styles.Base
			}
			p.drawText(0, h-1, w, n.Message, style)
		}
	}

	p.screen.Show()
}

// scrollTo keeps the focused control within height rows.
func (p *Panel) scrollTo(lines []line, focused form.Control, height int) {
	if height <= 0 || focused == nil {
		return
	}
	idx := -1
	for i, ln := range lines {
		if ln.ctl == focused {
			idx = i
			break
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if idx < 0 {
		return
	}
	if idx < p.scroll {
		p.scroll = idx
	}
	if idx >= p.scroll+height {
		p.scroll = idx - height + 1
	}
}

func (p *Panel) layout(c *form.Container, width int) []line {
	st := p.styles
	var lines []line
	for _, el := range c.Elements() {
		switch el := el.(type) {
		case *form.Heading:
			if len(lines) > 0 {
				lines = append(lines, line{})
			}
			lines = append(lines, line{text: el.Text, style: st.Heading})
		case *form.Paragraph:
			for _, l := range wrap(el.Text, width) {
				lines = append(lines, line{text: l, style: st.Base})
			}
		case *form.List:
			for _, item := range el.Items {
				for i, l := range wrap(item, width-2) {
					prefix := "  "
					if i == 0 {
						prefix = "• "
					}
					lines = append(lines, line{text: prefix + l, style: st.Base})
				}
			}
		case *form.Setting:
			lines = append(lines, line{})
			if el.Name != "" {
				text := el.Name
				if el.Desc != "" {
					text += "  " + el.Desc
				}
				lines = append(lines, line{text: text, style: st.Heading})
			}
			for _, ctl := range el.Controls() {
				lines = append(lines, p.controlLine(ctl))
			}
		}
	}
	return lines
}

func (p *Panel) controlLine(ctl form.Control) line {
	st := p.styles
	switch ctl := ctl.(type) {
	case *form.Text:
		ln := line{text: "  " + ctl.Label + ": ", style: st.Label, ctl: ctl}
		if v := ctl.Value(); v != "" {
			ln.value, ln.valueStyle = v, st.Base
		} else {
			ln.value, ln.valueStyle = ctl.Placeholder, st.Placeholder
		}
		return ln
	case *form.Button:
		style := st.Base
		if ctl.Warning {
			style = st.Warning
		}
		return line{text: "  [ " + ctl.Label + " ]", style: style, ctl: ctl}
	}
	return line{ctl: ctl}
}

// drawText writes s at (x, y) clipped to width and returns the column
// after the last cell written. Each grapheme cluster fills one cell, with
// any combining runes attached to its first rune.
func (p *Panel) drawText(x, y, width int, s string, style tcell.Style) int {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		runes := g.Runes()
		p.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}

// wrap splits s into lines no wider than width.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, word := range strings.Fields(s) {
		ww := uniseg.StringWidth(word)
		if curWidth > 0 && curWidth+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += ww
	}
	if cur.Len() > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

var _ host.PanelHost = (*Panel)(nil)

// Package form is the small widget toolkit settings tabs render into.
//
// A tab fills a Container with headings, paragraphs, lists and settings
// rows; each row holds text fields and buttons with change and click
// handlers. Hosts draw the tree (see form/tui) and route user input back
// through Text.Input and Button.Click.
package form

import (
	"fmt"
	"strings"
)

// Element is one node rendered in a Container.
type Element interface {
	dump(b *strings.Builder)
}

// Container holds the elements of a settings tab in display order.
type Container struct {
	elements []Element
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Empty removes every element.
func (c *Container) Empty() {
	c.elements = nil
}

// Elements returns the elements in display order.
func (c *Container) Elements() []Element {
	out := make([]Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Len returns the number of top-level elements.
func (c *Container) Len() int {
	return len(c.elements)
}

// Heading appends a heading. Level 1 is the largest.
func (c *Container) Heading(level int, text string) *Heading {
	h := &Heading{Level: level, Text: text}
	c.elements = append(c.elements, h)
	return h
}

// Paragraph appends a block of text.
func (c *Container) Paragraph(text string) *Paragraph {
	p := &Paragraph{Text: text}
	c.elements = append(c.elements, p)
	return p
}

// List appends a bulleted list.
func (c *Container) List(items ...string) *List {
	l := &List{Items: append([]string(nil), items...)}
	c.elements = append(c.elements, l)
	return l
}

// Setting appends a settings row.
func (c *Container) Setting(name, desc string) *Setting {
	s := &Setting{Name: name, Desc: desc}
	c.elements = append(c.elements, s)
	return s
}

// Settings returns the settings rows in display order.
func (c *Container) Settings() []*Setting {
	var out []*Setting
	for _, el := range c.elements {
		if s, ok := el.(*Setting); ok {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the first settings row with the given name.
func (c *Container) Find(name string) *Setting {
	for _, s := range c.Settings() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Controls returns every control across all rows in display order.
func (c *Container) Controls() []Control {
	var out []Control
	for _, s := range c.Settings() {
		out = append(out, s.controls...)
	}
	return out
}

// Dump renders the tree as indented text. Two containers built the same
// way produce the same dump.
func (c *Container) Dump() string {
	var b strings.Builder
	for _, el := range c.elements {
		el.dump(&b)
	}
	return b.String()
}

// Heading is a section title.
type Heading struct {
	Level int
	Text  string
}

func (h *Heading) dump(b *strings.Builder) {
	level := h.Level
	if level < 1 {
		level = 1
	}
	fmt.Fprintf(b, "%s %s\n", strings.Repeat("#", level), h.Text)
}

// Paragraph is a block of static text.
type Paragraph struct {
	Text string
}

func (p *Paragraph) dump(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n", p.Text)
}

// List is a bulleted list of static text.
type List struct {
	Items []string
}

func (l *List) dump(b *strings.Builder) {
	for _, item := range l.Items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// Setting is a row with a name, description and controls.
type Setting struct {
	Name     string
	Desc     string
	controls []Control
}

// Text adds a text field to the row.
func (s *Setting) Text(label, value string, onChange func(string)) *Text {
	t := &Text{Label: label, value: value, onChange: onChange}
	s.controls = append(s.controls, t)
	return t
}

// Button adds a button to the row.
func (s *Setting) Button(label string, onClick func()) *Button {
	btn := &Button{Label: label, onClick: onClick}
	s.controls = append(s.controls, btn)
	return btn
}

// Controls returns the row's controls in display order.
func (s *Setting) Controls() []Control {
	out := make([]Control, len(s.controls))
	copy(out, s.controls)
	return out
}

// Field returns the text field with the given label.
func (s *Setting) Field(label string) *Text {
	for _, ctl := range s.controls {
		if t, ok := ctl.(*Text); ok && t.Label == label {
			return t
		}
	}
	return nil
}

// ButtonLabeled returns the button with the given label.
func (s *Setting) ButtonLabeled(label string) *Button {
	for _, ctl := range s.controls {
		if btn, ok := ctl.(*Button); ok && btn.Label == label {
			return btn
		}
	}
	return nil
}

func (s *Setting) dump(b *strings.Builder) {
	fmt.Fprintf(b, "[%s]", s.Name)
	if s.Desc != "" {
		fmt.Fprintf(b, " %s", s.Desc)
	}
	b.WriteString("\n")
	for _, ctl := range s.controls {
		b.WriteString("  ")
		ctl.dumpControl(b)
		b.WriteString("\n")
	}
}

// Control is an interactive element inside a Setting.
type Control interface {
	dumpControl(b *strings.Builder)
}

// Text is an editable single-line field.
type Text struct {
	Label       string
	Placeholder string
	value       string
	onChange    func(string)
}

// Value returns the current field value.
func (t *Text) Value() string {
	return t.value
}

// Input replaces the value as if the user typed it and fires the change
// handler.
func (t *Text) Input(value string) {
	t.value = value
	if t.onChange != nil {
		t.onChange(value)
	}
}

func (t *Text) dumpControl(b *strings.Builder) {
	fmt.Fprintf(b, "%s: %q", t.Label, t.value)
}

// Button is a clickable action.
type Button struct {
	Label   string
	Warning bool
	onClick func()
}

// Click fires the click handler.
func (btn *Button) Click() {
	if btn.onClick != nil {
		btn.onClick()
	}
}

func (btn *Button) dumpControl(b *strings.Builder) {
	if btn.Warning {
		fmt.Fprintf(b, "(%s!)", btn.Label)
		return
	}
	fmt.Fprintf(b, "(%s)", btn.Label)
}

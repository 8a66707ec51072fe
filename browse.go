package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcncl/gbln/abi"
	"github.com/mcncl/gbln/internal/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// entry is one child of the container being viewed.
type entry struct {
	label string
	h     abi.Handle
}

// frame is one level of the navigation stack.
type frame struct {
	label    string
	h        abi.Handle
	selected int
}

type browseModel struct {
	b        *abi.Boundary
	root     abi.Handle
	filename string
	stack    []frame
	entries  []entry
	input    textinput.Model
	jumping  bool
	err      error
}

func newBrowseModel(b *abi.Boundary, root abi.Handle, filename string) *browseModel {
	ti := textinput.New()
	ti.Prompt = "path: "
	ti.Placeholder = "user.tags.0"
	ti.Width = 40

	m := &browseModel{
		b:        b,
		root:     root,
		filename: filename,
		input:    ti,
	}
	m.stack = []frame{{label: "", h: root}}
	m.load()
	return m
}

func (m *browseModel) current() *frame {
	return &m.stack[len(m.stack)-1]
}

// load lists the children of the current frame.
func (m *browseModel) load() {
	m.entries = children(m.b, m.current().h)
	if m.current().selected >= len(m.entries) {
		m.current().selected = 0
	}
}

// children lists the fields of an object, in key order, or the elements of
// an array.
// Every handle returned is borrowed from the tree.
func children(b *abi.Boundary, h abi.Handle) []entry {
	switch b.ValueType(h) {
	case abi.KindObject:
		p, n := b.ObjectKeys(h)
		keys := b.Keys(p, n)
		b.KeysFree(p, n)
		sort.Strings(keys)
		out := make([]entry, len(keys))
		for i, k := range keys {
			out[i] = entry{label: k, h: b.ObjectGet(h, k)}
		}
		return out
	case abi.KindArray:
		n := b.ArrayLen(h)
		out := make([]entry, n)
		for i := 0; i < n; i++ {
			out[i] = entry{label: strconv.Itoa(i), h: b.ArrayGet(h, i)}
		}
		return out
	}
	return nil
}

// describe summarises a node on one line.
func describe(b *abi.Boundary, h abi.Handle) string {
	switch kind := b.ValueType(h); kind {
	case abi.KindObject:
		return fmt.Sprintf("{%d fields}", b.ObjectLen(h))
	case abi.KindArray:
		return fmt.Sprintf("[%d items]", b.ArrayLen(h))
	}
	p := b.ToString(h)
	if p == 0 {
		return "?"
	}
	defer b.StringFree(p)
	return b.GoString(p)
}

// resolvePath walks a dotted path from root. Numeric segments index arrays.
func resolvePath(b *abi.Boundary, root abi.Handle, path string) ([]frame, error) {
	stack := []frame{{label: "", h: root}}
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return stack, nil
	}

	h := root
	for _, seg := range strings.Split(path, ".") {
		var next abi.Handle
		if b.ValueType(h) == abi.KindArray {
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("%q is not an array index", seg)
			}
			next = b.ArrayGet(h, i)
		} else {
			next = b.ObjectGet(h, seg)
		}
		if next == abi.NullHandle {
			return nil, fmt.Errorf("no %q at /%s", seg, joinPath(stack))
		}
		stack = append(stack, frame{label: seg, h: next})
		h = next
	}
	return stack, nil
}

func joinPath(stack []frame) string {
	parts := make([]string, 0, len(stack))
	for _, f := range stack[1:] {
		parts = append(parts, f.label)
	}
	return strings.Join(parts, ".")
}

func isContainer(b *abi.Boundary, h abi.Handle) bool {
	k := b.ValueType(h)
	return k == abi.KindObject || k == abi.KindArray
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.jumping {
		switch key.String() {
		case "enter":
			stack, err := resolvePath(m.b, m.root, m.input.Value())
			m.jumping = false
			m.input.Blur()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			// Land on the parent with the target selected.
			last := stack[len(stack)-1]
			if len(stack) > 1 && !isContainer(m.b, last.h) {
				m.stack = stack[:len(stack)-1]
				m.load()
				for i, e := range m.entries {
					if e.h == last.h {
						m.current().selected = i
					}
				}
				return m, nil
			}
			m.stack = stack
			m.load()
			return m, nil
		case "esc", "ctrl+c":
			m.jumping = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.current().selected > 0 {
			m.current().selected--
		}

	case "down", "j":
		if m.current().selected < len(m.entries)-1 {
			m.current().selected++
		}

	case "enter", "right", "l":
		if len(m.entries) == 0 {
			break
		}
		e := m.entries[m.current().selected]
		if isContainer(m.b, e.h) {
			m.stack = append(m.stack, frame{label: e.label, h: e.h})
			m.load()
		}

	case "backspace", "left", "h", "esc":
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			m.load()
		}

	case "/":
		m.jumping = true
		m.err = nil
		m.input.SetValue("")
		return m, m.input.Focus()
	}

	return m, nil
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GBLN Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	b.WriteString("/" + joinPath(m.stack))
	b.WriteString(" ")
	b.WriteString(kindStyle.Render(m.b.ValueType(m.current().h).String()))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(describe(m.b, m.current().h))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		kind := m.b.ValueType(e.h).String()
		desc := describe(m.b, e.h)
		if i == m.current().selected {
			b.WriteString(selectedStyle.Render("> " + e.label + " " + kind + " " + desc))
		} else {
			b.WriteString("  " + keyStyle.Render(e.label) + " " + kindStyle.Render(kind) + " " + desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.jumping {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter jump • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • ← back • / jump • q quit"))
	}

	return b.String()
}

func runBrowse(filename string) error {
	b := abi.New()
	code, root := b.ReadIO(filename)
	if code != abi.CodeOK {
		rec, _ := b.LastError()
		return errors.New(code, rec.Message).WithSuggestion(rec.Suggestion)
	}
	defer b.Free(root)

	p := tea.NewProgram(newBrowseModel(b, root, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

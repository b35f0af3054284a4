package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/script"
	"github.com/wippyai/wast-script/wabt"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type entry struct {
	cmd     *script.Command
	summary string
}

type browserState int

const (
	stateList browserState = iota
	stateDetail
	stateFilter
)

type browserModel struct {
	err      error
	filename string
	source   string
	entries  []entry
	visible  []int
	filter   textinput.Model
	toolPath string
	features wastscript.Features
	floats   script.FloatDecoder
	selected int
	offset   int
	height   int
	state    browserState
}

type loadedMsg struct {
	err     error
	source  string
	entries []entry
}

func newBrowserModel(filename, toolPath string, features wastscript.Features, floats script.FloatDecoder) *browserModel {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"
	filter.Width = 40

	return &browserModel{
		filename: filename,
		toolPath: toolPath,
		features: features,
		floats:   floats,
		filter:   filter,
		height:   24,
		state:    stateList,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadScript
}

func (m *browserModel) loadScript() tea.Msg {
	ctx := context.Background()

	source, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	tool := wabt.NewTool(wabt.WithPath(m.toolPath), wabt.WithFeatures(m.features))
	parser, err := script.NewParser(ctx, source, m.filename,
		script.WithCompiler(tool),
		script.WithFloats(m.floats))
	if err != nil {
		return loadedMsg{err: err}
	}

	var entries []entry
	for {
		cmd, err := parser.Next()
		if err != nil {
			return loadedMsg{err: err}
		}
		if cmd == nil {
			break
		}
		entries = append(entries, entry{cmd: cmd, summary: formatKind(cmd.Kind)})
	}
	return loadedMsg{source: parser.SourceFilename(), entries: entries}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.source = msg.source
		m.entries = msg.entries
		m.applyFilter("")

	case tea.KeyMsg:
		if m.state == stateFilter {
			switch msg.String() {
			case "enter", "esc":
				m.state = stateList
				m.filter.Blur()
			case "ctrl+c":
				return m, tea.Quit
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.applyFilter(m.filter.Value())
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateList && len(m.visible) > 0 {
				m.state = stateDetail
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				m.filter.Focus()
			}

		case "esc":
			switch m.state {
			case stateDetail:
				m.state = stateList
			case stateList:
				if m.filter.Value() != "" {
					m.filter.SetValue("")
					m.applyFilter("")
				}
			}
		}
	}
	return m, nil
}

// applyFilter recomputes the visible index list, keeping entries whose
// summary contains the filter text.
func (m *browserModel) applyFilter(text string) {
	m.visible = m.visible[:0]
	needle := strings.ToLower(text)
	for i, e := range m.entries {
		if needle == "" || strings.Contains(strings.ToLower(e.summary), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.entries == nil {
		return "Compiling script..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wastdump"))
	b.WriteString(" ")
	b.WriteString(m.source)
	fmt.Fprintf(&b, "  (%d/%d commands)\n\n", len(m.visible), len(m.entries))

	switch m.state {
	case stateDetail:
		m.viewDetail(&b)
	default:
		m.viewList(&b)
	}
	return b.String()
}

func (m *browserModel) viewList(b *strings.Builder) {
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}

	end := m.offset + rows
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		e := m.entries[m.visible[i]]
		row := fmt.Sprintf("%5d  %s", e.cmd.Line, e.summary)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter detail • / filter • q quit"))
	}
}

func (m *browserModel) viewDetail(b *strings.Builder) {
	e := m.entries[m.visible[m.selected]]
	fmt.Fprintf(b, "%s %s\n\n", lineStyle.Render(fmt.Sprintf("line %d", e.cmd.Line)), kindStyle.Render(e.summary))

	switch k := e.cmd.Kind.(type) {
	case *script.Module:
		fmt.Fprintf(b, "binary: %d bytes\n", k.Module.Len())
		b.WriteString(hexPreview(k.Module.Bytes()))
	case *script.AssertInvalid:
		fmt.Fprintf(b, "expected failure: %q\n", k.Message)
		b.WriteString(hexPreview(k.Module.Bytes()))
	case *script.AssertMalformed:
		fmt.Fprintf(b, "expected failure: %q\n", k.Message)
		b.WriteString(hexPreview(k.Module.Bytes()))
	case *script.AssertUnlinkable:
		fmt.Fprintf(b, "expected failure: %q\n", k.Message)
		b.WriteString(hexPreview(k.Module.Bytes()))
	case *script.AssertUninstantiable:
		fmt.Fprintf(b, "expected failure: %q\n", k.Message)
		b.WriteString(hexPreview(k.Module.Bytes()))
	case *script.AssertReturn:
		for i, v := range k.Expected {
			fmt.Fprintf(b, "expected[%d]: %s\n", i, formatValue(v))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc back • q quit"))
}

// hexPreview renders the first bytes of a module binary, 16 per row.
func hexPreview(wasm []byte) string {
	const limit = 128
	truncated := len(wasm) > limit
	if truncated {
		wasm = wasm[:limit]
	}

	var b strings.Builder
	for i, by := range wasm {
		if i%16 == 0 {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%04x  ", i)
		}
		fmt.Fprintf(&b, "%02x ", by)
	}
	if truncated {
		b.WriteString("\n...")
	}
	b.WriteString("\n")
	return b.String()
}

func runInteractive(filename, toolPath string, features wastscript.Features, floats script.FloatDecoder) error {
	p := tea.NewProgram(newBrowserModel(filename, toolPath, features, floats), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

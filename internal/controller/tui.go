package controller

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "cnext.dev/pkg/sema/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// TUI implements UI with an interactive pager for long output.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI writing to the given stream.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayReport shows the parameter and rewrite tables in a scrollable pager.
func (t *TUI) DisplayReport(report m.Report) error {
	content := renderParamTable(report)
	if rewrites := renderRewriteTable(report); rewrites != "" {
		content += "\n" + rewrites
	}

	return t.page("Analysis Report", content)
}

// DisplaySymbols shows the symbol listing in a scrollable pager.
func (t *TUI) DisplaySymbols(entries []m.SymbolEntry) error {
	return t.page("Symbol Registry", renderSymbolTable(entries))
}

// DisplayDiff shows a unified report diff in a scrollable pager.
func (t *TUI) DisplayDiff(unified string) error {
	if unified == "" {
		_, err := fmt.Fprintln(t.output, "Reports are identical.")
		return err
	}

	return t.page("Report Diff", unified)
}

// page runs the pager program, or prints directly when the content already
// fits the terminal.
func (t *TUI) page(title, content string) error {
	width, height := t.terminalSize()

	if height == 0 || strings.Count(content, "\n") < height-pagerChromeLines {
		_, err := fmt.Fprintf(t.output, "%s\n%s", titleStyle.Render(title), content)
		return err
	}

	model := newPagerModel(title, content, width, height)

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func (t *TUI) terminalSize() (int, int) {
	f, ok := t.output.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}

	return width, height
}

// pagerChromeLines is the vertical space taken by the title and help rows.
const pagerChromeLines = 3

type pagerModel struct {
	title    string
	viewport viewport.Model
}

func newPagerModel(title, content string, width, height int) pagerModel {
	vp := viewport.New(width, height-pagerChromeLines)
	vp.SetContent(content)

	return pagerModel{title: title, viewport: vp}
}

func (p pagerModel) Init() tea.Cmd {
	return nil
}

func (p pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.viewport.Width = msg.Width
		p.viewport.Height = msg.Height - pagerChromeLines

		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)

	return p, cmd
}

func (p pagerModel) View() string {
	header := titleStyle.Render(p.title)
	footer := helpStyle.Render(fmt.Sprintf("%3.0f%%  ↑/k: up | ↓/j: down | q: quit", p.viewport.ScrollPercent()*100))

	return fmt.Sprintf("%s\n%s\n%s", header, p.viewport.View(), footer)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/scam-tools/scam/lib/app"
	"github.com/scam-tools/scam/lib/modbuild"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type buildDoneMsg struct {
	res *modbuild.Result
	err error
}

type buildModel struct {
	spinner spinner.Model
	title   string
	build   *app.Build
	cancel  context.CancelFunc

	res *modbuild.Result
	err error
}

func (m buildModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := m.build.Wait()
		return buildDoneMsg{res: res, err: err}
	})
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case buildDoneMsg:
		m.res, m.err = msg.res, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.title = "cancelling..."
			m.cancel()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m buildModel) View() string {
	if m.res != nil || m.err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.title)
}

// waitBuild waits for b, showing a spinner when stdout is a terminal.
// cancel stops the packer.
func waitBuild(b *app.Build, cancel context.CancelFunc) (*modbuild.Result, error) {
	if !isTerminal(os.Stdout) {
		return b.Wait()
	}
	m := buildModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		title:   "packing archive...",
		build:   b,
		cancel:  cancel,
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return b.Wait()
	}
	done := final.(buildModel)
	return done.res, done.err
}

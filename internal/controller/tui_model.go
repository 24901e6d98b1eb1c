package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/oxmut/oxmut/internal/model"
)

// Messages fed into the run model by the TUI adapter.
type (
	runInfoMsg struct {
		total      int
		threads    int
		shardIndex int
		shardCount int
	}

	reportMsg struct {
		report m.Report
	}

	runFinishedMsg struct{}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	caughtStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	missedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	subtleStyle  = lipgloss.NewStyle().Faint(true)
	defaultWidth = 60
)

// runModel renders live progress while mutants are built and tested.
type runModel struct {
	spinner  spinner.Model
	progress progress.Model

	total      int
	done       int
	threads    int
	shardIndex int
	shardCount int

	summary  m.Summary
	lastLine string
	finished bool
}

func newRunModel(total int) runModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return runModel{
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		total:    total,
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runInfoMsg:
		rm.total = msg.total
		rm.threads = msg.threads
		rm.shardIndex = msg.shardIndex
		rm.shardCount = msg.shardCount

		return rm, nil

	case reportMsg:
		rm.done++
		rm.applyOutcome(msg.report.Outcome)
		rm.lastLine = fmt.Sprintf("%s %s:%d:%d: %s",
			msg.report.Outcome, msg.report.Path, msg.report.Line, msg.report.Column, msg.report.Description)

		return rm, rm.progress.SetPercent(rm.percent())

	case runFinishedMsg:
		rm.finished = true
		return rm, tea.Quit

	case tea.WindowSizeMsg:
		rm.progress.Width = msg.Width - 4
		if rm.progress.Width > defaultWidth {
			rm.progress.Width = defaultWidth
		}

		return rm, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			rm.finished = true
			return rm, tea.Quit
		}

		return rm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd

	case progress.FrameMsg:
		model, cmd := rm.progress.Update(msg)
		rm.progress = model.(progress.Model)

		return rm, cmd
	}

	return rm, nil
}

func (rm runModel) View() string {
	var b strings.Builder

	title := "oxmut: testing mutants"
	if rm.shardCount > 1 {
		title = fmt.Sprintf("oxmut: testing mutants (shard %d/%d)", rm.shardIndex, rm.shardCount)
	}

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if !rm.finished {
		b.WriteString(rm.spinner.View())
		b.WriteString(" ")
	}

	b.WriteString(fmt.Sprintf("%d/%d mutants tested\n", rm.done, rm.total))
	b.WriteString(rm.progress.View())
	b.WriteString("\n\n")

	b.WriteString(caughtStyle.Render(fmt.Sprintf("caught %d", rm.summary.Caught)))
	b.WriteString("  ")
	b.WriteString(missedStyle.Render(fmt.Sprintf("missed %d", rm.summary.Missed)))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  timeout %d  unviable %d", rm.summary.Timeout, rm.summary.Unviable)))
	b.WriteString("\n")

	if rm.lastLine != "" {
		b.WriteString(subtleStyle.Render(rm.lastLine))
		b.WriteString("\n")
	}

	return b.String()
}

func (rm *runModel) applyOutcome(outcome m.Outcome) {
	switch outcome {
	case m.Caught:
		rm.summary.Caught++
	case m.Missed:
		rm.summary.Missed++
	case m.Timeout:
		rm.summary.Timeout++
	case m.Unviable:
		rm.summary.Unviable++
	case m.Skipped:
		rm.summary.Skipped++
	}
}

func (rm runModel) percent() float64 {
	if rm.total == 0 {
		return 1
	}

	return float64(rm.done) / float64(rm.total)
}

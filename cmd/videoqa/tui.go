package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/a-h/videoqa/client"
	"github.com/a-h/videoqa/form"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type TUICommand struct {
	ServerURL    string `help:"The URL of the videoqa server." env:"VIDEOQA_SERVER_URL" default:"http://127.0.0.1:5000"`
	ServerAPIKey string `help:"The API key for the videoqa server." env:"VIDEOQA_SERVER_API_KEY" default:""`
	LogFile      string `help:"The file to write logs to." env:"LOG_FILE" default:"videoqa.log"`
	LogLevel     string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c TUICommand) Run(ctx context.Context) (err error) {
	// The terminal is in use by the UI, so logs go to a file.
	lf, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer lf.Close()
	log := newLogger(lf, c.LogLevel)

	p := tea.NewProgram(newModel(ctx, log, client.New(c.ServerURL, c.ServerAPIKey)))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var (
	headerStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(Comment).Bold(true)
	outputStyle = lipgloss.NewStyle().Padding(0, 1).Margin(0, 0, 1, 0).Background(Background).Foreground(Cyan)
	alertStyle  = lipgloss.NewStyle().Padding(1).Margin(1, 0).Border(lipgloss.RoundedBorder()).BorderForeground(Red).Foreground(Red)
	helpStyle   = lipgloss.NewStyle().Foreground(Comment)
)

const (
	focusURL = iota
	focusQuestion
	focusCount
)

// settledMsg is sent when a submission completes.
type settledMsg struct {
	err error
}

type model struct {
	ctx       context.Context
	log       *slog.Logger
	processor form.Processor

	inputs []textinput.Model
	focus  int
	width  int

	// Outputs are shared by all in-flight submissions.
	summary *form.Text
	answer  *form.Text
	alert   *form.Text

	inFlight int
}

func newModel(ctx context.Context, log *slog.Logger, processor form.Processor) model {
	url := textinput.New()
	url.Placeholder = "https://www.youtube.com/watch?v=..."
	url.Prompt = "┃ "
	url.Focus()

	question := textinput.New()
	question.Placeholder = "Ask a question about the video (optional)"
	question.Prompt = "┃ "

	return model{
		ctx:       ctx,
		log:       log,
		processor: processor,
		inputs:    []textinput.Model{url, question},
		focus:     focusURL,
		width:     80,
		summary:   &form.Text{},
		answer:    &form.Text{},
		alert:     &form.Text{},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) submit() tea.Cmd {
	alerter := form.AlerterFunc(m.alert.SetText)
	f := form.New(m.log, m.processor,
		form.StaticField(m.inputs[focusURL].Value()),
		form.StaticField(m.inputs[focusQuestion].Value()),
		m.summary, m.answer, alerter)
	done := f.Start(m.ctx)
	return func() tea.Msg {
		return settledMsg{err: <-done}
	}
}

func (m model) setFocus(focus int) (model, tea.Cmd) {
	m.focus = focus
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return m, cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settledMsg:
		m.inFlight--
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		}
		// The alert must be dismissed before the form can be used.
		if m.alert.Value() != "" {
			if msg.String() == "enter" {
				m.alert.SetText("")
			}
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab", "up":
			return m.setFocus((m.focus + focusCount - 1) % focusCount)
		case "enter":
			m.inFlight++
			return m, m.submit()
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) View() string {
	wrapAt := m.width - 4
	if wrapAt < 20 {
		wrapAt = 20
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("videoqa"))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Video URL"))
	sb.WriteString("\n")
	sb.WriteString(m.inputs[focusURL].View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Question"))
	sb.WriteString("\n")
	sb.WriteString(m.inputs[focusQuestion].View())
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Summary"))
	sb.WriteString("\n")
	sb.WriteString(outputStyle.Render(wordwrap.String(m.summary.Value(), wrapAt)))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Answer"))
	sb.WriteString("\n")
	sb.WriteString(outputStyle.Render(wordwrap.String(m.answer.Value(), wrapAt)))
	sb.WriteString("\n")
	if alert := m.alert.Value(); alert != "" {
		sb.WriteString(alertStyle.Render(wordwrap.String(alert+"\n\nPress enter to dismiss.", wrapAt)))
		sb.WriteString("\n")
	}
	status := "tab: switch field • enter: submit • esc: quit"
	if m.inFlight > 0 {
		status = fmt.Sprintf("processing %d request(s)… • %s", m.inFlight, status)
	}
	sb.WriteString(helpStyle.Render(status))
	sb.WriteString("\n")
	return sb.String()
}

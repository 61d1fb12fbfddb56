package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/klemjul/chatrelay/internal/chat"
	"github.com/klemjul/chatrelay/internal/format"
	"github.com/klemjul/chatrelay/internal/llm"
)

type ChatTUIModel struct {
	textInput textinput.Model
	viewport  viewport.Model
	session   *chat.Session
	title     string
	names     Names

	getBotResponse func(messages []llm.Message) tea.Cmd
}

// Names are the speaker labels shown above each message.
type Names struct {
	Assistant string
	User      string
}

// ReplyErrMsg reports a failed turn to the model.
type ReplyErrMsg struct {
	Err error
}

const (
	CHAT_INPUT_PLACEHOLDER = "Type a message and press Enter"
	CHAT_TYPING_SUFFIX     = "typing..."
)

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	nameStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)
	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true)
)

type InitialModelOptions struct {
	Title          string
	Names          Names
	Session        *chat.Session
	GetBotResponse func(messages []llm.Message) tea.Cmd
}

func InitialModel(opts InitialModelOptions) ChatTUIModel {
	ti := textinput.New()
	ti.Placeholder = CHAT_INPUT_PLACEHOLDER
	ti.Focus()

	session := opts.Session
	if session == nil {
		session = chat.NewSession()
	}

	return ChatTUIModel{
		textInput:      ti,
		viewport:       viewport.New(0, 0),
		session:        session,
		title:          opts.Title,
		names:          opts.Names,
		getBotResponse: opts.GetBotResponse,
	}
}

func (m ChatTUIModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.EnableMouseCellMotion,
	)
}

func (m ChatTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		titleLines := (len(m.title) / msg.Width) + 1
		// title + input + error line
		m.viewport = viewport.New(msg.Width, msg.Height-(4+titleLines))
		m.updateViewport()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.viewport.ScrollUp(1)
			case tea.MouseButtonWheelDown:
				m.viewport.ScrollDown(1)
			}
		}

	case llm.Message:
		m.session.Complete(msg)
		m.updateViewport()

	case ReplyErrMsg:
		m.session.Fail(msg.Err)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			cmd = tea.Quit
		case tea.KeyEnter:
			history, err := m.session.Begin(m.textInput.Value())
			if err == nil {
				m.textInput.SetValue("")
				m.updateViewport()
				cmd = m.getBotResponse(history)
			}
		}
	}

	m.textInput, _ = m.textInput.Update(msg)

	if m.session.Busy() {
		m.textInput.Blur()
	} else {
		m.textInput.Focus()
	}

	return m, cmd
}

func (m *ChatTUIModel) updateViewport() {
	messages := m.session.Messages()
	displayedMessages := make([]string, 0, len(messages)+1)
	for _, msg := range messages {
		if msg.Hidden {
			continue
		}
		switch msg.Role {
		case llm.Assistant:
			out, err := format.FormatMarkdown(msg.Content)
			if err != nil {
				out = msg.Content
			}
			displayedMessages = append(displayedMessages,
				botStyle.Render(fmt.Sprintf("%s\n%s", nameStyle.Render(m.names.Assistant), strings.TrimSpace(out))))
		case llm.User:
			displayedMessages = append(displayedMessages,
				userStyle.Render(fmt.Sprintf("%s\n> %s", nameStyle.Render(m.names.User), msg.Content)))
		}
	}

	if m.session.Busy() {
		displayedMessages = append(displayedMessages, botStyle.Render(m.typingIndicator()))
	}

	content := strings.Join(displayedMessages, "\n\n")
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m ChatTUIModel) typingIndicator() string {
	return fmt.Sprintf("%s: %s", m.names.Assistant, CHAT_TYPING_SUFFIX)
}

func (m ChatTUIModel) View() string {
	input := m.textInput.View()
	if m.session.Busy() {
		input = m.typingIndicator()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.viewport.Width).Render(m.title),
		m.viewport.View(),
		inputStyle.Width(m.viewport.Width).Render(input),
		errorStyle.Render(m.session.ErrorText()),
	)
}

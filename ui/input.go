package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputModel asks for one line of text. Enter submits, Esc or Ctrl+C
// aborts.
type InputModel struct {
	label     string
	textInput textinput.Model
	value     string
	done      bool
	aborted   bool
}

// NewInputModel creates a text prompt. Secret input is masked.
func NewInputModel(label, placeholder string, secret bool) *InputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 256
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return &InputModel{label: label, textInput: ti}
}

// Init 实现 tea.Model 接口
func (m *InputModel) Init() tea.Cmd { return textinput.Blink }

// Update 处理按键事件
func (m *InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.textInput.Value())
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View 渲染输入框
func (m *InputModel) View() string {
	if m.done {
		return ""
	}
	return styles.Title.Render(m.label) + "\n" + m.textInput.View() + "\n"
}

// Value returns the submitted text and whether the prompt was aborted.
func (m *InputModel) Value() (string, bool) {
	return m.value, m.aborted
}

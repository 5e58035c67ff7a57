package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// buttonState 定义按钮的索引
type buttonState int

const (
	buttonYes buttonState = iota
	buttonNo
)

// ConfirmModel asks a yes/no question. It defaults to No so a stray Enter
// never confirms a destructive action.
type ConfirmModel struct {
	question       string
	selectedButton buttonState
	confirmed      bool
	done           bool
	aborted        bool
}

// NewConfirmModel 创建初始模型
func NewConfirmModel(question string) *ConfirmModel {
	return &ConfirmModel{question: question, selectedButton: buttonNo}
}

// Init 实现 tea.Model 接口
func (m *ConfirmModel) Init() tea.Cmd { return nil }

// Update 处理按键事件
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.aborted = true
		m.done = true
		return m, tea.Quit
	case "left", "h", "right", "l", "tab":
		if m.selectedButton == buttonYes {
			m.selectedButton = buttonNo
		} else {
			m.selectedButton = buttonYes
		}
	// 快捷键
	case "y", "Y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.done = true
		return m, tea.Quit
	case "enter":
		m.confirmed = m.selectedButton == buttonYes
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View 渲染问题与按钮
func (m *ConfirmModel) View() string {
	if m.done {
		return ""
	}
	colors := DefaultColors()
	yes := RenderButton(Button{
		Hint:       "y",
		Text:       "Yes",
		HintStyle:  styles.Key,
		TextStyle:  styles.Error,
		SelectedBg: colors.Red,
	}, m.selectedButton == buttonYes)
	no := RenderButton(Button{
		Hint:       "n",
		Text:       "No",
		HintStyle:  styles.Key,
		TextStyle:  styles.Muted,
		SelectedBg: colors.Gray,
	}, m.selectedButton == buttonNo)

	return styles.Title.Render(m.question) + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no) + "\n"
}

// Result reports the answer and whether the prompt was interrupted.
func (m *ConfirmModel) Result() (confirmed, aborted bool) {
	return m.confirmed, m.aborted
}

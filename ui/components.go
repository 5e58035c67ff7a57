package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UIColors 定义统一的颜色主题
type UIColors struct {
	Gray   lipgloss.Color
	Blue   lipgloss.Color
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Red    lipgloss.Color
	White  lipgloss.Color
	Black  lipgloss.Color
}

// DefaultColors 返回默认的颜色主题
func DefaultColors() UIColors {
	return UIColors{
		Gray:   lipgloss.Color("245"),
		Blue:   lipgloss.Color("39"),
		Green:  lipgloss.Color("42"),
		Yellow: lipgloss.Color("220"),
		Red:    lipgloss.Color("196"),
		White:  lipgloss.Color("255"),
		Black:  lipgloss.Color("0"),
	}
}

// UIStyles 定义统一的样式
type UIStyles struct {
	Colors  UIColors
	Title   lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// DefaultStyles 返回默认的样式集
func DefaultStyles() UIStyles {
	colors := DefaultColors()
	return UIStyles{
		Colors:  colors,
		Title:   lipgloss.NewStyle().Foreground(colors.White).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Blue),
		Success: lipgloss.NewStyle().Foreground(colors.Green),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow),
		Error:   lipgloss.NewStyle().Foreground(colors.Red),
		Muted:   lipgloss.NewStyle().Foreground(colors.Gray),
		Key:     lipgloss.NewStyle().Foreground(colors.White).Bold(true),
	}
}

var styles = DefaultStyles()

// RenderStatusLine 渲染状态行
func RenderStatusLine(icon, text string, style lipgloss.Style) string {
	return style.Render(icon) + " " + style.Render(text)
}

// Info renders a progress step.
func Info(text string) string { return RenderStatusLine("▶", text, styles.Info) }

// Success renders a completed step.
func Success(text string) string { return RenderStatusLine("✓", text, styles.Success) }

// Warning renders a message that needs the user's attention.
func Warning(text string) string { return RenderStatusLine("!", text, styles.Warning) }

// Muted renders secondary information.
func Muted(text string) string { return styles.Muted.Render(text) }

// Columns renders key/value rows with the first column padded to a common
// width.
func Columns(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r[0]); w > width {
			width = w
		}
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(r[0])+2)
		lines = append(lines, styles.Key.Render(r[0])+pad+r[1])
	}
	return strings.Join(lines, "\n")
}

// Button 表示一个可交互的按钮
type Button struct {
	Hint       string
	Text       string
	HintStyle  lipgloss.Style
	TextStyle  lipgloss.Style
	SelectedBg lipgloss.Color
}

// RenderButton 渲染单个按钮
func RenderButton(b Button, isSelected bool) string {
	hStyle := b.HintStyle
	tStyle := b.TextStyle

	if isSelected {
		colors := DefaultColors()
		fgColor := colors.Black
		// 红色背景上白色文字更清晰
		if b.SelectedBg == colors.Red {
			fgColor = colors.White
		}
		hStyle = hStyle.Copy().Background(b.SelectedBg).Foreground(fgColor)
		tStyle = tStyle.Copy().Background(b.SelectedBg).Foreground(fgColor)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		hStyle.Padding(0, 1).Render(b.Hint),
		tStyle.Padding(0, 1).Render(b.Text),
	)
}

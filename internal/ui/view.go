package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kaiwen/blessings/internal/share"
)

// View renders the current state.
func (a App) View() string {
	if !a.ready {
		return ""
	}

	switch a.state {
	case stateLoading:
		return a.viewLoading()
	case stateError:
		return a.viewError()
	case stateSearch:
		return a.viewSearch()
	case stateConfirmReset:
		return a.viewConfirmReset()
	case stateComplete:
		return a.viewComplete()
	default:
		return a.viewActive()
	}
}

func (a App) viewLoading() string {
	content := fmt.Sprintf("%s 正在准备祝福…", a.spinner.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dimStyle.Render(content))
}

func (a App) viewError() string {
	lines := []string{
		errorStyle.Render("启动失败"),
		"",
		dimStyle.Render(a.startErr.Error()),
		"",
		dimStyle.Render("按 r 重试 · q 退出"),
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}

func (a App) viewActive() string {
	var sections []string

	sections = append(sections, titleStyle.Render("✦ 1024 祝福 ✦"))
	sections = append(sections, "")
	sections = append(sections, a.renderCard())

	if a.sharing && a.hasCurrent {
		sections = append(sections, "")
		sections = append(sections, a.renderShareLinks())
	}

	sections = append(sections, "")
	sections = append(sections, a.renderCounter())

	if a.status != "" {
		sections = append(sections, statusStyle.Render(a.status))
	}

	sections = append(sections, "")
	sections = append(sections, a.renderHelp())

	body := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

func (a App) renderCard() string {
	if !a.hasCurrent {
		return dimStyle.Render("按空格抽取第一条祝福")
	}

	cardWidth := a.width - 10
	if cardWidth > 56 {
		cardWidth = 56
	}
	if cardWidth < 24 {
		cardWidth = 24
	}

	badge := badgeFgStyle.
		Background(categoryColor(a.current.Category)).
		Render(a.current.Category)

	text := blessingStyle.Render(wrapText(a.current.Text, cardWidth-8))

	content := lipgloss.JoinVertical(lipgloss.Center, badge, "", text)
	return cardStyle(a.current.Category, cardWidth).
		Align(lipgloss.Center).
		Render(content)
}

func (a App) renderShareLinks() string {
	var lines []string
	lines = append(lines, dimStyle.Render("分享到："))
	for _, l := range share.Links(a.current) {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			dimStyle.Render(l.Name),
			linkStyle.Render(truncate(l.URL, a.width-16))))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderCounter() string {
	seen := a.sel.SeenCount()
	total := a.sel.Len()
	pct := 0
	if total > 0 {
		pct = seen * 100 / total
	}
	return dimStyle.Render(fmt.Sprintf("已收到 %d / %d 条祝福 (%d%%)", seen, total, pct))
}

func (a App) renderHelp() string {
	return faintStyle.Render("空格 下一条 · / 搜索 · c 复制 · s 分享 · R 重新开始 · q 退出")
}

func (a App) viewSearch() string {
	var sections []string

	sections = append(sections, titleStyle.Render("搜索祝福"))
	sections = append(sections, "")
	sections = append(sections, a.input.View())
	sections = append(sections, "")

	if a.input.Value() == "" {
		sections = append(sections, dimStyle.Render("输入关键词，按 Esc 返回"))
	} else if len(a.results) == 0 {
		sections = append(sections, dimStyle.Render("没有匹配的祝福"))
	} else {
		// Show a window of results around the cursor
		const maxShown = 8
		start := 0
		if a.resultCursor >= maxShown {
			start = a.resultCursor - maxShown + 1
		}
		end := start + maxShown
		if end > len(a.results) {
			end = len(a.results)
		}

		for i := start; i < end; i++ {
			res := a.results[i]
			line := fmt.Sprintf("%s %s",
				faintStyle.Render("["+res.Item.Category+"]"),
				truncate(res.Item.Text, a.width-20))
			if i == a.resultCursor {
				line = selectedStyle.Render("▶ " + line)
			} else {
				line = "  " + line
			}
			sections = append(sections, line)
		}
		sections = append(sections,
			"",
			faintStyle.Render(fmt.Sprintf("%d 条结果 · ↑↓ 选择 · Enter 查看 · Esc 返回", len(a.results))))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

func (a App) viewConfirmReset() string {
	lines := []string{
		titleStyle.Render("重新开始？"),
		"",
		dimStyle.Render("已收到的祝福记录将被清空（祝福顺序不变）"),
		"",
		dimStyle.Render("y 确认 · n 取消"),
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}

func (a App) viewComplete() string {
	lines := []string{
		completeStyle.Render("🎉 所有祝福都已收到！"),
		"",
		dimStyle.Render(fmt.Sprintf("这一程共收到 %d 条祝福", a.sel.Len())),
		"",
		dimStyle.Render("R 重新开始 · q 退出"),
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}

// truncate shortens s to the given display width, CJK-aware.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// wrapText folds a blessing onto multiple lines by display width.
// Blessings are short; a greedy rune fold is enough.
func wrapText(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	var lines []string
	var line strings.Builder
	width := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if width+rw > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		line.WriteRune(r)
		width += rw
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

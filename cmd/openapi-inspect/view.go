package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorGreen       = "#10B981"
	colorBlue        = "#3B82F6"
	colorYellow      = "#F59E0B"
	colorRed         = "#EF4444"
	colorPurple      = "#8B5CF6"
	colorGray        = "#6B7280"
	colorThemePurple = "#7C3AED"
	colorBackground  = "#374151"
	colorDetailGray  = "#9CA3AF"
	colorFooterText  = "#000000"
	colorWhite       = "#FFFFFF"
)

func (m Model) renderEndpoints() string {
	var s strings.Builder

	methodColors := map[string]lipgloss.Color{
		"GET":     colorGreen,
		"POST":    colorBlue,
		"PUT":     colorYellow,
		"DELETE":  colorRed,
		"PATCH":   colorPurple,
		"HEAD":    colorGray,
		"OPTIONS": colorGray,
		"TRACE":   colorGray,
	}

	contentHeight := calculateContentHeight(m.height)
	indices := m.filteredIndices()

	startIdx := m.scrollOffset
	endIdx := min(m.scrollOffset+contentHeight, len(indices))

	if m.scrollOffset > 0 {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬆ More items above...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		ep := m.endpoints[indices[i]]
		style := lipgloss.NewStyle()
		if i == m.cursor {
			style = style.Background(lipgloss.Color(colorBackground))
		}

		methodColor := methodColors[ep.method]
		if methodColor == "" {
			methodColor = colorGray
		}

		methodStyle := lipgloss.NewStyle().
			Foreground(methodColor).
			Bold(true).
			Width(7)

		foldIcon := "▶"
		if !ep.folded {
			foldIcon = "▼"
		}

		line := fmt.Sprintf("%s %s %s",
			foldIcon,
			methodStyle.Render(ep.method),
			ep.path)

		s.WriteString(style.Render(line))
		s.WriteString("\n")

		if !ep.folded {
			details := formatEndpointDetails(ep)
			detailStyle := lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color(colorDetailGray))
			s.WriteString(detailStyle.Render(details))
			s.WriteString("\n")
		}
	}

	if endIdx < len(indices) {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬇ More items below...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	return s.String()
}

func (m Model) renderComponents() string {
	var s strings.Builder

	componentColors := map[string]lipgloss.Color{
		"Schema":         colorGreen,
		"RequestBody":    colorBlue,
		"Response":       colorYellow,
		"Parameter":      colorPurple,
		"Header":         colorRed,
		"SecurityScheme": colorGray,
	}

	contentHeight := calculateContentHeight(m.height)
	indices := m.filteredIndices()

	startIdx := m.scrollOffset
	endIdx := min(m.scrollOffset+contentHeight, len(indices))

	if m.scrollOffset > 0 {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬆ More items above...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		comp := m.components[indices[i]]
		style := lipgloss.NewStyle()
		if i == m.cursor {
			style = style.Background(lipgloss.Color(colorBackground))
		}

		componentColor := componentColors[comp.compType]
		if componentColor == "" {
			componentColor = colorGray
		}

		typeStyle := lipgloss.NewStyle().
			Foreground(componentColor).
			Bold(true).
			Width(16)

		foldIcon := "▶"
		if !comp.folded {
			foldIcon = "▼"
		}

		line := fmt.Sprintf("%s %s %s",
			foldIcon,
			typeStyle.Render(comp.compType+":"),
			comp.name)

		if comp.description != "" {
			line += fmt.Sprintf(" - %s", comp.description)
		}

		s.WriteString(style.Render(line))
		s.WriteString("\n")

		if !comp.folded {
			detailStyle := lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color(colorDetailGray))
			s.WriteString(detailStyle.Render(comp.details))
			s.WriteString("\n")
		}
	}

	if endIdx < len(indices) {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬇ More items below...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	return s.String()
}

func (m Model) renderWebhooks() string {
	var s strings.Builder

	methodColors := map[string]lipgloss.Color{
		"GET":     colorGreen,
		"POST":    colorBlue,
		"PUT":     colorYellow,
		"DELETE":  colorRed,
		"PATCH":   colorPurple,
		"HEAD":    colorGray,
		"OPTIONS": colorGray,
		"TRACE":   colorGray,
	}

	contentHeight := calculateContentHeight(m.height)
	indices := m.filteredIndices()

	startIdx := m.scrollOffset
	endIdx := min(m.scrollOffset+contentHeight, len(indices))

	if m.scrollOffset > 0 {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬆ More items above...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		hook := m.webhooks[indices[i]]
		style := lipgloss.NewStyle()
		if i == m.cursor {
			style = style.Background(lipgloss.Color(colorBackground))
		}

		methodColor := methodColors[hook.method]
		if methodColor == "" {
			methodColor = colorGray
		}

		methodStyle := lipgloss.NewStyle().
			Foreground(methodColor).
			Bold(true).
			Width(7)

		foldIcon := "▶"
		if !hook.folded {
			foldIcon = "▼"
		}

		line := fmt.Sprintf("%s %s %s",
			foldIcon,
			methodStyle.Render(hook.method),
			hook.name)

		s.WriteString(style.Render(line))
		s.WriteString("\n")

		if !hook.folded {
			details := formatWebhookDetails(hook)
			detailStyle := lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color(colorDetailGray))
			s.WriteString(detailStyle.Render(details))
			s.WriteString("\n")
		}
	}

	if endIdx < len(indices) {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬇ More items below...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	return s.String()
}

// renderDiagnostics lists the non-fatal events recorded during conversion
// (§7), one per line, severity-colored by DiagnosticKind and foldable to a
// JSON-Pointer-style path plus the recorded message — the Diagnostics tab
// has no teacher-side equivalent since kin-openapi's loader surfaces
// conversion problems as hard validation errors, not an accumulated list.
func (m Model) renderDiagnostics() string {
	var s strings.Builder

	kindColors := map[string]lipgloss.Color{
		"dangling-reference":      colorRed,
		"malformed-operation":     colorYellow,
		"unsupported-construct":   colorPurple,
		"unknown-security-scheme": colorBlue,
	}

	contentHeight := calculateContentHeight(m.height)
	indices := m.filteredIndices()

	startIdx := m.scrollOffset
	endIdx := min(m.scrollOffset+contentHeight, len(indices))

	if len(indices) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("No diagnostics recorded.") + "\n"
	}

	if m.scrollOffset > 0 {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬆ More items above...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		d := m.diagnostics[indices[i]]
		style := lipgloss.NewStyle()
		if i == m.cursor {
			style = style.Background(lipgloss.Color(colorBackground))
		}

		kindColor := kindColors[d.kind]
		if kindColor == "" {
			kindColor = colorGray
		}

		kindStyle := lipgloss.NewStyle().
			Foreground(kindColor).
			Bold(true).
			Width(24)

		foldIcon := "▶"
		if !d.folded {
			foldIcon = "▼"
		}

		line := fmt.Sprintf("%s %s %s", foldIcon, kindStyle.Render(d.kind), d.path)
		s.WriteString(style.Render(line))
		s.WriteString("\n")

		if !d.folded {
			detailStyle := lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color(colorDetailGray))
			s.WriteString(detailStyle.Render(d.message))
			s.WriteString("\n")
		}
	}

	if endIdx < len(indices) {
		indicator := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("⬇ More items below...")
		s.WriteString(indicator)
		s.WriteString("\n")
	}

	return s.String()
}

func (m Model) renderHeader() string {
	buttonStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color(colorGray))

	activeButtonStyle := buttonStyle.
		Background(lipgloss.Color(colorThemePurple)).
		Foreground(lipgloss.Color(colorWhite)).
		Bold(true)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorThemePurple))

	var buttons []string

	if m.mode == viewEndpoints {
		buttons = append(buttons, activeButtonStyle.Render("Requests"))
	} else {
		buttons = append(buttons, buttonStyle.Render("Requests"))
	}

	if m.hasWebhooks() {
		if m.mode == viewWebhooks {
			buttons = append(buttons, activeButtonStyle.Render("Webhooks"))
		} else {
			buttons = append(buttons, buttonStyle.Render("Webhooks"))
		}
	}

	if m.mode == viewComponents {
		buttons = append(buttons, activeButtonStyle.Render("Components"))
	} else {
		buttons = append(buttons, buttonStyle.Render("Components"))
	}

	if m.hasDiagnostics() {
		if m.mode == viewDiagnostics {
			buttons = append(buttons, activeButtonStyle.Render(fmt.Sprintf("Diagnostics (%d)", len(m.diagnostics))))
		} else {
			buttons = append(buttons, buttonStyle.Render(fmt.Sprintf("Diagnostics (%d)", len(m.diagnostics))))
		}
	}

	navSection := strings.Join(buttons, " │ ")

	appTitle := titleStyle.Render("openapi-inspect")

	navWidth := lipgloss.Width(navSection)
	titleWidth := lipgloss.Width(appTitle)
	totalContentWidth := navWidth + titleWidth

	var headerLine string
	if m.width > totalContentWidth+4 {
		spacingWidth := m.width - totalContentWidth
		spacing := strings.Repeat(" ", spacingWidth)
		headerLine = navSection + spacing + appTitle
	} else {
		headerLine = navSection
	}

	return headerLine + "\n\n"
}

func (m Model) renderFooter() string {
	schemaInfo := fmt.Sprintf("%s v%s", m.doc.Info.Title, m.doc.Info.Version)

	helpText := "Press '?' for help"
	if m.showSearch {
		n := len(m.filteredIndices())
		helpText = fmt.Sprintf("Search: %s (%d match", m.searchInput.Value(), n)
		if n != 1 {
			helpText += "es"
		}
		helpText += ")"
	}
	if m.showHelp {
		helpText = ""
	}

	footerStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(colorGray)).
		Foreground(lipgloss.Color(colorFooterText)).
		Padding(0, 1).
		Width(m.width).
		Align(lipgloss.Left)

	availableWidth := m.width - len(schemaInfo) - 4
	if len(helpText) > availableWidth {
		helpText = ""
	}

	footerContent := fmt.Sprintf("%s%s%s",
		helpText,
		strings.Repeat(" ", m.width-len(helpText)-len(schemaInfo)-2),
		schemaInfo)

	return "\n" + footerStyle.Render(footerContent)
}

func (m Model) renderHelpModal() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorBlue)).
		Bold(true)

	textStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorWhite))

	helpData := [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"gg", "Move to the top"},
		{"G", "Move to the bottom"},
		{"Tab", "Cycle views"},
		{"d", "Jump to diagnostics"},
		{"Enter/Space", "Toggle details"},
		{"/", "Filter current view"},
		{"?", "Toggle help"},
		{"Esc/q", "Close help"},
		{"Ctrl+C", "Quit"},
	}

	maxKeyWidth := 0
	for _, row := range helpData {
		if len(row[0]) > maxKeyWidth {
			maxKeyWidth = len(row[0])
		}
	}

	var helpItems []string
	for _, row := range helpData {
		key := keyStyle.Render(fmt.Sprintf("%-*s", maxKeyWidth, row[0]))
		desc := textStyle.Render(" " + row[1])
		helpItems = append(helpItems, key+desc)
	}

	helpContent := strings.Join(helpItems, "\n")

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorThemePurple)).
		Padding(1, 2).
		Width(45)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorThemePurple)).
		Align(lipgloss.Center).
		Width(28)

	title := titleStyle.Render("Help")
	modal := modalStyle.Render(title + "\n\n" + helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

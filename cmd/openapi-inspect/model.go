package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shlomiassaf/openapi"
)

type viewMode int

const (
	viewEndpoints viewMode = iota
	viewComponents
	viewWebhooks
	viewDiagnostics
)

const keySequenceThreshold = 500 * time.Millisecond

type webhook struct {
	name   string
	method string
	op     *openapi.Operation
	folded bool
}

type endpoint struct {
	path   string
	method string
	op     *openapi.Operation
	folded bool
}

type component struct {
	name        string
	compType    string
	description string
	details     string
	folded      bool
}

// diagnosticEntry adapts a raw openapi.Diagnostic into the same
// fold/cursor/list shape every other view mode uses, so the Diagnostics tab
// can reuse ensureCursorVisible/unfoldEntry instead of a bespoke renderer.
type diagnosticEntry struct {
	kind    string
	path    string
	message string
	folded  bool
}

type Model struct {
	doc          *openapi.Document
	diagnostics  []diagnosticEntry
	endpoints    []endpoint
	components   []component
	webhooks     []webhook
	cursor       int
	mode         viewMode
	width        int
	height       int
	showSearch   bool
	searchInput  textinput.Model
	showHelp     bool
	lastKey      string
	lastKeyAt    time.Time
	scrollOffset int
}

func (m *Model) hasDiagnostics() bool {
	return len(m.diagnostics) > 0
}

// visibleCount returns how many entries the current mode's list holds, for
// cursor-bounds checks shared across Update's navigation keys.
func (m *Model) visibleCount() int {
	switch m.mode {
	case viewEndpoints:
		return len(m.endpoints)
	case viewComponents:
		return len(m.components)
	case viewWebhooks:
		return len(m.webhooks)
	case viewDiagnostics:
		return len(m.diagnostics)
	default:
		return 0
	}
}

// matchesFilter reports whether the entry at index i in the current mode's
// list contains the active search query as a case-insensitive substring of
// its searchable text. An empty query matches everything.
func (m *Model) matchesFilter(i int) bool {
	q := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))
	if q == "" {
		return true
	}
	var haystack string
	switch m.mode {
	case viewEndpoints:
		haystack = m.endpoints[i].method + " " + m.endpoints[i].path
	case viewComponents:
		haystack = m.components[i].compType + " " + m.components[i].name + " " + m.components[i].description
	case viewWebhooks:
		haystack = m.webhooks[i].method + " " + m.webhooks[i].name
	case viewDiagnostics:
		haystack = m.diagnostics[i].kind + " " + m.diagnostics[i].path + " " + m.diagnostics[i].message
	}
	return strings.Contains(strings.ToLower(haystack), q)
}

// filteredIndices returns, in order, the indices of the current mode's list
// that survive the active search filter.
func (m *Model) filteredIndices() []int {
	n := m.visibleCount()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if m.matchesFilter(i) {
			indices = append(indices, i)
		}
	}
	return indices
}

func (m *Model) ensureCursorVisible() {
	contentHeight := calculateContentHeight(m.height)

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+contentHeight {
		m.scrollOffset = m.cursor - contentHeight + 1
	}

	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// calculateContentHeight reserves header (~6 lines) and footer (~4 lines)
// from the terminal height, the same reservation the renderers in view.go
// assume when slicing their item lists.
func calculateContentHeight(height int) int {
	return max(1, height-10)
}

func NewModel(doc *openapi.Document, diagnostics []openapi.Diagnostic) Model {
	endpoints := extractEndpoints(doc)
	components := extractComponents(doc)
	webhooks := extractWebhooks(doc)

	entries := make([]diagnosticEntry, 0, len(diagnostics))
	for _, d := range diagnostics {
		entries = append(entries, diagnosticEntry{kind: d.Kind.String(), path: d.Path, message: d.Message, folded: true})
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search"

	return Model{
		doc:          doc,
		diagnostics:  entries,
		endpoints:    endpoints,
		components:   components,
		webhooks:     webhooks,
		cursor:       0,
		mode:         viewEndpoints,
		searchInput:  searchInput,
		width:        80,
		height:       24,
		showHelp:     false,
		scrollOffset: 0,
	}
}

func (m *Model) hasWebhooks() bool {
	return len(m.webhooks) > 0
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.showHelp && !m.showSearch {
				return m, tea.Quit
			}

			if m.showHelp {
				m.showHelp = false
			}

		case "?":
			m.showHelp = !m.showHelp

		case "/":
			m.searchInput.SetValue("")
			m.showSearch = !m.showSearch
			if m.showSearch {
				m.searchInput.Focus()
			}

		case "esc":
			if m.showHelp {
				m.showHelp = false
			} else if m.showSearch {
				m.showSearch = false
			}

		case "d":
			if !m.showHelp && !m.showSearch && m.hasDiagnostics() {
				m.mode = viewDiagnostics
				m.cursor = 0
				m.scrollOffset = 0
			}

		case "tab":
			if !m.showHelp && !m.showSearch {
				switch m.mode {
				case viewEndpoints:
					if m.hasWebhooks() {
						m.mode = viewWebhooks
					} else {
						m.mode = viewComponents
					}
				case viewWebhooks:
					m.mode = viewComponents
				case viewComponents:
					if m.hasDiagnostics() {
						m.mode = viewDiagnostics
					} else {
						m.mode = viewEndpoints
					}
				case viewDiagnostics:
					m.mode = viewEndpoints
				}
				m.cursor = 0
				m.scrollOffset = 0
			}

		case "up", "k":
			if !m.showHelp && !m.showSearch {
				m.moveCursor(-1)
			}

		case "down", "j":
			if !m.showHelp && !m.showSearch {
				m.moveCursor(1)
			}

		case "G":
			if !m.showHelp && !m.showSearch {
				if indices := m.filteredIndices(); len(indices) > 0 {
					m.cursor = len(indices) - 1
					m.ensureCursorVisible()
				}
			}

		case "g":
			now := time.Now()
			if m.lastKey == "g" && now.Sub(m.lastKeyAt) < keySequenceThreshold {
				if !m.showHelp {
					m.cursor = 0
					m.ensureCursorVisible()
				}
				m.lastKey = ""
				m.lastKeyAt = time.Time{}
			} else {
				m.lastKey = "g"
				m.lastKeyAt = now
			}
		case " ":
			if !m.showHelp && !m.showSearch {
				m.unfoldEntry()
			}

		case "enter":
			if !m.showHelp && !m.showSearch {
				m.unfoldEntry()
			}

			if m.showSearch {
				m.showSearch = false
			}
		}
	}

	prevQuery := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.showSearch && m.searchInput.Value() != prevQuery {
		// The query changed the filtered list under the cursor; reset to the
		// top of the new list rather than leaving the cursor pointing at
		// whatever entry happens to now occupy that filtered position.
		m.cursor = 0
		m.scrollOffset = 0
	}
	return m, cmd
}

// moveCursor advances the cursor by delta positions within the current
// mode's filtered list (search filtering narrows which positions exist, the
// way "/" did nothing but collect text in the teacher's original TUI).
// m.cursor is always a position in filteredIndices(), not a raw entry index.
func (m *Model) moveCursor(delta int) {
	n := len(m.filteredIndices())
	if n == 0 {
		return
	}
	pos := m.cursor + delta
	if pos < 0 {
		pos = 0
	}
	if pos >= n {
		pos = n - 1
	}
	m.cursor = pos
	m.ensureCursorVisible()
}

// unfoldEntry toggles the fold state of the filtered entry under the
// cursor. Mutates the Model.
func (m *Model) unfoldEntry() {
	indices := m.filteredIndices()
	if m.cursor >= len(indices) {
		return
	}
	idx := indices[m.cursor]
	switch m.mode {
	case viewEndpoints:
		m.endpoints[idx].folded = !m.endpoints[idx].folded
	case viewComponents:
		m.components[idx].folded = !m.components[idx].folded
	case viewWebhooks:
		m.webhooks[idx].folded = !m.webhooks[idx].folded
	case viewDiagnostics:
		m.diagnostics[idx].folded = !m.diagnostics[idx].folded
	}
}

func (m Model) View() string {
	var s strings.Builder

	header := m.renderHeader()
	s.WriteString(header)

	var content string
	switch m.mode {
	case viewEndpoints:
		content = m.renderEndpoints()
	case viewComponents:
		content = m.renderComponents()
	case viewWebhooks:
		content = m.renderWebhooks()
	case viewDiagnostics:
		content = m.renderDiagnostics()
	}
	s.WriteString(content)

	footer := m.renderFooter()

	headerLines := strings.Count(header, "\n")
	contentLines := strings.Count(content, "\n")
	footerLines := strings.Count(footer, "\n")

	usedLines := headerLines + contentLines + footerLines
	remainingLines := m.height - usedLines - 1

	if remainingLines > 0 {
		s.WriteString(strings.Repeat("\n", remainingLines))
	}

	s.WriteString(footer)

	baseView := s.String()

	if m.showHelp {
		return m.renderHelpModal()
	}

	return baseView
}

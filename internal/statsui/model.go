// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/stats"
	"github.com/yonhachi/kuizu/internal/store"
)

const (
	tabOverview = iota
	tabPrompts
	tabSessions
)

const (
	plotHeight = 10
	// The prompt table previews scheduling weights with the default
	// practice multiplier.
	weightMultiplier = 4
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report      stats.Report
	sessionList []model.SessionAggregate
	errMsg      string

	tabs          []string
	activeTab     int
	viewports     []viewport.Model
	promptTable   table.Model
	promptLayout  tableLayout
	sessionTable  table.Model
	sessionLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	reviewMode  bool
	reviewTitle string
	reviewVP    viewport.Model
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Prompts", "Sessions"},
	}
	m.initInputs()
	m.initTables()
	m.initViewports()
	m.reviewVP = viewport.New(0, 0)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.reviewMode {
			return m.updateReview(msg)
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		m.syncTableFocus()
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabSessions {
				return m.openReview()
			}
			return m, nil
		case "g", "home":
			switch m.activeTab {
			case tabPrompts:
				m.promptTable.GotoTop()
			case tabSessions:
				m.sessionTable.GotoTop()
			default:
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			switch m.activeTab {
			case tabPrompts:
				m.promptTable.GotoBottom()
			case tabSessions:
				m.sessionTable.GotoBottom()
			default:
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			switch m.activeTab {
			case tabPrompts:
				var cmd tea.Cmd
				m.promptTable, cmd = m.promptTable.Update(msg)
				return m, cmd
			case tabSessions:
				var cmd tea.Cmd
				m.sessionTable, cmd = m.sessionTable.Update(msg)
				return m, cmd
			default:
				vp := m.viewports[m.activeTab]
				var cmd tea.Cmd
				vp, cmd = vp.Update(msg)
				m.viewports[m.activeTab] = vp
				return m, cmd
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.reviewMode {
		return m.renderReview()
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Deck: "),
		newFilterInput("Mode: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initTables() {
	m.promptTable = newStatsTable(promptColumns(), 0, 1)
	m.sessionTable = newStatsTable(sessionColumns(), 0, 1)
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newStatsTable(columns []table.Column, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(nil),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(statsTableStyles())
	return t
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.Deck))
	m.filterInputs[1].SetValue(strings.TrimSpace(m.cfg.Mode))
	if m.cfg.Since != nil {
		m.filterInputs[2].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[2].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[3].SetValue("")
	}
	m.filterInputs[4].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	setTableSize(&m.promptTable, &m.promptLayout, m.width, vpHeight)
	setTableSize(&m.sessionTable, &m.sessionLayout, m.width, vpHeight)
	m.reviewVP.Width = m.width
	m.reviewVP.Height = maxInt(1, m.height-2)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.syncTableFocus()
}

func (m *Model) syncTableFocus() {
	if m.activeTab == tabPrompts {
		m.promptTable.Focus()
	} else {
		m.promptTable.Blur()
	}
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	deckName := m.cfg.Deck
	if deckName == "" {
		deckName = "any"
	}
	modeName := m.cfg.Mode
	if modeName == "" {
		modeName = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: deck=%s  mode=%s  since=%s  last=%s  window=%d",
		deckName, modeName, since, last, m.cfg.CurveWindow)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabSessions {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Review: enter  Window: -/=  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	switch m.activeTab {
	case tabPrompts:
		if len(m.report.Prompts) == 0 {
			return fitLines("No prompt stats found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.promptTable.View()), m.width, height)
	case tabSessions:
		if len(m.sessionList) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.sessionTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderReview() string {
	title := padLines(headerStyle.Render(m.reviewTitle), m.width)
	body := fitLines(m.reviewVP.View(), m.width, maxInt(1, m.height-2))
	footer := padLines(headerStyle.Render("Scroll: up/down/pgup/pgdn  Back: esc"), m.width)
	return strings.Join([]string{title, body, footer}, "\n")
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.sessionList = newestFirst(report.Sessions)
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	applyTable(&m.promptTable, &m.promptLayout, promptColumns(), promptRows(report.Prompts), width, bodyHeight, true)
	applyTable(&m.sessionTable, &m.sessionLayout, sessionColumns(), sessionTableRows(m.sessionList), width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	summary := renderSummaryCards(sessions, width)
	curves := renderCurves(sessions, window, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var totalAcc, totalPace, bestAcc float64
	for _, s := range sessions {
		pace, acc := stats.SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalPace += pace
		totalAcc += acc
		if acc > bestAcc {
			bestAcc = acc
		}
	}
	count := float64(len(sessions))
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(sessions))),
		metricCard("Avg Accuracy", fmt.Sprintf("%.1f%%", totalAcc/count*100)),
		metricCard("Best Accuracy", fmt.Sprintf("%.1f%%", bestAcc*100)),
		metricCard("Avg Pace", fmt.Sprintf("%.1f/min", totalPace/count)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(sessions []model.SessionAggregate, window, width int) string {
	accuracy := stats.Chart{
		Title:  "Accuracy",
		Values: stats.AccuracySeries(sessions, window),
		Min:    0,
		Max:    100,
		Unit:   "%",
	}
	pace := stats.Chart{
		Title:  "Pace (answers/min)",
		Values: stats.PaceSeries(sessions, window),
	}
	var buf bytes.Buffer
	if err := accuracy.Render(&buf, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	if err := pace.Render(&buf, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func promptColumns() []table.Column {
	return []table.Column{
		{Title: "Deck", Width: 10},
		{Title: "Prompt", Width: 22},
		{Title: "Accuracy", Width: 9},
		{Title: "Asked", Width: 6},
		{Title: "Correct", Width: 8},
		{Title: "Incorrect", Width: 10},
		{Title: "Weight", Width: 7},
		{Title: "Status", Width: 6},
	}
}

func promptRows(prompts []model.PromptStats) []table.Row {
	sorted := stats.SortPromptsByAccuracy(prompts)
	rows := make([]table.Row, 0, len(sorted))
	for _, ps := range sorted {
		acc := "-"
		if ps.Asked > 0 {
			acc = fmt.Sprintf("%.1f%%", float64(ps.Correct)/float64(ps.Asked)*100)
		}
		weight, status := stats.Weight(ps, weightMultiplier)
		rows = append(rows, table.Row{
			ps.Deck,
			ps.Prompt,
			acc,
			strconv.Itoa(ps.Asked),
			strconv.Itoa(ps.Correct),
			strconv.Itoa(ps.Incorrect),
			fmt.Sprintf("%.1f", weight),
			status,
		})
	}
	return rows
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Deck", Width: 10},
		{Title: "Mode", Width: 7},
		{Title: "Correct", Width: 8},
		{Title: "Incorrect", Width: 10},
		{Title: "Accuracy", Width: 9},
		{Title: "Pace", Width: 10},
		{Title: "Duration", Width: 9},
	}
}

func sessionTableRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		pace, acc := stats.SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		rows = append(rows, table.Row{
			s.EndedAt.Format("2006-01-02 15:04"),
			s.Deck,
			s.Mode,
			strconv.Itoa(s.Correct),
			strconv.Itoa(s.Incorrect),
			fmt.Sprintf("%.1f%%", acc*100),
			fmt.Sprintf("%.1f/min", pace),
			fmt.Sprintf("%.0fs", float64(s.DurationMs)/1000),
		})
	}
	return rows
}

func newestFirst(sessions []model.SessionAggregate) []model.SessionAggregate {
	out := make([]model.SessionAggregate, len(sessions))
	for i, s := range sessions {
		out[len(sessions)-1-i] = s
	}
	return out
}

func applyTable(t *table.Model, layout *tableLayout, columns []table.Column, rows []table.Row, width, height int, force bool) {
	viewportHeight := maxInt(1, height-1)
	if !force &&
		layout.width == width &&
		layout.height == viewportHeight &&
		layout.rowCount == len(rows) &&
		layout.colCount == len(columns) {
		return
	}
	t.SetColumns(columns)
	t.SetRows(rows)
	layout.rowCount = len(rows)
	layout.colCount = len(columns)
	setTableSize(t, layout, width, height)
}

func setTableSize(t *table.Model, layout *tableLayout, width, height int) {
	viewportHeight := maxInt(1, height-1)
	if layout.width == width && layout.height == viewportHeight {
		return
	}
	layout.width = width
	layout.height = viewportHeight
	t.SetWidth(width)
	t.SetHeight(viewportHeight)
	viewportHeight = adjustTableHeight(t, height)
	if layout.height != viewportHeight {
		layout.height = viewportHeight
		t.SetHeight(viewportHeight)
	}
}

// adjustTableHeight compensates for the table's own chrome so the
// rendered view fills the body exactly.
func adjustTableHeight(t *table.Model, bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := t.Height()
	viewHeight := lipgloss.Height(t.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	t.SetHeight(height)
	viewHeight = lipgloss.Height(t.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func statsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	deckName := strings.TrimSpace(m.filterInputs[0].Value())
	modeInput := strings.TrimSpace(m.filterInputs[1].Value())
	if modeInput != "" {
		if _, ok := model.ParseMode(modeInput); !ok {
			return fmt.Errorf("invalid mode (use romaji or kana)")
		}
	}

	sinceInput := strings.TrimSpace(m.filterInputs[2].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[3].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[4].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Deck:        deckName,
		Mode:        modeInput,
		Since:       since,
		Last:        last,
		CurveWindow: window,
	}
	return nil
}

func (m *Model) openReview() (tea.Model, tea.Cmd) {
	if len(m.sessionList) == 0 {
		return m, nil
	}
	idx := m.sessionTable.Cursor()
	if idx < 0 || idx >= len(m.sessionList) {
		return m, nil
	}
	sess := m.sessionList[idx]
	records, err := m.store.ListSessionAnswers(context.Background(), sess.SessionID)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	var buf bytes.Buffer
	if err := stats.RenderReview(&buf, records); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.reviewTitle = fmt.Sprintf("Session %s  %s  %s",
		sess.EndedAt.Format("2006-01-02 15:04"), sess.Deck, sess.Mode)
	m.reviewVP.SetContent(strings.TrimRight(buf.String(), "\n"))
	m.reviewVP.GotoTop()
	m.reviewMode = true
	return m, tea.ClearScreen
}

func (m *Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.reviewMode = false
		return m, tea.ClearScreen
	case "g", "home":
		m.reviewVP.GotoTop()
		return m, nil
	case "G", "end":
		m.reviewVP.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.reviewVP, cmd = m.reviewVP.Update(msg)
	return m, cmd
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yonhachi/kuizu/internal/deck"
	"github.com/yonhachi/kuizu/internal/kana"
	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/quiz"
	statsPkg "github.com/yonhachi/kuizu/internal/stats"
	"github.com/yonhachi/kuizu/internal/store"
)

type phase int

const (
	phaseAnswering phase = iota
	phaseFeedback
	phaseSummary
)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	previewStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	correctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	incorrectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	nearMissStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea quiz UI.
type Model struct {
	config model.Config
	store  *store.Store
	deck   *deck.Deck

	width  int
	height int

	session  *quiz.Session
	phase    phase
	question quiz.Question
	askedAt  time.Time

	input       textinput.Model
	suggestions []string
	selected    int

	lastResult quiz.Result

	summary     viewport.Model
	summaryText string
	saved       bool
}

// NewModel constructs a quiz TUI model.
func NewModel(cfg model.Config, st *store.Store, d *deck.Deck) *Model {
	m := &Model{
		config:  cfg,
		store:   st,
		deck:    d,
		input:   newAnswerInput(),
		summary: viewport.New(0, 0),
	}
	m.startSession()
	return m
}

func newAnswerInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return input
}

// startSession reloads the persistent stats so a restart weights the
// wheel with the session that was just saved.
func (m *Model) startSession() {
	prior, err := m.store.LoadPromptStats(context.Background(), m.deck.Name)
	if err != nil {
		logErrf("failed to load prompt stats: %v\n", err)
	}
	m.session = quiz.New(m.deck, prior, m.config)
	m.phase = phaseAnswering
	m.saved = false
	m.summaryText = ""
	m.nextQuestion()
}

func (m *Model) nextQuestion() {
	q, ok := m.session.Next()
	if !ok {
		m.finishSession()
		return
	}
	m.question = q
	m.askedAt = time.Now()
	m.input.SetValue("")
	m.suggestions = nil
	m.selected = 0
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch m.phase {
		case phaseAnswering:
			return m.updateAnswering(msg)
		case phaseFeedback:
			return m.updateFeedback(msg)
		default:
			return m.updateSummary(msg)
		}
	}
	return m, nil
}

func (m *Model) updateAnswering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.persistSession()
		return m, tea.Quit
	case tea.KeyEnter:
		m.submitAnswer()
		return m, nil
	case tea.KeyTab:
		m.acceptSuggestion()
		return m, nil
	case tea.KeyUp:
		m.moveSelection(-1)
		return m, nil
	case tea.KeyDown:
		m.moveSelection(1)
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlW:
		m.input.SetValue("")
		m.suggestions = nil
		m.selected = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.persistSession()
		return m, tea.Quit
	case tea.KeyEnter:
		m.phase = phaseAnswering
		m.nextQuestion()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.startSession()
		return m, tea.ClearScreen
	case "g", "home":
		m.summary.GotoTop()
		return m, nil
	case "G", "end":
		m.summary.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.summary, cmd = m.summary.Update(msg)
	return m, cmd
}

func (m *Model) submitAnswer() {
	m.lastResult = m.session.Grade(m.question, m.input.Value(), time.Since(m.askedAt))
	m.phase = phaseFeedback
}

func (m *Model) acceptSuggestion() {
	if len(m.suggestions) == 0 {
		return
	}
	m.input.SetValue(m.suggestions[m.selected])
	m.input.CursorEnd()
	m.suggestions = nil
	m.selected = 0
}

func (m *Model) moveSelection(delta int) {
	next := m.selected + delta
	if next < 0 || next >= len(m.suggestions) {
		return
	}
	m.selected = next
}

// refreshSuggestions recomputes the dropdown. An empty input hides it.
func (m *Model) refreshSuggestions() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.suggestions = nil
		m.selected = 0
		return
	}
	list := m.session.Suggestions(value)
	if limit := m.config.Suggestions; limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	m.suggestions = list
	if m.selected >= len(list) {
		m.selected = 0
	}
}

func (m *Model) finishSession() {
	m.phase = phaseSummary
	m.persistSession()
	m.summaryText = m.buildSummary()
	m.summary.SetContent(m.summaryText)
	m.summary.GotoTop()
}

func (m *Model) persistSession() {
	if m.saved {
		return
	}
	m.saved = true
	ctx := context.Background()
	if _, err := m.store.SaveSession(ctx, m.session.Finish(), m.session.Records(), m.session.Deltas()); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func (m *Model) buildSummary() string {
	var buf bytes.Buffer
	sess := m.session.Finish()
	apm, acc := statsPkg.SessionMetrics(sess.Correct, sess.Incorrect, sess.DurationMs)
	fmt.Fprintf(&buf, "Deck %s · %s mode\n", sess.Deck, sess.Mode)
	fmt.Fprintf(&buf, "%d/%d correct · %.1f%% · %.1f answers/min\n\n",
		sess.Correct, sess.Correct+sess.Incorrect, acc*100, apm)
	if err := statsPkg.RenderPromptTable(&buf, "Session Statistics", statsPkg.SortPromptsByAccuracy(m.session.SessionRows())); err != nil {
		logErrf("failed to render session stats: %v\n", err)
	}
	overall, err := m.store.ListPromptStats(context.Background(), m.deck.Name)
	if err != nil {
		logErrf("failed to load prompt stats: %v\n", err)
		buf.WriteString("Failed to load overall stats.\n")
	} else if err := statsPkg.RenderPromptTable(&buf, "Overall Statistics", statsPkg.SortPromptsByAccuracy(overall)); err != nil {
		logErrf("failed to render overall stats: %v\n", err)
	}
	if err := statsPkg.RenderReview(&buf, m.session.Records()); err != nil {
		logErrf("failed to render review: %v\n", err)
	}
	return buf.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase == phaseSummary {
		return m.viewSummary()
	}
	var content string
	if m.phase == phaseFeedback {
		content = m.viewFeedback()
	} else {
		content = m.viewAnswering()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, headerStyle.Render(m.renderHeader()))
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footerStyle.Render(m.helpLine()))
	return headerLine + "\n" + body + "\n" + footerLine
}

func (m *Model) viewAnswering() string {
	lines := []string{promptStyle.Render(m.question.VisiblePrompt), m.input.View()}
	if m.config.Mode == model.ModeKana {
		if preview := kana.FromRomaji(strings.ToLower(strings.TrimSpace(m.input.Value()))); preview != "" {
			lines = append(lines, previewStyle.Render(preview))
		}
	}
	for i, s := range m.suggestions {
		if i == m.selected {
			lines = append(lines, selectedStyle.Render("> "+s))
		} else {
			lines = append(lines, suggestionStyle.Render("  "+s))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewFeedback() string {
	answer := m.question.Answer
	verb := "means"
	if m.config.Mode == model.ModeKana {
		answer = kana.FromRomaji(answer)
		verb = "reads as"
	}
	var lines []string
	if m.lastResult.Correct {
		lines = append(lines, correctStyle.Render("Correct!"))
	} else {
		if m.lastResult.NearMiss {
			lines = append(lines, nearMissStyle.Render("Almost correct! It seems your spelling was off."))
		}
		lines = append(lines, incorrectStyle.Render("Wrong!"))
	}
	lines = append(lines, fmt.Sprintf("%s %s %s", m.question.Prompt, verb, answer))
	if !m.lastResult.Correct && m.lastResult.Given != "" {
		lines = append(lines, suggestionStyle.Render("you answered "+m.lastResult.Given))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewSummary() string {
	if m.width == 0 || m.height == 0 {
		return m.summaryText
	}
	title := headerStyle.Render("Session Summary")
	footer := footerStyle.Render("r restart · up/down scroll · q quit")
	return title + "\n" + m.summary.View() + "\n" + footer
}

func (m *Model) renderHeader() string {
	round := m.session.Asked()
	if m.phase == phaseAnswering {
		round++
	}
	if round > m.session.Questions() {
		round = m.session.Questions()
	}
	header := fmt.Sprintf("%s · %s · %d/%d", m.deck.Name, m.config.Mode, round, m.session.Questions())
	if asked := m.session.Asked(); asked > 0 {
		header += fmt.Sprintf(" · %.0f%%", float64(m.session.Correct())/float64(asked)*100)
	}
	return header
}

func (m *Model) helpLine() string {
	if m.phase == phaseFeedback {
		return "enter continue · ctrl+c quit"
	}
	return "tab complete · up/down move · enter submit · esc clear · ctrl+c quit"
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.summary.Width = m.width
	m.summary.Height = maxInt(1, m.height-2)
	m.input.Width = minInt(40, maxInt(10, m.width-4))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

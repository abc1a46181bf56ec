package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/synthload/internal/core"
	"github.com/janekbaraniewski/synthload/internal/engine"
)

const yearlySumStep = 100.0

type Options struct {
	Engine      *engine.Engine
	Category    string
	YearlySum   float64
	Date        time.Time
	Granularity core.Granularity
	// PersistTheme, when set, stores the theme selected with "t".
	PersistTheme func(name string) error
}

// Model browses one category of the loaded profile at a time, period by
// period. Every state change re-runs the matching engine query.
type Model struct {
	engine       *engine.Engine
	categories   []core.CategoryInfo
	catIdx       int
	granularity  core.Granularity
	anchor       time.Time
	yearlySum    float64
	persistTheme func(string) error

	width    int
	height   int
	offset   int
	showHelp bool
	table    bool
	status   string

	title   string
	summary string
	share   float64
	rows    [][3]string
	chart   func(w, h int) string
	err     error
}

type themePersistedMsg struct {
	name string
	err  error
}

func NewModel(opts Options) Model {
	m := Model{
		engine:       opts.Engine,
		categories:   opts.Engine.Categories(),
		granularity:  opts.Granularity,
		yearlySum:    max(opts.YearlySum, 0),
		persistTheme: opts.PersistTheme,
	}
	if m.granularity == "" {
		m.granularity = core.GranularityDay
	}
	if _, idx, ok := lo.FindIndexOf(m.categories, func(c core.CategoryInfo) bool {
		return c.Code == opts.Category
	}); ok {
		m.catIdx = idx
	}
	year := opts.Engine.Store().Year()
	m.anchor = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !opts.Date.IsZero() && opts.Date.Year() == year {
		m.anchor = core.DateOf(opts.Date)
	}
	return m.refresh()
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m.status = "theme save failed"
		} else {
			m.status = "theme: " + msg.name
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) persistThemeCmd(name string) tea.Cmd {
	if m.persistTheme == nil {
		return nil
	}
	persist := m.persistTheme
	return func() tea.Msg {
		err := persist(name)
		if err != nil {
			log.Printf("theme persist: %v", err)
		}
		return themePersistedMsg{name: name, err: err}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		return m.step(-1).refresh(), nil
	case "right", "l":
		return m.step(1).refresh(), nil
	case "up", "k":
		if len(m.categories) > 0 {
			m.catIdx = (m.catIdx - 1 + len(m.categories)) % len(m.categories)
		}
		return m.refresh(), nil
	case "down", "j":
		if len(m.categories) > 0 {
			m.catIdx = (m.catIdx + 1) % len(m.categories)
		}
		return m.refresh(), nil
	case "tab":
		m.granularity = core.NextGranularity(m.granularity)
		return m.refresh(), nil
	case "+", "=":
		m.yearlySum += yearlySumStep
		return m.refresh(), nil
	case "-", "_":
		m.yearlySum = max(m.yearlySum-yearlySumStep, 0)
		return m.refresh(), nil
	case "v":
		m.table = !m.table
		m.offset = 0
		return m, nil
	case "pgdown", "ctrl+d":
		m.offset = clamp(m.offset+m.pageSize(), 0, max(len(m.rows)-m.pageSize(), 0))
		return m, nil
	case "pgup", "ctrl+u":
		m.offset = clamp(m.offset-m.pageSize(), 0, max(len(m.rows)-m.pageSize(), 0))
		return m, nil
	case "home":
		m.offset = 0
		return m, nil
	case "end":
		m.offset = max(len(m.rows)-m.pageSize(), 0)
		return m, nil
	case "t":
		name := CycleTheme()
		m.status = "theme: " + name
		return m, m.persistThemeCmd(name)
	}
	return m, nil
}

// step moves the anchor by one period of the current granularity, staying
// inside the loaded profile year.
func (m Model) step(dir int) Model {
	var next time.Time
	switch m.granularity {
	case core.GranularityDay:
		next = m.anchor.AddDate(0, 0, dir)
	case core.GranularityMonth:
		first := time.Date(m.anchor.Year(), m.anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		next = first.AddDate(0, dir, 0)
	default:
		return m
	}
	if next.Year() == m.engine.Store().Year() {
		m.anchor = next
		m.offset = 0
	}
	return m
}

func (m Model) category() core.CategoryInfo {
	if m.catIdx < 0 || m.catIdx >= len(m.categories) {
		return core.CategoryInfo{}
	}
	return m.categories[m.catIdx]
}

func (m Model) period() string {
	switch m.granularity {
	case core.GranularityMonth:
		return m.anchor.Format(core.MonthLayout)
	case core.GranularityYearMonths, core.GranularityYearDays:
		return strconv.Itoa(m.anchor.Year())
	default:
		return m.anchor.Format(core.DateLayout)
	}
}

// refresh runs the query for the current selection and caches what the view
// needs from its result.
func (m Model) refresh() Model {
	m.title, m.summary, m.share, m.rows, m.chart, m.err = "", "", 0, nil, nil, nil
	code, period := m.category().Code, m.period()

	switch m.granularity {
	case core.GranularityDay:
		r, err := m.engine.DayProfile(code, period, m.yearlySum)
		if err != nil {
			m.err = err
			break
		}
		m.title = r.CategoryName
		m.summary = fmt.Sprintf("%.2f kWh", r.TotalKwh)
		m.share = r.TotalPercentage
		m.rows = lo.Map(r.HourlyValues, func(v core.HourlyValue, _ int) [3]string {
			return [3]string{v.Hour, fmt.Sprintf("%.2f", v.Kwh), fmt.Sprintf("%.4f%%", v.Percentage)}
		})
		m.chart = func(w, h int) string { return ChartDayProfile(r, w, h) }

	case core.GranularityMonth:
		r, err := m.engine.Month(code, period, m.yearlySum)
		if err != nil {
			m.err = err
			break
		}
		m.title = r.CategoryName
		m.summary = fmt.Sprintf("%.2f kWh", r.TotalKwh)
		m.share = r.TotalPercentage
		m.rows = dailyRows(r.DailyValues)
		m.chart = func(w, h int) string { return ChartDaily(r.DailyValues, w, h) }

	case core.GranularityYearMonths:
		r, err := m.engine.YearMonths(code, period, m.yearlySum)
		if err != nil {
			m.err = err
			break
		}
		m.title = r.CategoryName
		m.summary = fmt.Sprintf("%.2f kWh", r.TotalKwh)
		m.share = 100
		m.rows = lo.Map(r.MonthlyValues, func(v core.MonthlyValue, _ int) [3]string {
			return [3]string{v.MonthName, fmt.Sprintf("%.2f", v.Kwh), fmt.Sprintf("%.2f%%", v.PercentOfYear)}
		})
		m.chart = func(w, h int) string { return ChartYearMonths(r, w, h) }

	case core.GranularityYearDays:
		r, err := m.engine.YearDays(code, period, m.yearlySum)
		if err != nil {
			m.err = err
			break
		}
		m.title = r.CategoryName
		m.summary = fmt.Sprintf("%.2f kWh", r.TotalKwh)
		m.share = 100
		m.rows = dailyRows(r.DailyValues)
		m.chart = func(w, h int) string { return ChartYearDays(r, w, h) }
	}
	return m
}

func dailyRows(values []core.DailyValue) [][3]string {
	return lo.Map(values, func(v core.DailyValue, _ int) [3]string {
		return [3]string{v.Date, fmt.Sprintf("%.2f", v.Kwh), fmt.Sprintf("%.2f%%", v.PercentageOfYear)}
	})
}

// ─── View ───────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width < 40 || m.height < 12 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Render("\n  Terminal too small. Resize to at least 40×12.")
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader(m.width)
	footer := m.renderFooter(m.width)
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	return header + "\n" + m.renderBody(m.width, max(bodyH, 3)) + "\n" + footer
}

func (m Model) renderHeader(w int) string {
	cat := m.category()
	brand := headerBrandStyle.Render("⚡ synthload")
	parts := []string{
		brand,
		headerStyle.Render(cat.Code),
		labelStyle.Render(lo.Ternary(m.title != "", m.title, cat.DisplayName)),
		dimStyle.Render("·"),
		selectedStyle.Render(m.granularity.Label()),
		valueStyle.Render(m.period()),
		dimStyle.Render("·"),
		metricValueStyle.Render(fmt.Sprintf("%g kWh/year", m.yearlySum)),
	}
	line := fitAnsiWidth(" "+strings.Join(parts, " "), w)
	sep := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("━", w))
	return line + "\n" + sep
}

func (m Model) renderBody(w, h int) string {
	if m.err != nil {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			errorStyle.Render(m.err.Error()))
	}

	summary := " " + sectionHeaderStyle.Render("Total ") + metricValueStyle.Render(m.summary) +
		"  " + RenderShareGauge(m.share, 100, min(30, w/3))
	contentH := max(h-2, 1)

	var content string
	if m.table {
		content = m.renderTable(w, contentH)
	} else if m.chart != nil {
		content = m.chart(w-2, contentH)
	}
	return lipgloss.NewStyle().Height(h).MaxHeight(h).Render(summary + "\n\n" + content)
}

func (m Model) pageSize() int {
	return max(m.height-8, 1)
}

func (m Model) renderTable(w, h int) string {
	visible := max(h-2, 1)
	offset := clamp(m.offset, 0, max(len(m.rows)-visible, 0))
	end := min(offset+visible, len(m.rows))

	lines := []string{labelStyle.Render(fmt.Sprintf("  %-12s %12s %12s", "PERIOD", "KWH", "SHARE"))}
	for _, row := range m.rows[offset:end] {
		lines = append(lines, valueStyle.Render(fmt.Sprintf("  %-12s %12s %12s", row[0], row[1], row[2])))
	}
	if bar := renderScrollIndicator(w, offset, visible, len(m.rows)); bar != "" {
		lines = append(lines, bar)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(w int) string {
	sep := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("━", w))
	status := helpStyle.Render("? help")
	if m.status != "" {
		status = dimStyle.Render(m.status) + "  " + status
	}
	return sep + "\n " + status
}

func (m Model) renderHelp() string {
	keys := [][2]string{
		{"← / →", "previous / next period"},
		{"↑ / ↓", "previous / next category"},
		{"tab", "cycle day, month, year views"},
		{"+ / -", fmt.Sprintf("yearly sum ± %g kWh", yearlySumStep)},
		{"v", "toggle chart / table"},
		{"pgup / pgdn", "scroll table"},
		{"t", "cycle theme"},
		{"q", "quit"},
	}
	lines := []string{headerStyle.Render("Keys"), ""}
	for _, k := range keys {
		lines = append(lines, helpKeyStyle.Render(fmt.Sprintf("%-12s", k[0]))+labelStyle.Render(k[1]))
	}
	lines = append(lines, "", dimStyle.Render("theme: "+ThemeName()))
	box := cardStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

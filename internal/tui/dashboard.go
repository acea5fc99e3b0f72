package tui

import (
	"fmt"

	"trainlog/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        Units
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil {
		return "\n  No data available. Press 's' to sync."
	}

	var sections []string

	// Top row: Fitness and This Week side by side
	fitnessCard := m.renderFitnessCard()
	weekCard := m.renderWeekCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, fitnessCard, "  ", weekCard)
	sections = append(sections, topRow)

	if chart := m.renderVolumeChart(); chart != "" {
		sections = append(sections, chart)
	}

	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render("Press 'r' to refresh, 's' to sync, '2' for routes")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFitnessCard() string {
	title := cardTitleStyle.Render("Fitness")
	f := m.data.Fitness

	vo2 := "-"
	if f.VO2max != nil {
		vo2 = fmt.Sprintf("%d", *f.VO2max)
	}

	rhr := "-"
	if f.RestingHR != nil {
		rhr = fmt.Sprintf("%.0f bpm", *f.RestingHR)
	}

	recovery := "-"
	if f.RecoveryScore != nil {
		recovery = fmt.Sprintf("%.0f%%", *f.RecoveryScore)
	}

	hrv := "-"
	if f.HRV != nil {
		hrv = fmt.Sprintf("%.1f ms", *f.HRV)
	}

	watts := "-"
	if f.AvgWatts != nil {
		watts = fmt.Sprintf("%.0f W", *f.AvgWatts)
	}

	lines := []string{
		RenderMetric("Est. VO2max", vo2, ""),
		RenderMetric("Resting HR", rhr, ""),
		RenderMetric("Recovery", recovery, ""),
		RenderMetric("HRV", hrv, ""),
		RenderMetric("Hours / week", fmt.Sprintf("%.1f", f.HoursPerWeek), ""),
		RenderMetric("Avg ride power", watts, ""),
	}

	if f.VO2maxLevel != "" {
		mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)
		lines = append(lines, "", mutedStyle.Render(f.VO2maxLevel))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("This Week")

	lines := []string{
		RenderMetric("Activities", fmt.Sprintf("%d", m.data.WeekActivityCount), ""),
		RenderMetric("Distance", m.units.FormatDistance(m.data.WeekDistance), ""),
		RenderMetric("Time", FormatDuration(m.data.WeekTime), ""),
		RenderMetric("Total stored", fmt.Sprintf("%d", m.data.TotalActivities), ""),
	}

	if !m.data.LastSync.IsZero() {
		lines = append(lines, RenderMetric("Last sync", m.data.LastSync.Format("Jan 02 15:04"), ""))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderVolumeChart() string {
	if len(m.data.WeeklyDistance) < 2 {
		return ""
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Weekly Distance (%s)", m.units.DistanceLabel()))

	values := make([]float64, len(m.data.WeeklyDistance))
	for i, meters := range m.data.WeeklyDistance {
		values[i] = m.units.ToDisplay(meters)
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %-12s  %9s  %8s",
		"Date", "Name", "Type", "Distance", "Time"))

	var rows []string
	rows = append(rows, header)

	for i, a := range m.data.RecentActivities {
		if i >= 5 {
			break
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %-12s  %9s  %8s",
			a.StartDate.Format("Jan 02"),
			truncateName(a.Name, 24),
			a.Type,
			m.units.FormatDistance(a.Distance),
			FormatDuration(a.MovingTime),
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

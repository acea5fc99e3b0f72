package tui

import (
	"fmt"
	"strings"

	"trainlog/internal/routes"
	"trainlog/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RoutesModel is the recurring routes screen model
type RoutesModel struct {
	queryService *service.QueryService
	units        Units
	groups       []service.RouteGroup
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewRoutesModel creates a new routes model
func NewRoutesModel(qs *service.QueryService, units Units, width, height int) RoutesModel {
	m := RoutesModel{
		queryService: qs,
		units:        units,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the routes screen
func (m RoutesModel) Init() tea.Cmd {
	return m.loadRoutes
}

type routesLoadedMsg struct {
	groups []service.RouteGroup
	err    error
}

func (m RoutesModel) loadRoutes() tea.Msg {
	groups, err := m.queryService.GetRouteGroups()
	return routesLoadedMsg{groups: groups, err: err}
}

// Update handles messages
func (m RoutesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case routesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.groups = msg.groups
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.groups != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadRoutes
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the routes screen
func (m RoutesModel) View() string {
	if m.loading {
		return "\n  Loading routes..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m RoutesModel) renderContent() string {
	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Recurring Routes"))
	sections = append(sections, "")

	anyRoutes := false
	for _, group := range m.groups {
		if len(group.Routes) == 0 {
			continue
		}
		anyRoutes = true
		sections = append(sections, m.renderGroup(group))
	}

	if !anyRoutes {
		sections = append(sections, lipgloss.NewStyle().Foreground(mutedColor).Render(
			"  No recurring routes found yet. A route appears once you've covered it at least twice."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RoutesModel) renderGroup(group service.RouteGroup) string {
	var lines []string

	lines = append(lines, m.sectionHeader(group.Label))

	for _, route := range group.Routes {
		lines = append(lines, m.renderRoute(route))
	}

	return strings.Join(lines, "\n")
}

func (m RoutesModel) renderRoute(r routes.Summary) string {
	var lines []string

	name := fmt.Sprintf("%s  (%dx, ~%s)", r.Name, r.Count, m.units.FormatDistance(r.AvgDistance))
	lines = append(lines, "  "+helpKeyStyle.Render(name))

	best := fmt.Sprintf("  Best    %8s  %s", FormatClock(r.BestTime), r.BestDate.Format("Jan 02, 2006"))
	last := fmt.Sprintf("  Latest  %8s  %s  %s", FormatClock(r.LastTime), r.LastDate.Format("Jan 02, 2006"), m.renderDiff(r.TimeDiff))
	lines = append(lines, best, last)

	// Member history, newest first
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)
	for i, a := range r.Activities {
		if i >= 5 {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("    ... and %d more", len(r.Activities)-i)))
			break
		}
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("    %s  %8s  %s",
			a.StartDate.Format("Jan 02"),
			FormatClock(a.MovingTime),
			m.units.FormatPace(a.MovingTime, a.Distance))))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// renderDiff shows the latest run against the route best
func (m RoutesModel) renderDiff(diff int) string {
	switch {
	case diff == 0:
		return successStyle.Render("(new best)")
	case diff > 0:
		return trendDownStyle.Render(fmt.Sprintf("(+%s vs best)", FormatClock(diff)))
	default:
		// TimeDiff is never negative: a faster latest run becomes the best
		return ""
	}
}

func (m RoutesModel) sectionHeader(title string) string {
	titleLen := len([]rune(title))
	dividerLen := 60 - titleLen - 4
	if dividerLen < 0 {
		dividerLen = 0
	}
	divider := strings.Repeat("─", dividerLen)
	return lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(fmt.Sprintf("── %s %s", title, divider))
}

package terminal

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arenarium/mapmarkers/internal/coordinator"
)

const (
	headerHeight = 1
	footerHeight = 1

	actionTimeout = 10 * time.Second
)

// statusMsg replaces the footer status line
type statusMsg string

// Model is the bubbletea model of the terminal map
type Model struct {
	engine *Engine
	coord  coordinator.Coordinator

	width  int
	height int

	status      string
	helpVisible bool
}

// NewModel creates the model presenting e and driving c
func NewModel(e *Engine, c coordinator.Coordinator) Model {
	return Model{
		engine:      e,
		coord:       c,
		status:      "press u to update markers",
		helpVisible: true,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles one message
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case refreshMsg:
	case statusMsg:
		m.status = string(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "u":
			m.status = "updating markers"
			return m, m.update()
		case "r":
			m.status = "removing markers"
			return m, m.remove()
		case "up":
			m.engine.Pan(1, 0)
		case "down":
			m.engine.Pan(-1, 0)
		case "left":
			m.engine.Pan(0, -1)
		case "right":
			m.engine.Pan(0, 1)
		case "+", "=":
			m.engine.Zoom(ZoomStep)
			m.status = m.zoomStatus()
		case "-", "_":
			m.engine.Zoom(1 / ZoomStep)
			m.status = m.zoomStatus()
		case "h":
			m.helpVisible = !m.helpVisible
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		w, h := m.mapSize()
		x, y := msg.X, msg.Y-headerHeight
		if x < 0 || y < 0 || x >= w || y >= h {
			return m, nil
		}
		return m, m.click(x, y, w, h)
	}
	return m, nil
}

func (m Model) update() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		res, err := m.coord.TriggerUpdate(ctx)
		if err != nil {
			return statusMsg("update failed: " + err.Error())
		}
		return statusMsg(fmt.Sprintf("generation %d: %d markers", res.Generation, res.Markers))
	}
}

func (m Model) remove() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		res, err := m.coord.TriggerRemove(ctx)
		if err != nil {
			return statusMsg("remove failed: " + err.Error())
		}
		return statusMsg(fmt.Sprintf("generation %d: markers removed", res.Generation))
	}
}

func (m Model) click(x, y, w, h int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := m.engine.ClickCell(ctx, x, y, w, h); err != nil {
			return statusMsg("click failed: " + err.Error())
		}
		return statusMsg("selection: " + m.coord.Selection().String())
	}
}

func (m Model) zoomStatus() string {
	v := m.engine.Viewport()
	return fmt.Sprintf("span: %.2f° × %.2f°", v.SpanLat, v.SpanLng)
}

func (m Model) mapSize() (int, int) {
	return max(m.width, 10), max(m.height-headerHeight-footerHeight, 4)
}

// View draws the header, the map and the footer
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	w, h := m.mapSize()
	b := m.engine.Viewport().Bounds()

	header := titleStyle.Render(" mapmarkers ") + dimStyle.Render(fmt.Sprintf(
		" sw %.2f,%.2f  ne %.2f,%.2f", b.SouthWest.Lat, b.SouthWest.Lng, b.NorthEast.Lat, b.NorthEast.Lng,
	))
	header = lipgloss.NewStyle().Width(w).MaxHeight(headerHeight).Render(header)

	body := m.engine.frame(w, h).render()

	footer := dimStyle.Render(" " + m.status + " ")
	if m.helpVisible {
		footer += dimStyle.Render(strings.Join([]string{
			"u update", "r remove", "←↑↓→ pan", "+/- zoom", "click select", "h help", "q quit",
		}, " · "))
	}
	footer = lipgloss.NewStyle().Width(w).MaxHeight(footerHeight).Render(footer)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

package report

import (
	"github.com/charmbracelet/lipgloss"

	"ecotrack/internal/domain"
)

var (
	styleNotPorted = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleUpstream  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleVisited   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const alreadyVisited = "(already visited)"

// indicator renders the one-character status marker, highlighting X and ✓
// unless plain mode is on.
func (r *Renderer) indicator(s domain.Status) string {
	ind := s.Indicator()
	if r.Plain {
		return ind
	}
	switch s {
	case domain.StatusNotPorted:
		return styleNotPorted.Render(ind)
	case domain.StatusUpstream:
		return styleUpstream.Render(ind)
	}
	return ind
}

// visitedSuffix renders the cycle-breaking annotation.
func (r *Renderer) visitedSuffix() string {
	if r.Plain {
		return alreadyVisited
	}
	return styleVisited.Render(alreadyVisited)
}

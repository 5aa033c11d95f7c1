package main

import "sketchflow/internal/export"

// handleNavigation pans the view with the arrow keys, one cell per press or
// four with shift held. It reports whether key was a navigation key.
func (m *model) handleNavigation(key string) bool {
	speed := m.getMoveSpeed(key)
	dx, dy := 0.0, 0.0
	switch key {
	case "left", "shift+left":
		dx = export.CellWidth
	case "right", "shift+right":
		dx = -export.CellWidth
	case "up", "shift+up":
		dy = export.CellHeight
	case "down", "shift+down":
		dy = -export.CellHeight
	default:
		return false
	}
	m.store.View().PanBy(dx*speed, dy*speed)
	return true
}

func (m *model) getMoveSpeed(key string) float64 {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(p phase, editing bool) string {
	if editing {
		return "enter apply  esc cancel"
	}
	switch p {
	case phaseLoading, phaseDecoding:
		return "v mode  q quit"
	case phaseViewing:
		return "v mode  g group size  f spectrum  r reload  w save png  o open  q quit"
	}
	return ""
}

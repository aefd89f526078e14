package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EmbeddedEvery/matrix-gui/internal/widgettour"
)

func main() {
	p := tea.NewProgram(widgettour.New(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "widget-tour:", err)
		os.Exit(1)
	}
}

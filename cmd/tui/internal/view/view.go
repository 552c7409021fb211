// Package view holds the interactive screens of the terminal client:
// the monthly expense browser, upcoming bills, recurring rule management
// and the statement import flow.
package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface every screen implements. Title and ShortHelp
// feed the surrounding chrome rendered by the menu model.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all screens.
type CommonModel struct{}

// BackMsg signals the menu model to leave the current screen.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

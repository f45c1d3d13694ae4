package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/moneybook/internal/user"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LoggedInMsg is sent once the user has signed in or registered.
type LoggedInMsg struct {
	User *user.User
}

var (
	_ View = LoginModel{}
	_ View = EntriesModel{}
)

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/moneybook/internal/config"
	"github.com/MrJamesThe3rd/moneybook/internal/database"
	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/moneybook/internal/ledger/store"
	"github.com/MrJamesThe3rd/moneybook/internal/user"
	userStore "github.com/MrJamesThe3rd/moneybook/internal/user/store"
)

type model struct {
	appName       string
	userService   *user.Service
	ledgerService *ledger.Service

	user        *user.User
	currentView View

	loginView   view.LoginModel
	entriesView view.EntriesModel
}

type View int

const (
	ViewLogin   View = 0
	ViewMenu    View = 1
	ViewEntries View = 2
)

func initialModel() model {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
	db, err := database.New(connectCtx, cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	cancelConnect()

	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if _, err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	userSvc := user.NewService(userStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db))

	return model{
		appName:       cfg.App.Name,
		userService:   userSvc,
		ledgerService: ledgerSvc,
		currentView:   ViewLogin,
		loginView:     view.NewLoginModel(userSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.openEntries(false)
			case "2":
				return m.openEntries(true)
			case "l":
				m.user = nil
				m.currentView = ViewLogin
				m.loginView = view.NewLoginModel(m.userService)

				return m, m.loginView.Init()
			}

			return m, nil
		}
	case view.LoggedInMsg:
		m.user = msg.User
		m.currentView = ViewMenu
		slog.Debug("signed in", "user_id", msg.User.ID)

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewEntries:
		var newModel tea.Model
		newModel, cmd = m.entriesView.Update(msg)
		m.entriesView = newModel.(view.EntriesModel)
	}

	return m, cmd
}

func (m model) openEntries(trash bool) (tea.Model, tea.Cmd) {
	m.currentView = ViewEntries
	m.entriesView = view.NewEntriesModel(m.ledgerService, m.user.ID, trash)

	return m, m.entriesView.Init()
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s TUI\nSigned in as %s\n\n", m.appName, m.user.Email) +
				"1. Entries\n" +
				"2. Trash\n\n" +
				"l. Log out\n" +
				"q. Quit",
		)
	case ViewEntries:
		return m.entriesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

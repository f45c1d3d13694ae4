package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybook/internal/user"
)

const (
	loginModeSignIn   = "signin"
	loginModeRegister = "register"
)

type LoginModel struct {
	CommonModel
	userService *user.Service

	form    *huh.Form
	spinner spinner.Model
	busy    bool
	err     error
}

func NewLoginModel(svc *user.Service) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return LoginModel{
		userService: svc,
		spinner:     s,
		form:        buildLoginForm(""),
	}
}

func (m LoginModel) Title() string { return "Sign In" }

func (m LoginModel) ShortHelp() string {
	if m.busy {
		return "Signing in..."
	}

	return "Enter: next | Ctrl+C: quit"
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m.updateBusy(msg)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, tea.Quit
	case huh.StateCompleted:
		m.busy = true
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.authCmd(
			m.form.GetString("mode"),
			m.form.GetString("email"),
			m.form.GetString("password"),
		))
	}

	return m, cmd
}

func (m LoginModel) updateBusy(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(authResultMsg); ok {
		m.busy = false

		if result.err != nil {
			m.err = result.err
			m.form = buildLoginForm(m.form.GetString("email"))

			return m, m.form.Init()
		}

		u := result.user

		return m, func() tea.Msg { return LoggedInMsg{User: u} }
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

// buildLoginForm keeps the previously typed email so a failed attempt only
// asks for the password again.
func buildLoginForm(email string) *huh.Form {
	mode := loginModeSignIn

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("Account").
				Options(
					huh.NewOption("Sign in", loginModeSignIn),
					huh.NewOption("Create account", loginModeRegister),
				).
				Value(&mode),

			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("you@example.com").
				Value(&email),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Moneybook")

	if m.busy {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title,
				"",
				fmt.Sprintf("%s Checking credentials...", m.spinner.View()),
			),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())

	if m.err != nil {
		errLine := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err))
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", errLine)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type authResultMsg struct {
	user *user.User
	err  error
}

func (m LoginModel) authCmd(mode, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			u   *user.User
			err error
		)

		if mode == loginModeRegister {
			u, err = m.userService.Register(ctx, email, password)
		} else {
			u, err = m.userService.Authenticate(ctx, email, password)
		}

		return authResultMsg{user: u, err: err}
	}
}

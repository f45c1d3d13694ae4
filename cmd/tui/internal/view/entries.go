package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
)

type entriesState int

const (
	entriesStateBrowse entriesState = iota
	entriesStateForm
	entriesStateConfirmDelete
)

type EntriesModel struct {
	CommonModel
	ledgerService *ledger.Service
	userID        uuid.UUID

	state   entriesState
	trash   bool
	table   table.Model
	entries []*ledger.Entry
	balance int64
	form    *huh.Form
	editing *ledger.Entry

	loading bool
	err     error
	status  string
}

func NewEntriesModel(svc *ledger.Service, userID uuid.UUID, trash bool) EntriesModel {
	t := table.New(
		table.WithColumns(entryColumns(trash)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return EntriesModel{
		ledgerService: svc,
		userID:        userID,
		trash:         trash,
		table:         t,
		loading:       true,
	}
}

func entryColumns(trash bool) []table.Column {
	dateTitle := "Created"
	if trash {
		dateTitle = "Deleted"
	}

	return []table.Column{
		{Title: dateTitle, Width: 17},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 12},
		{Title: "Total", Width: 12},
		{Title: "Description", Width: 40},
	}
}

func (m EntriesModel) Title() string {
	if m.trash {
		return "Trash"
	}

	return "Entries"
}

func (m EntriesModel) ShortHelp() string {
	switch m.state {
	case entriesStateForm, entriesStateConfirmDelete:
		return "Navigate form | Esc: cancel"
	}

	if m.trash {
		return "Esc: back | r: restore | t: entries | g: refresh"
	}

	return "Esc: back | n: new | e: edit | d: delete | t: trash | g: refresh"
}

func (m EntriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEntriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.entries = msg.entries
		m.balance = msg.balance
		m.refreshTable()

		return m, nil

	case entryChangedMsg:
		m.state = entriesStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case entriesStateBrowse:
		return m.updateBrowse(msg)
	case entriesStateForm, entriesStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m EntriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "g":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			return m.toggleTrash()
		}

		if m.trash {
			if keyMsg.String() == "r" {
				if e := m.selected(); e != nil {
					return m, m.restoreCmd(e.ID)
				}
			}
		} else {
			switch keyMsg.String() {
			case "n":
				return m.openForm(nil)
			case "e":
				if e := m.selected(); e != nil {
					return m.openForm(e)
				}
			case "d":
				if e := m.selected(); e != nil {
					return m.confirmDelete(e)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EntriesModel) toggleTrash() (tea.Model, tea.Cmd) {
	m.trash = !m.trash
	m.status = ""
	m.loading = true
	m.entries = nil
	m.table.SetRows(nil)
	m.table.SetColumns(entryColumns(m.trash))

	return m, m.loadCmd()
}

func (m EntriesModel) selected() *ledger.Entry {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return nil
	}

	return m.entries[idx]
}

// openForm shows the entry form. A nil entry creates a new one.
func (m EntriesModel) openForm(e *ledger.Entry) (tea.Model, tea.Cmd) {
	var (
		desc   string
		amount string
		typ    = ledger.TypeExpense
	)

	if e != nil {
		desc = e.Description
		amount = FormatAmount(e.Money)
		typ = e.Type
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ledger.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", ledger.TypeExpense),
					huh.NewOption("Income", ledger.TypeIncome),
				).
				Value(&typ),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&amount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&desc),
		),
	).WithWidth(45).WithShowHelp(false)

	m.editing = e
	m.state = entriesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m EntriesModel) confirmDelete(e *ledger.Entry) (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Move this entry to the trash?").
				Affirmative("Delete").
				Negative("Cancel"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.editing = e
	m.state = entriesStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m EntriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = entriesStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == entriesStateConfirmDelete {
		if !m.form.GetBool("confirm") {
			m.state = entriesStateBrowse
			m.form = nil
			m.editing = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.editing.ID)
	}

	return m, m.saveCmd()
}

func (m EntriesModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading entries...")
	}

	header := fmt.Sprintf("%s  |  Balance: %s  |  %d %s",
		lipgloss.NewStyle().Bold(true).Render(m.Title()),
		balanceStyle(m.balance).Render(FormatAmount(m.balance)),
		len(m.entries),
		pluralEntries(len(m.entries)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.form != nil {
		title := "New Entry"

		switch {
		case m.state == entriesStateConfirmDelete:
			title = "Delete Entry"
		case m.editing != nil:
			title = "Edit Entry"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func balanceStyle(balance int64) lipgloss.Style {
	if balance < 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
}

func pluralEntries(n int) string {
	if n == 1 {
		return "entry"
	}

	return "entries"
}

func (m *EntriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))

	for _, e := range m.entries {
		date := FormatDate(e.CreatedAt)
		if m.trash && e.DeletedAt != nil {
			date = FormatDate(*e.DeletedAt)
		}

		rows = append(rows, table.Row{
			date,
			strings.ToLower(e.Type.String()),
			FormatAmount(e.Money),
			FormatAmount(e.Total),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadEntriesMsg struct {
	entries []*ledger.Entry
	balance int64
	err     error
}

func (m EntriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			entries []*ledger.Entry
			err     error
		)

		if m.trash {
			entries, err = m.ledgerService.ListDeleted(ctx, m.userID)
		} else {
			entries, err = m.ledgerService.List(ctx, m.userID)
		}

		if err != nil {
			return loadEntriesMsg{err: err}
		}

		balance, err := m.ledgerService.Balance(ctx, m.userID)
		if err != nil {
			return loadEntriesMsg{err: err}
		}

		return loadEntriesMsg{entries: entries, balance: balance}
	}
}

type entryChangedMsg struct {
	status string
	err    error
}

func (m EntriesModel) saveCmd() tea.Cmd {
	typ, _ := m.form.Get("type").(ledger.Type)
	desc := m.form.GetString("description")

	money, err := ParseAmount(m.form.GetString("amount"))
	if err != nil {
		return func() tea.Msg { return entryChangedMsg{err: err} }
	}

	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			e, err := m.ledgerService.Create(ctx, m.userID, ledger.CreateParams{
				Description: desc,
				Money:       money,
				Type:        typ,
			})
			if err != nil {
				return entryChangedMsg{err: err}
			}

			return entryChangedMsg{status: "Created entry, balance " + FormatAmount(e.Total)}
		}

		key := ledger.Key{UserID: m.userID, EntryID: editing.ID}

		e, err := m.ledgerService.Modify(ctx, key, ledger.ModifyParams{
			Type:        &typ,
			Money:       &money,
			Description: &desc,
		})
		if err != nil {
			return entryChangedMsg{err: err}
		}

		return entryChangedMsg{status: "Updated entry, total " + FormatAmount(e.Total)}
	}
}

func (m EntriesModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.ledgerService.Delete(ctx, ledger.Key{UserID: m.userID, EntryID: id}); err != nil {
			return entryChangedMsg{err: err}
		}

		return entryChangedMsg{status: "Moved entry to the trash"}
	}
}

func (m EntriesModel) restoreCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.ledgerService.Restore(ctx, ledger.Key{UserID: m.userID, EntryID: id}); err != nil {
			return entryChangedMsg{err: err}
		}

		return entryChangedMsg{status: "Restored entry"}
	}
}

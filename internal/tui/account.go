package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saman-rajabii/baby-health-app/internal/api"
)

type accountModel struct {
	width  int
	height int

	user   api.User
	apiURL string
}

func newAccountModel(apiURL string) accountModel {
	return accountModel{apiURL: apiURL}
}

func (m *accountModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m accountModel) update(msg tea.Msg) (accountModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "o" {
			return m, func() tea.Msg { return loggedOutMsg{} }
		}
	}
	return m, nil
}

func (m accountModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Account")

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, normalItemStyle.Render("  Name   "+m.user.Name))
	rows = append(rows, normalItemStyle.Render("  Email  "+m.user.Email))
	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render("  Server  "+m.apiURL))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  o: sign out"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/saman-rajabii/baby-health-app/internal/api"
)

type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
)

type authFailedMsg struct {
	text string
}

// authModel is the sign-in wall. Nothing behind it is reachable until
// the backend hands out a token.
type authModel struct {
	client *api.Client
	width  int
	height int

	mode       authMode
	form       *huh.Form
	submitting bool
	errText    string
	notice     string

	// Form field pointers (survive value copies)
	formName     *string
	formEmail    *string
	formPassword *string
}

func newAuthModel(client *api.Client) authModel {
	name, email, password := "", "", ""
	m := authModel{
		client:       client,
		formName:     &name,
		formEmail:    &email,
		formPassword: &password,
	}
	m.form = m.buildForm()
	return m
}

func (m *authModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (m authModel) buildForm() *huh.Form {
	fields := []huh.Field{}
	if m.mode == modeSignUp {
		fields = append(fields,
			huh.NewInput().Title("Name").Value(m.formName).Validate(validateName))
	}
	fields = append(fields,
		huh.NewInput().Title("Email").Value(m.formEmail).Validate(validateEmail),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(m.formPassword).Validate(validatePassword),
	)
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
}

func (m authModel) update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		m.submitting = false
		m.errText = msg.text
		m.notice = ""
		m.form = m.buildForm()
		return m, m.form.Init()

	case signedUpMsg:
		m.mode = modeSignIn
		m.submitting = false
		m.errText = ""
		m.notice = "Account created. Sign in to continue."
		*m.formEmail = msg.email
		*m.formPassword = ""
		m.form = m.buildForm()
		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" && !m.submitting {
			if m.mode == modeSignIn {
				m.mode = modeSignUp
			} else {
				m.mode = modeSignIn
			}
			m.errText = ""
			m.notice = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errText = ""
		if m.mode == modeSignUp {
			return m, m.signUp()
		}
		return m, m.signIn()
	}

	return m, cmd
}

func (m authModel) signIn() tea.Cmd {
	client := m.client
	email := strings.TrimSpace(*m.formEmail)
	password := *m.formPassword
	return func() tea.Msg {
		resp, err := client.SignIn(context.Background(), email, password)
		if err != nil {
			// A 401 here means the credentials were wrong, not that a
			// session expired.
			if errors.Is(err, api.ErrUnauthorized) {
				return authFailedMsg{text: "Invalid email or password"}
			}
			return authFailedMsg{text: authErrText(err)}
		}
		return signedInMsg{token: resp.AccessToken, user: resp.User}
	}
}

func (m authModel) signUp() tea.Cmd {
	client := m.client
	name := strings.TrimSpace(*m.formName)
	email := strings.TrimSpace(*m.formEmail)
	password := *m.formPassword
	return func() tea.Msg {
		if err := client.SignUp(context.Background(), name, email, password); err != nil {
			return authFailedMsg{text: authErrText(err)}
		}
		return signedUpMsg{email: email}
	}
}

func authErrText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Cannot reach the server. Check your connection and try again."
}

func (m authModel) view() string {
	title := titleStyle.Render("Baby Health")
	subtitle := subtitleStyle.Render("Sign in to track kicks and contractions")
	if m.mode == modeSignUp {
		subtitle = subtitleStyle.Render("Create your account")
	}

	var rows []string
	rows = append(rows, title, subtitle, "")

	if m.notice != "" {
		rows = append(rows, successStyle.Render(m.notice), "")
	}
	if m.errText != "" {
		rows = append(rows, errorStyle.Render(m.errText), "")
	}

	if m.submitting {
		rows = append(rows, mutedStyle.Render("Submitting..."))
	} else {
		rows = append(rows, m.form.View())
	}

	hint := "ctrl+s: create account instead"
	if m.mode == modeSignUp {
		hint = "ctrl+s: back to sign in"
	}
	rows = append(rows, "", mutedStyle.Render(hint))

	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gridlight/gridlight-cli/internal/session"
)

// loginDoneMsg carries the outcome of a login attempt back to the UI
type loginDoneMsg struct {
	result *session.LoginResult
	err    error
}

// LoginModel is the email/password form page
type LoginModel struct {
	mgr    *session.Manager
	email  textinput.Model
	pass   textinput.Model
	focus  int // 0 = email, 1 = password
	busy   bool
	errMsg string
}

func NewLoginModel(mgr *session.Manager) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword

	return LoginModel{mgr: mgr, email: email, pass: pass}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.email.Focus()
				m.pass.Blur()
			} else {
				m.pass.Focus()
				m.email.Blur()
			}
			return m, nil
		case "enter":
			email := strings.TrimSpace(m.email.Value())
			password := m.pass.Value()
			if email == "" || password == "" {
				m.errMsg = "email and password are required"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			return m, m.loginCmd(email, password)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.pass, cmd = m.pass.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m LoginModel) loginCmd(email, password string) tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		result, err := mgr.Login(ctx, email, password)
		return loginDoneMsg{result: result, err: err}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GridLight — sign in"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Email"))
	b.WriteString("\n" + m.email.View() + "\n\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n" + m.pass.View() + "\n\n")
	if m.busy {
		b.WriteString("signing in...\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle(m.errMsg) + "\n")
	}
	b.WriteString("\ntab: switch field • enter: sign in • esc: quit\n")
	return docStyle.Render(b.String())
}

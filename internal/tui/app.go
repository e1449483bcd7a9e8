package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gridlight/gridlight-cli/internal/session"
)

// stateMsg delivers session state changes to the UI
type stateMsg session.State

// AppModel is the main application model that switches between the
// login form and the session dashboard
type AppModel struct {
	mgr       *session.Manager
	login     LoginModel
	dashboard DashboardModel
	page      string // "login" or "dashboard"
	updates   <-chan session.State
}

// NewAppModel creates the root model. It starts on the dashboard when a
// session was restored, on the login form otherwise.
func NewAppModel(mgr *session.Manager) AppModel {
	page := "login"
	if mgr.Snapshot().Authenticated {
		page = "dashboard"
	}
	return AppModel{
		mgr:       mgr,
		login:     NewLoginModel(mgr),
		dashboard: NewDashboardModel(mgr),
		page:      page,
		updates:   mgr.Subscribe(),
	}
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.login.Init(), m.waitForState())
}

// waitForState bridges the manager's subscription channel into the
// bubbletea message loop
func (m AppModel) waitForState() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return stateMsg(<-updates)
	}
}

// Update handles app-level messages and delegates to the active page
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		if session.State(msg).Authenticated {
			m.page = "dashboard"
		} else {
			m.page = "login"
		}
		return m, tea.Batch(cmd, m.waitForState())

	case loginDoneMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		if msg.err == nil {
			m.page = "dashboard"
		}
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "l":
			if m.page == "dashboard" {
				return m, m.logoutCmd()
			}
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case "login":
		m.login, cmd = m.login.Update(msg)
	case "dashboard":
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

func (m AppModel) logoutCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mgr.Logout(ctx)
		return nil
	}
}

// View renders the active page
func (m AppModel) View() string {
	if m.page == "dashboard" {
		return m.dashboard.View()
	}
	return m.login.View()
}

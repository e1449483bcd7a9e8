package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gridlight/gridlight-cli/internal/session"
)

// DashboardModel renders the current session as a status card
type DashboardModel struct {
	mgr   *session.Manager
	state session.State
}

func NewDashboardModel(mgr *session.Manager) DashboardModel {
	return DashboardModel{mgr: mgr, state: mgr.Snapshot()}
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	if state, ok := msg.(stateMsg); ok {
		m.state = session.State(state)
	}
	return m, nil
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GridLight — session"))
	b.WriteString("\n\n")

	if m.state.Online {
		b.WriteString(onlineStyle("● online") + "\n")
	} else {
		b.WriteString(offlineStyle("● offline") + "\n")
	}

	user := m.state.User
	if !m.state.Authenticated || user == nil {
		b.WriteString("\nNot signed in.\n")
		return docStyle.Render(b.String())
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Email
	}
	b.WriteString(fmt.Sprintf("\n%s\n", name))
	b.WriteString(fmt.Sprintf("%s  (%s)\n", user.Email, user.Role))

	if user.EmailVerified {
		b.WriteString("email verified\n")
	} else {
		b.WriteString(offlineStyle("email not verified") + "\n")
	}
	if !user.HasCompletedOnboarding {
		b.WriteString(offlineStyle("onboarding incomplete") + "\n")
	}

	if !m.state.LastSyncedAt.IsZero() {
		b.WriteString(fmt.Sprintf("last synced %s ago\n",
			time.Since(m.state.LastSyncedAt).Round(time.Minute)))
	}
	if expiry, ok := m.mgr.TokenExpiry(context.Background()); ok {
		b.WriteString(fmt.Sprintf("token expires %s\n", expiry.Local().Format(time.RFC822)))
	}

	b.WriteString("\nl: log out • esc: quit\n")
	return docStyle.Render(b.String())
}

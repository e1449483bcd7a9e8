package tui

import (
	"testing"

	"github.com/gridlight/gridlight-cli/internal/probe"
	"github.com/gridlight/gridlight-cli/internal/session"
	"github.com/gridlight/gridlight-cli/internal/store"
	"github.com/stretchr/testify/assert"
)

func testManager() *session.Manager {
	keyring := store.NewKeyring(store.NewMemoryStore())
	return session.NewManager(nil, nil, nil, keyring, probe.Static(false))
}

func TestLoginModel_View(t *testing.T) {
	m := NewLoginModel(testManager())
	view := m.View()
	assert.Contains(t, view, "Email")
	assert.Contains(t, view, "Password")
	assert.Contains(t, view, "sign in")
}

func TestDashboardModel_ViewSignedOut(t *testing.T) {
	m := NewDashboardModel(testManager())
	assert.Contains(t, m.View(), "Not signed in")
}

func TestDashboardModel_ViewSignedIn(t *testing.T) {
	m := NewDashboardModel(testManager())
	m, _ = m.Update(stateMsg(session.State{
		User: &session.UserProfile{
			ID: "42", Email: "a@b.c", FirstName: "Ada", LastName: "L",
			Role: "consumer", EmailVerified: true,
		},
		Authenticated: true,
		Online:        true,
	}))

	view := m.View()
	assert.Contains(t, view, "Ada L")
	assert.Contains(t, view, "a@b.c")
	assert.Contains(t, view, "online")
}

func TestAppModel_StartsOnLoginWhenSignedOut(t *testing.T) {
	m := NewAppModel(testManager())
	assert.Equal(t, "login", m.page)
}

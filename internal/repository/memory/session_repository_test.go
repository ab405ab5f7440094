package memory_test

import (
	"testing"
	"time"

	"prodreport-be/internal/repository/memory"
	"prodreport-be/pkg/flow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGetDelete(t *testing.T) {
	repo := memory.NewSessionRepository(time.Minute)

	_, found := repo.Get("u1")
	assert.False(t, found)

	repo.Save(&flow.Session{UserID: "u1", Step: flow.StepSelectClient})

	session, found := repo.Get("u1")
	require.True(t, found)
	assert.Equal(t, flow.StepSelectClient, session.Step)

	repo.Delete("u1")
	_, found = repo.Get("u1")
	assert.False(t, found)
}

func TestIdleTimeoutExpiresSession(t *testing.T) {
	repo := memory.NewSessionRepository(30 * time.Millisecond)

	repo.Save(&flow.Session{UserID: "u1", Step: flow.StepAwaitQuantity})
	time.Sleep(60 * time.Millisecond)

	_, found := repo.Get("u1")
	assert.False(t, found)
}

func TestSessionsAreKeyedPerUser(t *testing.T) {
	repo := memory.NewSessionRepository(time.Minute)

	repo.Save(&flow.Session{UserID: "u1", Client: "Acme"})
	repo.Save(&flow.Session{UserID: "u2", Client: "Beta"})

	s1, _ := repo.Get("u1")
	s2, _ := repo.Get("u2")
	assert.Equal(t, "Acme", s1.Client)
	assert.Equal(t, "Beta", s2.Client)
}

package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memModeStore struct {
	value   string
	saves   int
	loadErr error
}

func (m *memModeStore) LoadMode() (string, error) {
	return m.value, m.loadErr
}

func (m *memModeStore) SaveMode(mode string) error {
	m.value = mode
	m.saves++
	return nil
}

func TestControllerDefaults(t *testing.T) {
	c := NewController(&memModeStore{})
	assert.Equal(t, ModeNight, c.Mode())
	assert.Equal(t, TabMission, c.Tab())
}

func TestControllerRestoresMode(t *testing.T) {
	assert.Equal(t, ModeMorning, NewController(&memModeStore{value: "morning"}).Mode())
	assert.Equal(t, ModeNight, NewController(&memModeStore{value: "noon"}).Mode())
	assert.Equal(t, ModeNight, NewController(&memModeStore{value: "morning", loadErr: errors.New("disk")}).Mode())
}

func TestControllerTogglePersists(t *testing.T) {
	store := &memModeStore{}
	c := NewController(store)

	m, err := c.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ModeMorning, m)
	assert.Equal(t, "morning", store.value)

	m, err = c.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ModeNight, m)
	assert.Equal(t, 2, store.saves)
}

func TestControllerTabOnlyInMorning(t *testing.T) {
	store := &memModeStore{}
	c := NewController(store)

	assert.ErrorIs(t, c.SetTab(TabVision), ErrTabInNight)

	require.NoError(t, c.SetMode(ModeMorning))
	require.NoError(t, c.SetTab(TabVault))
	assert.Equal(t, TabVault, c.Tab())

	// the tab is never written to the preference store
	assert.Equal(t, "morning", store.value)
	assert.Equal(t, TabMission, NewController(store).Tab())
}

func TestParseMode(t *testing.T) {
	_, err := ParseMode("dusk")
	assert.Error(t, err)
	_, err = ParseTab("inbox")
	assert.Error(t, err)
}

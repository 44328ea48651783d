package board

import (
	"errors"
	"fmt"
	"sync"
)

// Mode is the top-level display state.
type Mode string

const (
	ModeNight   Mode = "night"
	ModeMorning Mode = "morning"
)

// DefaultMode is used when nothing has been persisted yet.
const DefaultMode = ModeNight

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNight, ModeMorning:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == ModeMorning {
		return ModeNight
	}
	return ModeMorning
}

// Tab is the morning-only view selector.
type Tab string

const (
	TabMission Tab = "mission"
	TabVision  Tab = "vision"
	TabVault   Tab = "vault"
)

func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabMission, TabVision, TabVault:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

var ErrTabInNight = errors.New("tabs are only available in morning mode")

// ModeStore persists the mode preference. It holds exactly one key.
type ModeStore interface {
	LoadMode() (string, error)
	SaveMode(mode string) error
}

// Controller is the night/morning switch plus the morning tab selector.
// The tab lives in memory only and resets on every start.
type Controller struct {
	mu    sync.Mutex
	store ModeStore
	mode  Mode
	tab   Tab
}

// NewController restores the persisted mode, falling back to DefaultMode
// when the stored value is missing or unreadable.
func NewController(store ModeStore) *Controller {
	c := &Controller{store: store, mode: DefaultMode, tab: TabMission}
	if store == nil {
		return c
	}
	raw, err := store.LoadMode()
	if err != nil || raw == "" {
		return c
	}
	if m, err := ParseMode(raw); err == nil {
		c.mode = m
	}
	return c
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// Toggle flips night and morning and persists the result.
func (c *Controller) Toggle() (Mode, error) {
	c.mu.Lock()
	next := c.mode.Opposite()
	c.mu.Unlock()
	return next, c.SetMode(next)
}

func (c *Controller) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.SaveMode(string(m))
}

func (c *Controller) SetTab(t Tab) error {
	if _, err := ParseTab(string(t)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeMorning {
		return ErrTabInNight
	}
	c.tab = t
	return nil
}

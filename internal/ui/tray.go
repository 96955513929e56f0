package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/afterglow/glowcut/internal/session"
)

type Tray struct {
	sessions *session.Manager
	logger   *slog.Logger

	statusItem   *systray.MenuItem
	sessionsItem *systray.MenuItem
	pauseItem    *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Sessions *session.Manager
	Logger   *slog.Logger
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Glowcut")
	systray.SetTooltip("Glowcut Editor Engine")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current engine status")
	t.statusItem.Disable()

	t.sessionsItem = systray.AddMenuItem("Sessions: 0", "Open editing sessions")
	t.sessionsItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause All", "Pause playback in every session")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Glowcut")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.pauseAll()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) pauseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.sessions.List() {
		s.State.Pause()
	}
	t.statusItem.SetTitle("Status: Idle")
}

// Refresh repaints the counters from current session state. Safe to
// call before the tray is ready.
func (t *Tray) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.statusItem == nil || t.sessionsItem == nil {
		return
	}

	count := t.sessions.Count()
	playing := t.sessions.PlayingCount()

	t.sessionsItem.SetTitle(fmt.Sprintf("Sessions: %d", count))
	if playing > 0 {
		t.statusItem.SetTitle(fmt.Sprintf("Status: Playing (%d)", playing))
	} else if count > 0 {
		t.statusItem.SetTitle("Status: Editing")
	} else {
		t.statusItem.SetTitle("Status: Idle")
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}

// Package ui is the optional desktop system tray.
package ui

import (
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/ruziwatakundanashe/reelgen/internal/studio"
)

const statusPollInterval = time.Second

type Tray struct {
	studio studio.Studio
	url    string
	logger *slog.Logger

	statusItem *systray.MenuItem

	mu         sync.Mutex
	lastStatus string

	onQuit func()
	done   chan struct{}
}

type TrayConfig struct {
	Studio studio.Studio
	// URL of the web UI opened by "Open Reel Generator".
	URL    string
	Logger *slog.Logger
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		studio: cfg.Studio,
		url:    cfg.URL,
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
		done:   make(chan struct{}),
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Reels")
	systray.SetTooltip("Facebook Reel Generator")

	t.statusItem = systray.AddMenuItem(StatusTitle(studio.State{}), "Render status")
	t.statusItem.Disable()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open Reel Generator", "Open the generator in your browser")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit the reel generator")

	go t.pollStatus()

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.openBrowser()
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
	close(t.done)
	t.logger.Info("system tray exiting")
}

func (t *Tray) pollStatus() {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.UpdateStatus(t.studio.State())
		}
	}
}

// UpdateStatus retitles the status item when the render state changes.
func (t *Tray) UpdateStatus(st studio.State) {
	title := StatusTitle(st)

	t.mu.Lock()
	defer t.mu.Unlock()
	if title == t.lastStatus || t.statusItem == nil {
		return
	}
	t.lastStatus = title
	t.statusItem.SetTitle(title)
}

// StatusTitle is the tray label for a render state.
func StatusTitle(st studio.State) string {
	return "Status: " + st.Label()
}

func (t *Tray) openBrowser() {
	name, args := BrowserCommand(runtime.GOOS, t.url)
	if err := exec.Command(name, args...).Start(); err != nil {
		t.logger.Error("failed to open browser", "url", t.url, "error", err)
	}
}

// BrowserCommand returns the platform command that opens url.
func BrowserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}

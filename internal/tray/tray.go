package tray

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"fyne.io/systray"
	"github.com/ncruces/zenity"
	"github.com/toqueteos/webbrowser"
	"go.uber.org/zap"

	"github.com/dwightmulcahy/PeakHODLer/internal/coinglass"
	"github.com/dwightmulcahy/PeakHODLer/internal/logtail"
	"github.com/dwightmulcahy/PeakHODLer/internal/prefs"
	"github.com/dwightmulcahy/PeakHODLer/internal/state"
)

const (
	coinglassURL = "https://www.coinglass.com/bull-market-peak-signals"
	logViewLines = 20
)

// Options wire the presenter to the rest of the application.
type Options struct {
	AppName   string
	Version   string
	Prefs     *prefs.Store
	Readings  *state.Store
	Registrar LoginRegistrar
	Logger    *zap.Logger
	LogPath   string
}

// LoginRegistrar is the subset of loginitem.Registrar the menu needs.
type LoginRegistrar interface {
	Enabled(ctx context.Context) (bool, error)
	Toggle(ctx context.Context, appPath string) (bool, error)
}

// Menu is the menubar presenter.
type Menu struct {
	// Callbacks into the refresh loop, set by the composition root before
	// Run is called.
	OnRefresh    func()
	OnReschedule func(minutes int)

	opts Options
	log  *zap.Logger

	mu          sync.Mutex
	ready       bool
	lastTitle   string
	lastSummary string
	lastUpdated string
	triggered   []coinglass.Indicator

	lastUpdatedItem *systray.MenuItem
	summaryItem     *systray.MenuItem
	refreshItem     *systray.MenuItem
	openSiteItem    *systray.MenuItem
	triggeredItem   *systray.MenuItem
	loginItem       *systray.MenuItem
	apiKeyItem      *systray.MenuItem
	refreshRateItem *systray.MenuItem
	showLogItem     *systray.MenuItem
	aboutItem       *systray.MenuItem
	quitItem        *systray.MenuItem
}

// New builds the presenter. Nothing touches the system tray until Run.
func New(opts Options) *Menu {
	return &Menu{opts: opts, log: opts.Logger}
}

// Run starts the systray loop and blocks until the user quits or the
// context is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(func() { m.onReady(ctx) }, nil)
	return nil
}

func (m *Menu) onReady(ctx context.Context) {
	m.mu.Lock()

	systray.SetTitle(loadingTitle)
	systray.SetTooltip("CoinGlass bull market peak indicator")

	m.lastUpdatedItem = systray.AddMenuItem("Last Updated: never", "")
	m.lastUpdatedItem.Disable()
	m.summaryItem = systray.AddMenuItem("Not updated yet", "")
	m.summaryItem.Disable()
	m.refreshItem = systray.AddMenuItem("Refresh Now", "Fetch the indicator immediately")
	systray.AddSeparator()

	m.openSiteItem = systray.AddMenuItem("Open CoinGlass", "Open the bull market peak signals page")
	m.triggeredItem = systray.AddMenuItem("No Triggered Indicators", "")
	m.triggeredItem.Disable()
	systray.AddSeparator()

	cur := m.opts.Prefs.Current()
	settings := systray.AddMenuItem("Settings", "")
	m.loginItem = settings.AddSubMenuItemCheckbox("Launch at Login",
		"Start "+m.opts.AppName+" when you log in", cur.LaunchAtLogin)
	m.apiKeyItem = settings.AddSubMenuItem("Set API Key…", "Store your CoinGlass API key")
	m.refreshRateItem = settings.AddSubMenuItem(refreshRateTitle(cur.RefreshMinutes),
		fmt.Sprintf("Minimum %d minutes", prefs.MinRefreshMinutes))
	m.showLogItem = systray.AddMenuItem("Show Log", "Show the last 20 log lines")
	systray.AddSeparator()

	m.aboutItem = systray.AddMenuItem("About "+m.opts.AppName, "")
	m.quitItem = systray.AddMenuItem("Quit", "Quit "+m.opts.AppName)

	m.ready = true
	// The initial poll may have finished before the menu existed; render
	// whatever is in the store so its result is not lost until next tick.
	m.render(m.opts.Readings.Snapshot())
	m.mu.Unlock()

	go m.syncLoginState(ctx)
	go m.clickLoop(ctx)
}

// clickLoop serializes all menu actions on one goroutine.
func (m *Menu) clickLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.refreshItem.ClickedCh:
			m.log.Info("manual refresh requested")
			if m.OnRefresh != nil {
				m.OnRefresh()
			}
		case <-m.openSiteItem.ClickedCh:
			m.openCoinGlass()
		case <-m.triggeredItem.ClickedCh:
			m.showTriggered()
		case <-m.loginItem.ClickedCh:
			m.toggleLoginItem(ctx)
		case <-m.apiKeyItem.ClickedCh:
			m.promptAPIKey()
		case <-m.refreshRateItem.ClickedCh:
			m.promptRefreshRate()
		case <-m.showLogItem.ClickedCh:
			m.showLog()
		case <-m.aboutItem.ClickedCh:
			m.showAbout()
		case <-m.quitItem.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// Update re-renders the menubar from the latest snapshot. Safe to call from
// the refresher goroutine; writes that would not change anything are
// skipped.
func (m *Menu) Update(snap state.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return
	}
	m.render(snap)
	m.notifyOnFailure(snap)
}

// render applies the snapshot to the menu. Callers must hold m.mu.
func (m *Menu) render(snap state.Snapshot) {
	if title := Title(snap); title != m.lastTitle {
		systray.SetTitle(title)
		m.lastTitle = title
	}
	if updated := LastUpdated(snap); updated != m.lastUpdated {
		m.lastUpdatedItem.SetTitle(updated)
		m.lastUpdated = updated
	}
	if summary := Summary(snap); summary != m.lastSummary {
		m.summaryItem.SetTitle(summary)
		m.lastSummary = summary
	}

	if snap.HasGood {
		m.triggered = snap.LastGood.Triggered
		if len(m.triggered) > 0 {
			m.triggeredItem.SetTitle("Triggered Indicators")
			m.triggeredItem.Enable()
		} else {
			m.triggeredItem.SetTitle("No Triggered Indicators")
			m.triggeredItem.Disable()
		}
	}
}

// notifyOnFailure posts one desktop notification per outage, on the first
// failed poll. Missing-key is excluded; the title already prompts for it.
func (m *Menu) notifyOnFailure(snap state.Snapshot) {
	r := snap.Reading
	if !snap.HasReading || r.OK() || r.Status == coinglass.StatusMissingKey {
		return
	}
	if snap.ConsecutiveFailures != 1 {
		return
	}
	_ = zenity.Notify("Update failed: "+r.Detail, zenity.Title(m.opts.AppName))
}

// syncLoginState reconciles the checkbox with the actual System Events
// registration, which the user may have changed outside the app.
func (m *Menu) syncLoginState(ctx context.Context) {
	enabled, err := m.opts.Registrar.Enabled(ctx)
	if err != nil {
		m.log.Warn("login item status unavailable", zap.Error(err))
		return
	}
	m.setLoginChecked(enabled)
	if enabled != m.opts.Prefs.Current().LaunchAtLogin {
		if err := m.opts.Prefs.SetLaunchAtLogin(enabled); err != nil {
			m.log.Error("save login preference", zap.Error(err))
		}
	}
}

func (m *Menu) setLoginChecked(enabled bool) {
	if enabled {
		m.loginItem.Check()
	} else {
		m.loginItem.Uncheck()
	}
}

func (m *Menu) toggleLoginItem(ctx context.Context) {
	appPath, err := os.Executable()
	if err != nil {
		m.log.Error("resolve executable path", zap.Error(err))
		m.alertError("Could not determine the application path.")
		return
	}

	enabled, err := m.opts.Registrar.Toggle(ctx, appPath)
	if err != nil {
		m.log.Error("toggle login item", zap.Error(err))
		m.alertError("Could not change the login item registration.")
		return
	}

	// Checkmark flips only after the registration actually changed.
	m.setLoginChecked(enabled)
	if err := m.opts.Prefs.SetLaunchAtLogin(enabled); err != nil {
		m.log.Error("save login preference", zap.Error(err))
	}
	m.log.Info("launch at login changed", zap.Bool("enabled", enabled))
}

func (m *Menu) promptAPIKey() {
	cur := m.opts.Prefs.Current()
	key, err := zenity.Entry("Enter your CoinGlass API key:",
		zenity.Title("Set API Key"),
		zenity.EntryText(cur.APIKey))
	if err != nil {
		return // cancelled
	}
	if err := m.opts.Prefs.SetAPIKey(key); err != nil {
		m.log.Error("save api key", zap.Error(err))
		m.alertError("Failed to save the API key.")
		return
	}
	m.log.Info("api key updated; refreshing")
	if m.OnRefresh != nil {
		m.OnRefresh()
	}
}

func (m *Menu) promptRefreshRate() {
	cur := m.opts.Prefs.Current()
	text, err := zenity.Entry(
		fmt.Sprintf("Refresh interval in minutes (minimum %d):", prefs.MinRefreshMinutes),
		zenity.Title("Set Refresh Rate"),
		zenity.EntryText(strconv.Itoa(cur.RefreshMinutes)))
	if err != nil {
		return // cancelled
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		m.log.Warn("invalid refresh rate input", zap.String("input", text))
		m.alertError("Please enter a whole number of minutes.")
		return
	}
	if minutes < prefs.MinRefreshMinutes {
		m.log.Warn("refresh rate below minimum rejected", zap.Int("minutes", minutes))
		m.alertError(fmt.Sprintf("Refresh rate must be at least %d minutes.", prefs.MinRefreshMinutes))
		return
	}

	stored, err := m.opts.Prefs.SetRefreshMinutes(minutes)
	if err != nil {
		m.log.Error("save refresh rate", zap.Error(err))
		m.alertError("Failed to save the refresh rate.")
		return
	}
	m.refreshRateItem.SetTitle(refreshRateTitle(stored))
	if m.OnReschedule != nil {
		m.OnReschedule(stored)
	}
	m.log.Info("refresh rate updated", zap.Int("minutes", stored))
}

func (m *Menu) openCoinGlass() {
	m.log.Info("opening coinglass", zap.String("url", coinglassURL))
	if err := webbrowser.Open(coinglassURL); err != nil {
		m.log.Error("open browser", zap.Error(err))
	}
}

func (m *Menu) showTriggered() {
	m.mu.Lock()
	triggered := m.triggered
	m.mu.Unlock()

	lines := make([]string, 0, len(triggered))
	for _, ind := range triggered {
		lines = append(lines, FormatIndicator(ind))
	}
	body := "No indicators have been triggered yet."
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	_ = zenity.Info(body, zenity.Title("Triggered Indicators"))
}

func (m *Menu) showLog() {
	lines, err := logtail.Tail(m.opts.LogPath, logViewLines)
	if err != nil {
		m.log.Error("read log", zap.Error(err))
		m.alertError("Could not read the log file.")
		return
	}
	body := "Log file is empty."
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	_ = zenity.Info(body,
		zenity.Title(m.opts.AppName+" Log"),
		zenity.Width(700))
}

func (m *Menu) showAbout() {
	_ = zenity.Info(fmt.Sprintf(
		"%s v%s\n\nDisplays the CoinGlass BTC bull market peak indicator in the menu bar.\n\nData provided by CoinGlass.",
		m.opts.AppName, m.opts.Version),
		zenity.Title("About "+m.opts.AppName))
}

func (m *Menu) alertError(msg string) {
	_ = zenity.Error(msg, zenity.Title(m.opts.AppName))
}

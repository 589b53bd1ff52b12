package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dwightmulcahy/PeakHODLer/internal/coinglass"
	"github.com/dwightmulcahy/PeakHODLer/internal/logging"
	"github.com/dwightmulcahy/PeakHODLer/internal/loginitem"
	"github.com/dwightmulcahy/PeakHODLer/internal/prefs"
	"github.com/dwightmulcahy/PeakHODLer/internal/state"
	"github.com/dwightmulcahy/PeakHODLer/internal/tray"
)

const (
	// AppName is the display name used in the menu, dialogs, and the
	// login-item registration.
	AppName = "PeakHODLer"

	// Version is shown in the About dialog.
	Version = "1.0.0"
)

// Options configure the PeakHODLer application.
type Options struct {
	PrefsPath string // empty uses ~/.config/peakhodler/prefs.toml
	LogDir    string // empty uses ~/Library/Logs/peakhodler
	BaseURL   string // empty uses the production CoinGlass endpoint
}

// Run boots the menubar application until the context is cancelled or the
// user quits.
func Run(ctx context.Context, opts Options) error {
	logger, logPath, err := logging.Open(opts.LogDir)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	prefStore, err := prefs.Open(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := coinglass.NewClient(opts.BaseURL)
	if err != nil {
		return fmt.Errorf("init coinglass client: %w", err)
	}

	readings := &state.Store{}

	menubar := tray.New(tray.Options{
		AppName:   AppName,
		Version:   Version,
		Prefs:     prefStore,
		Readings:  readings,
		Registrar: loginitem.New(AppName),
		Logger:    logger,
		LogPath:   logPath,
	})

	refresher := NewRefresher(readings, prefStore, client, logger, menubar.Update)
	menubar.OnRefresh = refresher.RefreshNow
	menubar.OnReschedule = refresher.Reschedule

	refresher.Start(ctx)
	// Populate the label without waiting out the first full interval.
	refresher.RefreshNow()

	logger.Info("starting",
		zap.String("version", Version),
		zap.Int("refresh_minutes", prefStore.Current().RefreshMinutes))
	defer logger.Info("stopping")

	return menubar.Run(ctx)
}

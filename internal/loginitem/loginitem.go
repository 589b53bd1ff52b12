// Package loginitem toggles macOS launch-at-login registration through
// System Events.
package loginitem

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its combined output. It exists so
// tests can substitute osascript.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Registrar manages the app's login-item registration.
type Registrar struct {
	appName string
	run     Runner
}

// New builds a Registrar that shells out to osascript.
func New(appName string) *Registrar {
	return &Registrar{appName: appName, run: execRunner}
}

// NewWithRunner builds a Registrar with a custom command runner. Intended
// for tests.
func NewWithRunner(appName string, run Runner) *Registrar {
	return &Registrar{appName: appName, run: run}
}

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Enabled reports whether the app is currently registered as a login item.
func (r *Registrar) Enabled(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "osascript", "-e",
		`tell application "System Events" to get the name of every login item`)
	if err != nil {
		return false, fmt.Errorf("list login items: %w", err)
	}
	for _, name := range strings.Split(out, ",") {
		if strings.TrimSpace(name) == r.appName {
			return true, nil
		}
	}
	return false, nil
}

// Enable registers appPath to launch at login.
func (r *Registrar) Enable(ctx context.Context, appPath string) error {
	script := fmt.Sprintf(
		`tell application "System Events" to make login item at end with properties {name:%q, path:%q, hidden:false}`,
		r.appName, appPath)
	if _, err := r.run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("enable login item: %w", err)
	}
	return nil
}

// Disable removes the app's login-item registration.
func (r *Registrar) Disable(ctx context.Context) error {
	script := fmt.Sprintf(
		`tell application "System Events" to delete login item %q`, r.appName)
	if _, err := r.run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("disable login item: %w", err)
	}
	return nil
}

// Toggle flips the registration and reports the resulting state.
func (r *Registrar) Toggle(ctx context.Context, appPath string) (bool, error) {
	enabled, err := r.Enabled(ctx)
	if err != nil {
		return false, err
	}
	if enabled {
		return false, r.Disable(ctx)
	}
	return true, r.Enable(ctx, appPath)
}

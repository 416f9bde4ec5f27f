//go:build !windows && !linux

package overlay

import (
	"digitalclock/internal/core/bootstrap"
	appLog "digitalclock/internal/log"

	"fyne.io/fyne/v2"
)

func applyNative(_ fyne.Window, config bootstrap.OverlayConfig) error {
	if config.IgnoresPointer {
		appLog.Info("click-through is not available on this platform")
	}
	return nil
}

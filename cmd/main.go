package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digitalclock/internal/config"
	"digitalclock/internal/core/agenda"
	"digitalclock/internal/core/bootstrap"
	"digitalclock/internal/core/model"
	"digitalclock/internal/core/weekend"
	appLog "digitalclock/internal/log"
	"digitalclock/internal/platform"
	"digitalclock/internal/storage"
	"digitalclock/internal/ui/overlay"
	"digitalclock/internal/ui/preferences"
	"digitalclock/internal/ui/tray"
	"digitalclock/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "DigitalClock"
	appID   = "com.digitalclock.app"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: user config dir)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		appLog.Error("digital clock stopped", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			appLog.Info("another instance is already running")
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	if configPath == "" {
		configPath, err = config.DefaultPath(appName)
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level := appLog.ParseLevel(cfg.LogLevel)
	if debug {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)
	appLog.Info("config loaded", "path", configPath, "calendars", len(cfg.Calendars))

	store, err := storage.NewYAMLStore(appName)
	if err != nil {
		return err
	}
	prefs, err := store.Load()
	if err != nil {
		appLog.Error("preferences unreadable, using defaults", err, "path", store.Path())
		prefs = model.DefaultPreferences()
	}

	wired, err := buildCalendars(cfg, prefs, appName)
	if err != nil {
		return err
	}

	rule := weekend.Detect()
	if len(cfg.Weekend) > 0 {
		if rule, err = weekend.Parse(cfg.Weekend); err != nil {
			return err
		}
	}
	loc := cfg.Location()
	aggregator := agenda.New(wired.source, agenda.Config{
		HolidayMarker: cfg.HolidayMarker,
		Location:      loc,
		Weekend:       rule,
	})

	info := platform.NewSystemInfo()
	if cfg.Battery.I2CBus != "" {
		info = platform.WithBattery(info, platform.NewI2CGauge(cfg.Battery.I2CBus, cfg.Battery.I2CAddress))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	clock := overlay.New(fyneApp, prefs)
	clock.Show()

	prefsWindow := preferences.New(fyneApp, prefs, func(updated model.Preferences) {
		if err := store.Save(updated); err != nil {
			appLog.Error("save preferences", err, "path", store.Path())
		}
		clock.ApplyPreferences(updated)
		wired.setAPIKey(updated.APIKey)
		aggregator.Reauthorize()
	})

	go func() {
		for range guard.Activations() {
			fyne.Do(prefsWindow.Show)
		}
	}()

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnPreferences: prefsWindow.Show,
		OnRefresh:     aggregator.Refresh,
		OnQuit:        fyneApp.Quit,
	})
	desktopApp.SetSystemTrayIcon(resources.TrayIcon())

	boot := bootstrap.New(overlay.NewLocator(fyneApp, clock), bootstrap.Config{
		Interval:    cfg.Bootstrap.Interval,
		MaxAttempts: cfg.Bootstrap.MaxAttempts,
		Overlay:     bootstrap.DefaultOverlay(),
	})
	bootEvents := boot.Subscribe(4)
	go func() {
		for status := range bootEvents {
			state := status.State
			fyne.Do(func() {
				trayManager.SetOverlayState(state)
			})
		}
	}()

	agendaEvents := aggregator.Subscribe(8)
	loop := &clockLoop{
		aggregator: aggregator,
		info:       info,
		location:   loc,
		render:     clock.Render,
		now:        time.Now,
		onAgenda: func(event agenda.Event) {
			if status, ok := calendarStatus(event); ok {
				fyne.Do(func() {
					trayManager.SetCalendarStatus(status)
				})
			}
		},
	}

	fyneApp.Lifecycle().SetOnStarted(func() {
		go aggregator.Start(ctx)
		go func() {
			if err := wired.source.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLog.Error("calendar watch stopped", err)
			}
		}()
		wired.poller.Start()
		go loop.run(ctx, agendaEvents)
		boot.Start(ctx)
	})
	fyneApp.Lifecycle().SetOnStopped(func() {
		stop()
		boot.Stop()
		wired.poller.Stop()
		aggregator.Stop()
	})

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
	return nil
}

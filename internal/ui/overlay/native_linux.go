//go:build linux

package overlay

import (
	"errors"
	"fmt"

	"digitalclock/internal/core/bootstrap"
	appLog "digitalclock/internal/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
)

const (
	netWMStateAdd   = 1
	sourceNormalApp = 1
	allDesktops     = 0xFFFFFFFF
)

var errNotRealized = errors.New("window has no native handle yet")

func applyNative(window fyne.Window, config bootstrap.OverlayConfig) error {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return nil
	}

	var handle uintptr
	x11 := false
	nativeWindow.RunNative(func(context any) {
		switch value := context.(type) {
		case driver.X11WindowContext:
			handle, x11 = value.WindowHandle, true
		case *driver.X11WindowContext:
			handle, x11 = value.WindowHandle, true
		}
	})
	if !x11 {
		appLog.Info("click-through needs an X11 session, leaving the window interactive")
		return nil
	}
	if handle == 0 {
		return errNotRealized
	}
	return configureX11(xproto.Window(handle), config)
}

func configureX11(window xproto.Window, config bootstrap.OverlayConfig) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer conn.Close()

	if config.IgnoresPointer {
		if err := shape.Init(conn); err != nil {
			return fmt.Errorf("init shape extension: %w", err)
		}
		// An empty input region lets every click fall through to the desktop.
		err := shape.RectanglesChecked(conn, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted, window, 0, 0, nil).Check()
		if err != nil {
			return fmt.Errorf("clear input region: %w", err)
		}
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	states := []string{"_NET_WM_STATE_BELOW"}
	if config.AllWorkspaces {
		states = append(states, "_NET_WM_STATE_STICKY", "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER")
	}
	stateAtom, err := internAtom(conn, "_NET_WM_STATE")
	if err != nil {
		return err
	}
	for _, name := range states {
		atom, err := internAtom(conn, name)
		if err != nil {
			return err
		}
		event := clientMessage(window, stateAtom, netWMStateAdd, uint32(atom), 0, sourceNormalApp)
		if err := sendToRoot(conn, root, event); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}

	if config.AllWorkspaces {
		desktopAtom, err := internAtom(conn, "_NET_WM_DESKTOP")
		if err != nil {
			return err
		}
		event := clientMessage(window, desktopAtom, allDesktops, sourceNormalApp)
		if err := sendToRoot(conn, root, event); err != nil {
			return fmt.Errorf("set _NET_WM_DESKTOP: %w", err)
		}
	}
	return nil
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	return reply.Atom, nil
}

func clientMessage(window xproto.Window, messageType xproto.Atom, data ...uint32) xproto.ClientMessageEvent {
	words := make([]uint32, 5)
	copy(words, data)
	return xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   messageType,
		Data:   xproto.ClientMessageDataUnionData32New(words),
	}
}

func sendToRoot(conn *xgb.Conn, root xproto.Window, event xproto.ClientMessageEvent) error {
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	return xproto.SendEventChecked(conn, false, root, mask, string(event.Bytes())).Check()
}

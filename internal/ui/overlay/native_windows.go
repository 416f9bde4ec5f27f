//go:build windows

package overlay

import (
	"syscall"

	"digitalclock/internal/core/bootstrap"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

const (
	gwlExStyle       int32 = -20
	wsExLayered            = 0x00080000
	wsExTransparent        = 0x00000020
	wsExToolWindow         = 0x00000080
	wsExNoActivate         = 0x08000000
	hwndBottom             = 1
	swpNoSize              = 0x0001
	swpNoMove              = 0x0002
	swpNoActivate          = 0x0010
	lwaAlpha               = 0x2
	opaque                 = 255
)

var (
	user32DLL                      = syscall.NewLazyDLL("user32.dll")
	procGetWindowLongPtrW          = user32DLL.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32DLL.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32DLL.NewProc("SetLayeredWindowAttributes")
	procSetWindowPos               = user32DLL.NewProc("SetWindowPos")
)

func applyNative(window fyne.Window, config bootstrap.OverlayConfig) error {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return nil
	}

	nativeWindow.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		default:
			return
		}
		if hwnd == 0 {
			return
		}

		style, _, _ := procGetWindowLongPtrW.Call(hwnd, int32ToUintptr(gwlExStyle))
		style |= wsExLayered
		if config.IgnoresPointer {
			style |= wsExTransparent | wsExNoActivate
		}
		if config.AllWorkspaces {
			// Tool windows stay off the taskbar and the alt-tab list.
			style |= wsExToolWindow
		}
		procSetWindowLongPtrW.Call(hwnd, int32ToUintptr(gwlExStyle), style)
		procSetLayeredWindowAttributes.Call(hwnd, 0, opaque, uintptr(lwaAlpha))
		procSetWindowPos.Call(hwnd, hwndBottom, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	})
	return nil
}

func int32ToUintptr(value int32) uintptr {
	return uintptr(uint32(value))
}

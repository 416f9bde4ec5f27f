package platform

import (
	"time"
	"unsafe"

	"github.com/samber/mo"
	"golang.org/x/sys/windows"
)

type systemInfo struct {
	getPowerStatus *windows.LazyProc
}

type systemPowerStatus struct {
	acLineStatus        byte
	batteryFlag         byte
	batteryLifePercent  byte
	systemStatusFlag    byte
	batteryLifeTime     uint32
	batteryFullLifeTime uint32
}

const (
	batteryFlagNoBattery = 128
	batteryPercentUnknown  = 255
)

func newSystemInfo() SystemInfoProvider {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	return &systemInfo{getPowerStatus: kernel32.NewProc("GetSystemPowerStatus")}
}

func (info *systemInfo) Uptime() mo.Option[time.Duration] {
	return mo.Some(time.Duration(windows.GetTickCount64()) * time.Millisecond)
}

func (info *systemInfo) BatteryLevel() mo.Option[int] {
	var status systemPowerStatus
	result, _, _ := info.getPowerStatus.Call(uintptr(unsafe.Pointer(&status)))
	if result == 0 {
		return mo.None[int]()
	}
	if status.batteryFlag&batteryFlagNoBattery != 0 || status.batteryLifePercent == batteryPercentUnknown {
		return mo.None[int]()
	}
	return percent(int(status.batteryLifePercent))
}

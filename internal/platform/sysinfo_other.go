//go:build !linux && !darwin && !windows

package platform

import (
	"time"

	"github.com/samber/mo"
)

type systemInfo struct{}

func newSystemInfo() SystemInfoProvider {
	return &systemInfo{}
}

func (info *systemInfo) Uptime() mo.Option[time.Duration] {
	return mo.None[time.Duration]()
}

func (info *systemInfo) BatteryLevel() mo.Option[int] {
	return mo.None[int]()
}

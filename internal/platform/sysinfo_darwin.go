package platform

import (
	"os/exec"
	"time"

	"github.com/samber/mo"
	"golang.org/x/sys/unix"
)

type systemInfo struct{}

func newSystemInfo() SystemInfoProvider {
	return &systemInfo{}
}

// Uptime is the time since kern.boottime.
func (info *systemInfo) Uptime() mo.Option[time.Duration] {
	boot, err := unix.SysctlTimeval("kern.boottime")
	if err != nil {
		return mo.None[time.Duration]()
	}
	seconds, nanos := boot.Unix()
	return mo.Some(time.Since(time.Unix(seconds, nanos)))
}

func (info *systemInfo) BatteryLevel() mo.Option[int] {
	output, err := exec.Command("pmset", "-g", "batt").Output()
	if err != nil {
		return mo.None[int]()
	}
	return parsePmset(string(output))
}

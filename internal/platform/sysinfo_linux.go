package platform

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

type systemInfo struct {
	procRoot string
	sysRoot  string
}

func newSystemInfo() SystemInfoProvider {
	return &systemInfo{procRoot: "/proc", sysRoot: "/sys"}
}

// Uptime reads the first field of /proc/uptime.
func (info *systemInfo) Uptime() mo.Option[time.Duration] {
	data, err := os.ReadFile(filepath.Join(info.procRoot, "uptime"))
	if err != nil {
		return mo.None[time.Duration]()
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return mo.None[time.Duration]()
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || seconds < 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(seconds * float64(time.Second)))
}

// BatteryLevel reads the capacity of the first power supply of type
// Battery.
func (info *systemInfo) BatteryLevel() mo.Option[int] {
	supplies, err := filepath.Glob(filepath.Join(info.sysRoot, "class", "power_supply", "*"))
	if err != nil {
		return mo.None[int]()
	}
	for _, supply := range supplies {
		kind, err := os.ReadFile(filepath.Join(supply, "type"))
		if err != nil || strings.TrimSpace(string(kind)) != "Battery" {
			continue
		}
		capacity, err := os.ReadFile(filepath.Join(supply, "capacity"))
		if err != nil {
			continue
		}
		value, err := strconv.Atoi(strings.TrimSpace(string(capacity)))
		if err != nil {
			continue
		}
		return percent(value)
	}
	return mo.None[int]()
}

package platform

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"

	appLog "digitalclock/internal/log"
)

// ErrUnsupported indicates the information is not available on this OS.
var ErrUnsupported = errors.New("not supported on this platform")

// SystemInfoProvider reports host uptime and battery charge. Absent values
// mean the platform could not tell.
type SystemInfoProvider interface {
	Uptime() mo.Option[time.Duration]
	BatteryLevel() mo.Option[int]
}

// BatteryReader reads a charge percentage from dedicated hardware.
type BatteryReader interface {
	Level(ctx context.Context) (int, error)
}

// NewSystemInfo returns the provider for the running OS.
func NewSystemInfo() SystemInfoProvider {
	return newSystemInfo()
}

// WithBattery replaces the battery level of base with reader.
func WithBattery(base SystemInfoProvider, reader BatteryReader) SystemInfoProvider {
	return &gaugeInfo{base: base, reader: reader}
}

type gaugeInfo struct {
	base   SystemInfoProvider
	reader BatteryReader
}

func (info *gaugeInfo) Uptime() mo.Option[time.Duration] {
	return info.base.Uptime()
}

func (info *gaugeInfo) BatteryLevel() mo.Option[int] {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	level, err := info.reader.Level(ctx)
	if err != nil {
		appLog.Debug("battery gauge unavailable", "err", err)
		return mo.None[int]()
	}
	return percent(level)
}

// percent accepts only 0..100.
func percent(value int) mo.Option[int] {
	if value < 0 || value > 100 {
		return mo.None[int]()
	}
	return mo.Some(value)
}

var pmsetPercent = regexp.MustCompile(`(\d{1,3})%`)

// parsePmset extracts the charge from `pmset -g batt` output. Machines
// without a battery print no InternalBattery line.
func parsePmset(output string) mo.Option[int] {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "InternalBattery") {
			continue
		}
		match := pmsetPercent.FindStringSubmatch(line)
		if match == nil {
			return mo.None[int]()
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return mo.None[int]()
		}
		return percent(value)
	}
	return mo.None[int]()
}

package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// MAX17048-style fuel gauges report state of charge in register 0x04: the
// high byte is whole percent, the low byte 1/256 percent.
const socRegister = 0x04

// I2CGauge reads a fuel gauge on an I2C bus, for single-board computers
// whose battery HAT is invisible to the OS.
type I2CGauge struct {
	bus     string
	address uint16
}

var hostInit = sync.OnceValue(func() error {
	_, err := host.Init()
	return err
})

// NewI2CGauge creates a gauge on bus ("" picks the first bus) at address.
func NewI2CGauge(bus string, address uint16) *I2CGauge {
	return &I2CGauge{bus: bus, address: address}
}

// Level reads the state of charge.
func (gauge *I2CGauge) Level(ctx context.Context) (int, error) {
	if runtime.GOOS != "linux" {
		return 0, ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := hostInit(); err != nil {
		return 0, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(gauge.bus)
	if err != nil {
		return 0, fmt.Errorf("open i2c bus %q: %w", gauge.bus, err)
	}
	defer bus.Close()

	device := &i2c.Dev{Bus: bus, Addr: gauge.address}
	read := make([]byte, 2)
	if err := device.Tx([]byte{socRegister}, read); err != nil {
		return 0, fmt.Errorf("read state of charge: %w", err)
	}
	return chargeFromRegister(read[0], read[1]), nil
}

func chargeFromRegister(high, low byte) int {
	level := int(high)
	if low >= 128 {
		level++
	}
	if level > 100 {
		level = 100
	}
	return level
}

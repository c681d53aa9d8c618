//go:build !tinygo

package device

import (
	"f1hal/mmio"
	"f1hal/mmio/sim"
)

// Simulated is the register file Take binds to on the host.
var Simulated = sim.New()

func defaultMapper() mmio.Mapper {
	return Simulated
}

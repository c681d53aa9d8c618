//go:build tinygo

package device

import "f1hal/mmio"

func defaultMapper() mmio.Mapper {
	return mmio.Hardware{}
}

package gpio

import "f1hal/device"

// Port is the closed set of GPIO banks.
type Port interface {
	device.GPIOA | device.GPIOB | device.GPIOC | device.GPIOD | device.GPIOE
	ID() device.ID
	Regs() *device.GPIO_Type
}

// Index is the closed set of pin index markers P0..P15.
type Index interface {
	P0 | P1 | P2 | P3 | P4 | P5 | P6 | P7 | P8 | P9 | P10 | P11 | P12 | P13 | P14 | P15
	index() uint8
}

type (
	P0  struct{}
	P1  struct{}
	P2  struct{}
	P3  struct{}
	P4  struct{}
	P5  struct{}
	P6  struct{}
	P7  struct{}
	P8  struct{}
	P9  struct{}
	P10 struct{}
	P11 struct{}
	P12 struct{}
	P13 struct{}
	P14 struct{}
	P15 struct{}
)

func (P0) index() uint8  { return 0 }
func (P1) index() uint8  { return 1 }
func (P2) index() uint8  { return 2 }
func (P3) index() uint8  { return 3 }
func (P4) index() uint8  { return 4 }
func (P5) index() uint8  { return 5 }
func (P6) index() uint8  { return 6 }
func (P7) index() uint8  { return 7 }
func (P8) index() uint8  { return 8 }
func (P9) index() uint8  { return 9 }
func (P10) index() uint8 { return 10 }
func (P11) index() uint8 { return 11 }
func (P12) index() uint8 { return 12 }
func (P13) index() uint8 { return 13 }
func (P14) index() uint8 { return 14 }
func (P15) index() uint8 { return 15 }

// Mode is the MODEy field: input or an output speed.
type Mode interface {
	Input | Output10MHz | Output2MHz | Output50MHz
	modeBits() uint32
}

// OutputMode is any of the three output speeds.
type OutputMode interface {
	Output10MHz | Output2MHz | Output50MHz
	modeBits() uint32
}

type (
	Input       struct{}
	Output10MHz struct{}
	Output2MHz  struct{}
	Output50MHz struct{}
)

func (Input) modeBits() uint32       { return 0b00 }
func (Output10MHz) modeBits() uint32 { return 0b01 }
func (Output2MHz) modeBits() uint32  { return 0b10 }
func (Output50MHz) modeBits() uint32 { return 0b11 }

// Cnf is the CNFy field. Its meaning depends on the mode:
//
//	        Input             Output
//	Cnf0    analog            push-pull
//	Cnf1    floating          open-drain
//	Cnf2    pull-up/down      alternate push-pull
//	Cnf3    reserved          alternate open-drain
type Cnf interface {
	Cnf0 | Cnf1 | Cnf2 | Cnf3
	cnfBits() uint32
}

// InputCnf is a configuration that is valid in input mode. Cnf3 is reserved
// there.
type InputCnf interface {
	Cnf0 | Cnf1 | Cnf2
	cnfBits() uint32
}

// GeneralCnf is the configuration of a general purpose (software driven)
// output.
type GeneralCnf interface {
	Cnf0 | Cnf1
	cnfBits() uint32
}

type (
	Cnf0 struct{}
	Cnf1 struct{}
	Cnf2 struct{}
	Cnf3 struct{}
)

func (Cnf0) cnfBits() uint32 { return 0b00 }
func (Cnf1) cnfBits() uint32 { return 0b01 }
func (Cnf2) cnfBits() uint32 { return 0b10 }
func (Cnf3) cnfBits() uint32 { return 0b11 }

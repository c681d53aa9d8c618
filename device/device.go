// Package device describes the STM32F103 register blocks the HAL drives and
// hands out one raw owning handle per peripheral instance.
//
// Each handle is its own Go type (GPIOA, I2C1, ...). The type is the
// peripheral's compile-time identity: capability tokens elsewhere in the HAL
// are parameterised by it, so a token issued for I2C1 cannot be presented to a
// constructor for I2C2.
package device

import (
	"sync/atomic"

	"f1hal/mmio"
)

// ID indexes the per-peripheral descriptor tables kept by the HAL packages.
type ID uint8

const (
	IDAFIO ID = iota
	IDGPIOA
	IDGPIOB
	IDGPIOC
	IDGPIOD
	IDGPIOE
	IDUSART1
	IDUSART2
	IDUSART3
	IDTIM2
	IDI2C1
	IDI2C2
	IDSPI1
	IDSPI2

	NumIDs
)

var idNames = [NumIDs]string{
	IDAFIO:   "AFIO",
	IDGPIOA:  "GPIOA",
	IDGPIOB:  "GPIOB",
	IDGPIOC:  "GPIOC",
	IDGPIOD:  "GPIOD",
	IDGPIOE:  "GPIOE",
	IDUSART1: "USART1",
	IDUSART2: "USART2",
	IDUSART3: "USART3",
	IDTIM2:   "TIM2",
	IDI2C1:   "I2C1",
	IDI2C2:   "I2C2",
	IDSPI1:   "SPI1",
	IDSPI2:   "SPI2",
}

func (id ID) String() string {
	if id < NumIDs {
		return idNames[id]
	}
	return "unknown"
}

// Peripheral is implemented by every raw handle type. ID works on the zero
// value, which is how the HAL reads identity from a type parameter.
type Peripheral interface {
	ID() ID
}

// RCC is the reset and clock control block.
type RCC struct{ regs *RCC_Type }

func (p RCC) Regs() *RCC_Type { return p.regs }

// FLASH is the flash interface (wait states, prefetch).
type FLASH struct{ regs *FLASH_Type }

func (p FLASH) Regs() *FLASH_Type { return p.regs }

type AFIO struct{ regs *AFIO_Type }

func (AFIO) ID() ID             { return IDAFIO }
func (p AFIO) Regs() *AFIO_Type { return p.regs }

type GPIOA struct{ regs *GPIO_Type }

func (GPIOA) ID() ID             { return IDGPIOA }
func (p GPIOA) Regs() *GPIO_Type { return p.regs }

type GPIOB struct{ regs *GPIO_Type }

func (GPIOB) ID() ID             { return IDGPIOB }
func (p GPIOB) Regs() *GPIO_Type { return p.regs }

type GPIOC struct{ regs *GPIO_Type }

func (GPIOC) ID() ID             { return IDGPIOC }
func (p GPIOC) Regs() *GPIO_Type { return p.regs }

type GPIOD struct{ regs *GPIO_Type }

func (GPIOD) ID() ID             { return IDGPIOD }
func (p GPIOD) Regs() *GPIO_Type { return p.regs }

type GPIOE struct{ regs *GPIO_Type }

func (GPIOE) ID() ID             { return IDGPIOE }
func (p GPIOE) Regs() *GPIO_Type { return p.regs }

type USART1 struct{ regs *USART_Type }

func (USART1) ID() ID              { return IDUSART1 }
func (p USART1) Regs() *USART_Type { return p.regs }

type USART2 struct{ regs *USART_Type }

func (USART2) ID() ID              { return IDUSART2 }
func (p USART2) Regs() *USART_Type { return p.regs }

type USART3 struct{ regs *USART_Type }

func (USART3) ID() ID              { return IDUSART3 }
func (p USART3) Regs() *USART_Type { return p.regs }

// TIM2 only takes part in clock gating; the timer itself is not driven here.
type TIM2 struct{}

func (TIM2) ID() ID { return IDTIM2 }

type I2C1 struct{ regs *I2C_Type }

func (I2C1) ID() ID            { return IDI2C1 }
func (p I2C1) Regs() *I2C_Type { return p.regs }

type I2C2 struct{ regs *I2C_Type }

func (I2C2) ID() ID            { return IDI2C2 }
func (p I2C2) Regs() *I2C_Type { return p.regs }

type SPI1 struct{ regs *SPI_Type }

func (SPI1) ID() ID            { return IDSPI1 }
func (p SPI1) Regs() *SPI_Type { return p.regs }

type SPI2 struct{ regs *SPI_Type }

func (SPI2) ID() ID            { return IDSPI2 }
func (p SPI2) Regs() *SPI_Type { return p.regs }

// Peripherals is the full set of raw handles for one chip.
type Peripherals struct {
	RCC    RCC
	FLASH  FLASH
	AFIO   AFIO
	GPIOA  GPIOA
	GPIOB  GPIOB
	GPIOC  GPIOC
	GPIOD  GPIOD
	GPIOE  GPIOE
	USART1 USART1
	USART2 USART2
	USART3 USART3
	TIM2   TIM2
	I2C1   I2C1
	I2C2   I2C2
	SPI1   SPI1
	SPI2   SPI2
}

// Bind lays every register block out at its RM0008 address through m.
// Firmware should use Take; Bind exists so host tests can build as many
// independent simulated chips as they like.
func Bind(m mmio.Mapper) *Peripherals {
	return &Peripherals{
		RCC:    RCC{newRCC(m)},
		FLASH:  FLASH{newFLASH(m)},
		AFIO:   AFIO{newAFIO(m)},
		GPIOA:  GPIOA{newGPIO(m, GPIOABase, "GPIOA")},
		GPIOB:  GPIOB{newGPIO(m, GPIOBBase, "GPIOB")},
		GPIOC:  GPIOC{newGPIO(m, GPIOCBase, "GPIOC")},
		GPIOD:  GPIOD{newGPIO(m, GPIODBase, "GPIOD")},
		GPIOE:  GPIOE{newGPIO(m, GPIOEBase, "GPIOE")},
		USART1: USART1{newUSART(m, USART1Base, "USART1")},
		USART2: USART2{newUSART(m, USART2Base, "USART2")},
		USART3: USART3{newUSART(m, USART3Base, "USART3")},
		I2C1:   I2C1{newI2C(m, I2C1Base, "I2C1")},
		I2C2:   I2C2{newI2C(m, I2C2Base, "I2C2")},
		SPI1:   SPI1{newSPI(m, SPI1Base, "SPI1")},
		SPI2:   SPI2{newSPI(m, SPI2Base, "SPI2")},
	}
}

var taken atomic.Bool

// Take hands out the chip's peripherals exactly once per process. Every later
// call returns nil, false.
func Take() (*Peripherals, bool) {
	if !taken.CompareAndSwap(false, true) {
		return nil, false
	}
	return Bind(defaultMapper()), true
}

// MustTake is Take for firmware entry points; a second call panics.
func MustTake() *Peripherals {
	p, ok := Take()
	if !ok {
		panic("device: peripherals already taken")
	}
	return p
}

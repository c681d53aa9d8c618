package device

import (
	"testing"

	"f1hal/mmio/sim"
)

func TestTakeOnce(t *testing.T) {
	p, ok := Take()
	if !ok || p == nil {
		t.Fatal("first Take did not hand out the peripherals")
	}
	if p.GPIOA.Regs() == nil || p.RCC.Regs() == nil {
		t.Fatal("taken handles have no registers")
	}
	if again, ok := Take(); ok || again != nil {
		t.Fatal("second Take succeeded")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustTake after Take did not panic")
		}
	}()
	MustTake()
}

func TestRegisterAddresses(t *testing.T) {
	mem := sim.New()
	Bind(mem)

	cases := []struct {
		name string
		addr uintptr
	}{
		{"RCC.CR", 0x4002_1000},
		{"RCC.APB2ENR", 0x4002_1018},
		{"RCC.APB1ENR", 0x4002_101C},
		{"FLASH.ACR", 0x4002_2000},
		{"AFIO.MAPR", 0x4001_0004},
		{"AFIO.MAPR2", 0x4001_001C},
		{"GPIOA.CRL", 0x4001_0800},
		{"GPIOB.CRH", 0x4001_0C04},
		{"GPIOC.BSRR", 0x4001_1010},
		{"I2C1.SR1", 0x4000_5414},
		{"I2C2.TRISE", 0x4000_5820},
		{"SPI1.DR", 0x4001_300C},
		{"SPI2.CR1", 0x4000_3800},
		{"USART1.BRR", 0x4001_3808},
		{"USART2.CR1", 0x4000_440C},
		{"USART3.SR", 0x4000_4800},
	}
	for _, c := range cases {
		if got := mem.Reg(c.name).Addr; got != c.addr {
			t.Errorf("%s at %#x, want %#x", c.name, got, c.addr)
		}
	}
}

func TestZeroHandleIdentity(t *testing.T) {
	if got := (I2C2{}).ID().String(); got != "I2C2" {
		t.Errorf("I2C2{}.ID() = %q", got)
	}
	if got := ID(200).String(); got != "unknown" {
		t.Errorf("out of range ID = %q", got)
	}
}

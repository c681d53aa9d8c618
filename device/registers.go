package device

import "f1hal/mmio"

// Peripheral base addresses (RM0008 memory map).
const (
	TIM2Base   = 0x40000000
	SPI2Base   = 0x40003800
	USART2Base = 0x40004400
	USART3Base = 0x40004800
	I2C1Base   = 0x40005400
	I2C2Base   = 0x40005800
	AFIOBase   = 0x40010000
	GPIOABase  = 0x40010800
	GPIOBBase  = 0x40010C00
	GPIOCBase  = 0x40011000
	GPIODBase  = 0x40011400
	GPIOEBase  = 0x40011800
	SPI1Base   = 0x40013000
	USART1Base = 0x40013800
	RCCBase    = 0x40021000
	FLASHBase  = 0x40022000
)

type RCC_Type struct {
	CR       mmio.Register32
	CFGR     mmio.Register32
	CIR      mmio.Register32
	APB2RSTR mmio.Register32
	APB1RSTR mmio.Register32
	AHBENR   mmio.Register32
	APB2ENR  mmio.Register32
	APB1ENR  mmio.Register32
	BDCR     mmio.Register32
	CSR      mmio.Register32
}

type FLASH_Type struct {
	ACR     mmio.Register32
	KEYR    mmio.Register32
	OPTKEYR mmio.Register32
	SR      mmio.Register32
	CR      mmio.Register32
	AR      mmio.Register32
}

type GPIO_Type struct {
	CRL  mmio.Register32
	CRH  mmio.Register32
	IDR  mmio.Register32
	ODR  mmio.Register32
	BSRR mmio.Register32
	BRR  mmio.Register32
	LCKR mmio.Register32
}

type AFIO_Type struct {
	EVCR    mmio.Register32
	MAPR    mmio.Register32
	EXTICR1 mmio.Register32
	EXTICR2 mmio.Register32
	EXTICR3 mmio.Register32
	EXTICR4 mmio.Register32
	MAPR2   mmio.Register32
}

type I2C_Type struct {
	CR1   mmio.Register32
	CR2   mmio.Register32
	OAR1  mmio.Register32
	OAR2  mmio.Register32
	DR    mmio.Register32
	SR1   mmio.Register32
	SR2   mmio.Register32
	CCR   mmio.Register32
	TRISE mmio.Register32
}

type SPI_Type struct {
	CR1     mmio.Register32
	CR2     mmio.Register32
	SR      mmio.Register32
	DR      mmio.Register32
	CRCPR   mmio.Register32
	RXCRCR  mmio.Register32
	TXCRCR  mmio.Register32
	I2SCFGR mmio.Register32
	I2SPR   mmio.Register32
}

type USART_Type struct {
	SR   mmio.Register32
	DR   mmio.Register32
	BRR  mmio.Register32
	CR1  mmio.Register32
	CR2  mmio.Register32
	CR3  mmio.Register32
	GTPR mmio.Register32
}

func newRCC(m mmio.Mapper) *RCC_Type {
	const b = RCCBase
	return &RCC_Type{
		CR:       m.Map(b+0x00, "RCC.CR"),
		CFGR:     m.Map(b+0x04, "RCC.CFGR"),
		CIR:      m.Map(b+0x08, "RCC.CIR"),
		APB2RSTR: m.Map(b+0x0C, "RCC.APB2RSTR"),
		APB1RSTR: m.Map(b+0x10, "RCC.APB1RSTR"),
		AHBENR:   m.Map(b+0x14, "RCC.AHBENR"),
		APB2ENR:  m.Map(b+0x18, "RCC.APB2ENR"),
		APB1ENR:  m.Map(b+0x1C, "RCC.APB1ENR"),
		BDCR:     m.Map(b+0x20, "RCC.BDCR"),
		CSR:      m.Map(b+0x24, "RCC.CSR"),
	}
}

func newFLASH(m mmio.Mapper) *FLASH_Type {
	const b = FLASHBase
	return &FLASH_Type{
		ACR:     m.Map(b+0x00, "FLASH.ACR"),
		KEYR:    m.Map(b+0x04, "FLASH.KEYR"),
		OPTKEYR: m.Map(b+0x08, "FLASH.OPTKEYR"),
		SR:      m.Map(b+0x0C, "FLASH.SR"),
		CR:      m.Map(b+0x10, "FLASH.CR"),
		AR:      m.Map(b+0x14, "FLASH.AR"),
	}
}

func newGPIO(m mmio.Mapper, b uintptr, name string) *GPIO_Type {
	return &GPIO_Type{
		CRL:  m.Map(b+0x00, name+".CRL"),
		CRH:  m.Map(b+0x04, name+".CRH"),
		IDR:  m.Map(b+0x08, name+".IDR"),
		ODR:  m.Map(b+0x0C, name+".ODR"),
		BSRR: m.Map(b+0x10, name+".BSRR"),
		BRR:  m.Map(b+0x14, name+".BRR"),
		LCKR: m.Map(b+0x18, name+".LCKR"),
	}
}

func newAFIO(m mmio.Mapper) *AFIO_Type {
	const b = AFIOBase
	return &AFIO_Type{
		EVCR:    m.Map(b+0x00, "AFIO.EVCR"),
		MAPR:    m.Map(b+0x04, "AFIO.MAPR"),
		EXTICR1: m.Map(b+0x08, "AFIO.EXTICR1"),
		EXTICR2: m.Map(b+0x0C, "AFIO.EXTICR2"),
		EXTICR3: m.Map(b+0x10, "AFIO.EXTICR3"),
		EXTICR4: m.Map(b+0x14, "AFIO.EXTICR4"),
		MAPR2:   m.Map(b+0x1C, "AFIO.MAPR2"),
	}
}

func newI2C(m mmio.Mapper, b uintptr, name string) *I2C_Type {
	return &I2C_Type{
		CR1:   m.Map(b+0x00, name+".CR1"),
		CR2:   m.Map(b+0x04, name+".CR2"),
		OAR1:  m.Map(b+0x08, name+".OAR1"),
		OAR2:  m.Map(b+0x0C, name+".OAR2"),
		DR:    m.Map(b+0x10, name+".DR"),
		SR1:   m.Map(b+0x14, name+".SR1"),
		SR2:   m.Map(b+0x18, name+".SR2"),
		CCR:   m.Map(b+0x1C, name+".CCR"),
		TRISE: m.Map(b+0x20, name+".TRISE"),
	}
}

func newSPI(m mmio.Mapper, b uintptr, name string) *SPI_Type {
	return &SPI_Type{
		CR1:     m.Map(b+0x00, name+".CR1"),
		CR2:     m.Map(b+0x04, name+".CR2"),
		SR:      m.Map(b+0x08, name+".SR"),
		DR:      m.Map(b+0x0C, name+".DR"),
		CRCPR:   m.Map(b+0x10, name+".CRCPR"),
		RXCRCR:  m.Map(b+0x14, name+".RXCRCR"),
		TXCRCR:  m.Map(b+0x18, name+".TXCRCR"),
		I2SCFGR: m.Map(b+0x1C, name+".I2SCFGR"),
		I2SPR:   m.Map(b+0x20, name+".I2SPR"),
	}
}

func newUSART(m mmio.Mapper, b uintptr, name string) *USART_Type {
	return &USART_Type{
		SR:   m.Map(b+0x00, name+".SR"),
		DR:   m.Map(b+0x04, name+".DR"),
		BRR:  m.Map(b+0x08, name+".BRR"),
		CR1:  m.Map(b+0x0C, name+".CR1"),
		CR2:  m.Map(b+0x10, name+".CR2"),
		CR3:  m.Map(b+0x14, name+".CR3"),
		GTPR: m.Map(b+0x18, name+".GTPR"),
	}
}

package config

// Board describes how a Blue Pill style board is brought up and how the host
// reaches its console. Frequencies are in Hz; zero means "default".
type Board struct {
	Clocks  Clocks  `json:"clocks"`
	I2C     I2C     `json:"i2c"`
	SPI     SPI     `json:"spi"`
	USART   USART   `json:"usart"`
	Console Console `json:"console"`
}

// Clocks are the clock tree targets handed to rcc.CFGR.
type Clocks struct {
	Sysclk uint32 `json:"sysclk"`
	Hclk   uint32 `json:"hclk"`
	Pclk1  uint32 `json:"pclk1"`
	Pclk2  uint32 `json:"pclk2"`
}

type I2C struct {
	Frequency uint32 `json:"frequency"`
	FastDuty  bool   `json:"fast_duty"` // 16/9 duty cycle in fast mode
}

type SPI struct {
	Frequency uint32 `json:"frequency"`
	Mode      uint8  `json:"mode"`
	LSBFirst  bool   `json:"lsb_first"`
}

// USART is the board side of the console link.
type USART struct {
	Baud     uint32 `json:"baud"`
	Parity   string `json:"parity"`    // "none", "even" or "odd"
	StopBits string `json:"stop_bits"` // "0.5", "1", "1.5" or "2"
}

// Console is the host side of the console link.
type Console struct {
	Device    string `json:"device"`
	Baud      int    `json:"baud"`
	TimeoutMS int    `json:"timeout_ms"`
}

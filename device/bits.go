package device

// Bit positions and masks from RM0008 (STM32F101xx/F102xx/F103xx reference
// manual). Names follow the field names used in the manual.

// RCC
const (
	RCC_CR_HSION  = 1 << 0
	RCC_CR_HSIRDY = 1 << 1
	RCC_CR_HSEON  = 1 << 16
	RCC_CR_HSERDY = 1 << 17
	RCC_CR_PLLON  = 1 << 24
	RCC_CR_PLLRDY = 1 << 25

	RCC_CFGR_SW_Pos     = 0
	RCC_CFGR_SW_Msk     = 0x3
	RCC_CFGR_SW_HSI     = 0x0
	RCC_CFGR_SW_HSE     = 0x1
	RCC_CFGR_SW_PLL     = 0x2
	RCC_CFGR_SWS_Pos    = 2
	RCC_CFGR_SWS_Msk    = 0x3
	RCC_CFGR_HPRE_Pos   = 4
	RCC_CFGR_HPRE_Msk   = 0xF
	RCC_CFGR_PPRE1_Pos  = 8
	RCC_CFGR_PPRE1_Msk  = 0x7
	RCC_CFGR_PPRE2_Pos  = 11
	RCC_CFGR_PPRE2_Msk  = 0x7
	RCC_CFGR_PLLSRC     = 1 << 16
	RCC_CFGR_PLLMUL_Pos = 18
	RCC_CFGR_PLLMUL_Msk = 0xF

	RCC_APB2ENR_AFIOEN   = 1 << 0
	RCC_APB2ENR_IOPAEN   = 1 << 2
	RCC_APB2ENR_IOPBEN   = 1 << 3
	RCC_APB2ENR_IOPCEN   = 1 << 4
	RCC_APB2ENR_IOPDEN   = 1 << 5
	RCC_APB2ENR_IOPEEN   = 1 << 6
	RCC_APB2ENR_SPI1EN   = 1 << 12
	RCC_APB2ENR_USART1EN = 1 << 14

	RCC_APB1ENR_TIM2EN   = 1 << 0
	RCC_APB1ENR_SPI2EN   = 1 << 14
	RCC_APB1ENR_USART2EN = 1 << 17
	RCC_APB1ENR_USART3EN = 1 << 18
	RCC_APB1ENR_I2C1EN   = 1 << 21
	RCC_APB1ENR_I2C2EN   = 1 << 22

	// The reset registers use the same bit layout as the enable registers.
	RCC_APB2RSTR_AFIORST   = RCC_APB2ENR_AFIOEN
	RCC_APB2RSTR_IOPARST   = RCC_APB2ENR_IOPAEN
	RCC_APB2RSTR_IOPBRST   = RCC_APB2ENR_IOPBEN
	RCC_APB2RSTR_IOPCRST   = RCC_APB2ENR_IOPCEN
	RCC_APB2RSTR_IOPDRST   = RCC_APB2ENR_IOPDEN
	RCC_APB2RSTR_IOPERST   = RCC_APB2ENR_IOPEEN
	RCC_APB2RSTR_SPI1RST   = RCC_APB2ENR_SPI1EN
	RCC_APB2RSTR_USART1RST = RCC_APB2ENR_USART1EN
	RCC_APB1RSTR_TIM2RST   = RCC_APB1ENR_TIM2EN
	RCC_APB1RSTR_SPI2RST   = RCC_APB1ENR_SPI2EN
	RCC_APB1RSTR_USART2RST = RCC_APB1ENR_USART2EN
	RCC_APB1RSTR_USART3RST = RCC_APB1ENR_USART3EN
	RCC_APB1RSTR_I2C1RST   = RCC_APB1ENR_I2C1EN
	RCC_APB1RSTR_I2C2RST   = RCC_APB1ENR_I2C2EN
)

// FLASH
const (
	FLASH_ACR_LATENCY_Pos = 0
	FLASH_ACR_LATENCY_Msk = 0x7
	FLASH_ACR_HLFCYA      = 1 << 3
	FLASH_ACR_PRFTBE      = 1 << 4
)

// AFIO
const (
	AFIO_MAPR_SPI1_REMAP       = 1 << 0
	AFIO_MAPR_I2C1_REMAP       = 1 << 1
	AFIO_MAPR_USART1_REMAP     = 1 << 2
	AFIO_MAPR_USART2_REMAP     = 1 << 3
	AFIO_MAPR_USART3_REMAP_Pos = 4
	AFIO_MAPR_USART3_REMAP_Msk = 0x3
	AFIO_MAPR_SWJ_CFG_Pos      = 24
	AFIO_MAPR_SWJ_CFG_Msk      = 0x7
)

// GPIO
const (
	GPIO_MODE_Msk = 0x3 // MODEy[1:0] within a 4-bit pin field
	GPIO_CNF_Msk  = 0x3 // CNFy[1:0] within a 4-bit pin field
	GPIO_CNF_Off  = 2   // CNF sits above MODE in each pin field
	GPIO_BSRR_BR  = 16  // reset half of BSRR
)

// I2C
const (
	I2C_CR1_PE    = 1 << 0
	I2C_CR1_SMBUS = 1 << 1
	I2C_CR1_START = 1 << 8
	I2C_CR1_STOP  = 1 << 9
	I2C_CR1_ACK   = 1 << 10
	I2C_CR1_POS   = 1 << 11
	I2C_CR1_SWRST = 1 << 15

	I2C_CR2_FREQ_Pos = 0
	I2C_CR2_FREQ_Msk = 0x3F
	I2C_CR2_ITERREN  = 1 << 8
	I2C_CR2_ITEVTEN  = 1 << 9
	I2C_CR2_ITBUFEN  = 1 << 10

	I2C_SR1_SB      = 1 << 0
	I2C_SR1_ADDR    = 1 << 1
	I2C_SR1_BTF     = 1 << 2
	I2C_SR1_STOPF   = 1 << 4
	I2C_SR1_RxNE    = 1 << 6
	I2C_SR1_TxE     = 1 << 7
	I2C_SR1_BERR    = 1 << 8
	I2C_SR1_ARLO    = 1 << 9
	I2C_SR1_AF      = 1 << 10
	I2C_SR1_OVR     = 1 << 11
	I2C_SR1_TIMEOUT = 1 << 14

	I2C_SR2_MSL  = 1 << 0
	I2C_SR2_BUSY = 1 << 1
	I2C_SR2_TRA  = 1 << 2

	I2C_CCR_CCR_Pos = 0
	I2C_CCR_CCR_Msk = 0xFFF
	I2C_CCR_DUTY    = 1 << 14
	I2C_CCR_FS      = 1 << 15

	I2C_TRISE_Pos = 0
	I2C_TRISE_Msk = 0x3F
)

// SPI
const (
	SPI_CR1_CPHA     = 1 << 0
	SPI_CR1_CPOL     = 1 << 1
	SPI_CR1_MSTR     = 1 << 2
	SPI_CR1_BR_Pos   = 3
	SPI_CR1_BR_Msk   = 0x7
	SPI_CR1_SPE      = 1 << 6
	SPI_CR1_LSBFIRST = 1 << 7
	SPI_CR1_SSI      = 1 << 8
	SPI_CR1_SSM      = 1 << 9
	SPI_CR1_RXONLY   = 1 << 10
	SPI_CR1_DFF      = 1 << 11
	SPI_CR1_BIDIMODE = 1 << 15

	SPI_CR2_SSOE   = 1 << 2
	SPI_CR2_ERRIE  = 1 << 5
	SPI_CR2_RXNEIE = 1 << 6
	SPI_CR2_TXEIE  = 1 << 7

	SPI_SR_RXNE   = 1 << 0
	SPI_SR_TXE    = 1 << 1
	SPI_SR_CRCERR = 1 << 4
	SPI_SR_MODF   = 1 << 5
	SPI_SR_OVR    = 1 << 6
	SPI_SR_BSY    = 1 << 7
)

// USART
const (
	USART_SR_PE   = 1 << 0
	USART_SR_FE   = 1 << 1
	USART_SR_NE   = 1 << 2
	USART_SR_ORE  = 1 << 3
	USART_SR_IDLE = 1 << 4
	USART_SR_RXNE = 1 << 5
	USART_SR_TC   = 1 << 6
	USART_SR_TXE  = 1 << 7

	USART_CR1_RE     = 1 << 2
	USART_CR1_TE     = 1 << 3
	USART_CR1_IDLEIE = 1 << 4
	USART_CR1_RXNEIE = 1 << 5
	USART_CR1_TCIE   = 1 << 6
	USART_CR1_TXEIE  = 1 << 7
	USART_CR1_PEIE   = 1 << 8
	USART_CR1_PS     = 1 << 9
	USART_CR1_PCE    = 1 << 10
	USART_CR1_M      = 1 << 12
	USART_CR1_UE     = 1 << 13

	USART_CR2_STOP_Pos = 12
	USART_CR2_STOP_Msk = 0x3
)

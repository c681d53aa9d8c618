package i2c

import (
	"reflect"
	"strings"
	"testing"

	"f1hal/afio"
	"f1hal/device"
	"f1hal/flash"
	"f1hal/gpio"
	"f1hal/internal/simchip"
	"f1hal/mmio/sim"
	"f1hal/nb"
	"f1hal/rcc"
	"f1hal/units"

	"tinygo.org/x/drivers"
)

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		if s, _ := r.(string); !strings.Contains(s, want) {
			t.Fatalf("panic %v, want it to contain %q", r, want)
		}
	}()
	fn()
}

// board is a simulated chip with clocks frozen and GPIOB/AFIO split.
type board struct {
	mem    *sim.Memory
	chip   *device.Peripherals
	rcc    rcc.Peripherals
	clocks rcc.Clocks
	gpiob  gpio.Pins[device.GPIOB]
	afio   afio.Peripherals
}

func newBoard(t *testing.T, tree func(rcc.CFGR) rcc.CFGR) *board {
	t.Helper()
	mem, chip := simchip.New()
	r := rcc.New(chip.RCC)
	fl := flash.New(chip.FLASH)
	b := &board{mem: mem, chip: chip, rcc: r.Peripherals}
	b.clocks = tree(r.CFGR).Freeze(&fl.ACR)
	b.gpiob = gpio.Split(chip.GPIOB, r.Peripherals.GPIOB.Enable())
	b.afio = afio.New(chip.AFIO, r.Peripherals.AFIO.Enable())
	return b
}

func defaultTree(c rcc.CFGR) rcc.CFGR { return c }

func (b *board) i2c1Ports() Ports[device.I2C1, afio.NotRemapped] {
	scl := gpio.SetAltOutputOpenDrain(b.gpiob.P6.SetOutput2MHz())
	sda := gpio.SetAltOutputOpenDrain(b.gpiob.P7.SetOutput2MHz())
	return I2C1Ports(scl, sda, b.afio.I2C1.SetNotRemapped())
}

func newBus(t *testing.T) (*I2C[device.I2C1, afio.NotRemapped], *slave, int) {
	t.Helper()
	b := newBoard(t, defaultTree)
	s := attach(b.mem, "I2C1")
	bus := New(b.chip.I2C1, b.i2c1Ports(), b.rcc.I2C1.Enable(), Config{Frequency: units.KHz(100)}, b.clocks)
	return bus, s, b.mem.Journal.Len()
}

func TestComputeTiming(t *testing.T) {
	tests := []struct {
		name  string
		pclk1 uint32
		cfg   Config
		want  timing
	}{
		{"standard 8MHz", 8_000_000, Config{Frequency: units.KHz(100)}, timing{8, 40, 9}},
		{"standard 36MHz", 36_000_000, Config{Frequency: units.KHz(100)}, timing{36, 180, 37}},
		{"fast 8MHz", 8_000_000, Config{Frequency: units.KHz(400)}, timing{8, 0x8000 | 6, 3}},
		{"fast 32MHz", 32_000_000, Config{Frequency: units.KHz(400)}, timing{32, 0x8000 | 26, 10}},
		{"fast 16/9 32MHz", 32_000_000, Config{Frequency: units.KHz(400), DutyCycle: Duty16_9}, timing{32, 0xC000 | 3, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeTiming(tt.pclk1, tt.cfg); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeTimingRejects(t *testing.T) {
	tests := []struct {
		name  string
		pclk1 uint32
		cfg   Config
		want  string
	}{
		{"APB1 too slow", 1_000_000, Config{Frequency: units.KHz(100)}, "between 2 and 36"},
		{"APB1 too fast", 40_000_000, Config{Frequency: units.KHz(100)}, "between 2 and 36"},
		{"zero frequency", 8_000_000, Config{}, "zero bus frequency"},
		{"ccr zero", 8_000_000, Config{Frequency: units.KHz(400), DutyCycle: Duty16_9}, "too high"},
		{"ccr overflow", 8_000_000, Config{Frequency: units.Hz(500)}, "too low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustPanic(t, tt.want, func() { computeTiming(tt.pclk1, tt.cfg) })
		})
	}
}

func TestNewProgramsPeripheral(t *testing.T) {
	b := newBoard(t, func(c rcc.CFGR) rcc.CFGR {
		return c.Sysclk(units.MHz(64)).Pclk1(units.MHz(32))
	})
	mark := b.mem.Journal.Len()
	New(b.chip.I2C1, b.i2c1Ports(), b.rcc.I2C1.Enable(),
		Config{Frequency: units.KHz(400), DutyCycle: Duty16_9}, b.clocks)

	if got := b.mem.Reg("I2C1.CR2").Peek() & device.I2C_CR2_FREQ_Msk; got != 32 {
		t.Errorf("FREQ = %d, want 32", got)
	}
	if got := b.mem.Reg("I2C1.CCR").Peek(); got != device.I2C_CCR_FS|device.I2C_CCR_DUTY|3 {
		t.Errorf("CCR = %#x", got)
	}
	if got := b.mem.Reg("I2C1.TRISE").Peek(); got != 10 {
		t.Errorf("TRISE = %d, want 10", got)
	}
	if !b.mem.Reg("RCC.APB1ENR").HasBits(device.RCC_APB1ENR_I2C1EN) {
		t.Error("I2C1 clock not enabled")
	}

	var last sim.Event
	for _, e := range b.mem.Journal.Since(mark) {
		if e.Op != sim.OpRead && strings.HasPrefix(e.Name, "I2C1.") {
			last = e
		}
	}
	if last.Name != "I2C1.CR1" || last.New&device.I2C_CR1_PE == 0 {
		t.Errorf("last init write = %v, want PE set", last)
	}
}

func TestNewRequiresFrozenClocks(t *testing.T) {
	b := newBoard(t, defaultTree)
	mustPanic(t, "i2c: clocks not frozen", func() {
		New(b.chip.I2C1, b.i2c1Ports(), b.rcc.I2C1.Enable(), Config{Frequency: units.KHz(100)}, rcc.Clocks{})
	})
}

func TestNewRejectsSlowAPB1(t *testing.T) {
	b := newBoard(t, func(c rcc.CFGR) rcc.CFGR {
		return c.Sysclk(units.MHz(16)).Pclk1(units.KHz(500))
	})
	mustPanic(t, "between 2 and 36", func() {
		New(b.chip.I2C1, b.i2c1Ports(), b.rcc.I2C1.Enable(), Config{Frequency: units.KHz(100)}, b.clocks)
	})
}

func TestPortsAreSingleUse(t *testing.T) {
	b := newBoard(t, defaultTree)
	ports := b.i2c1Ports()
	New(b.chip.I2C1, ports, b.rcc.I2C1.Enable(), Config{Frequency: units.KHz(100)}, b.clocks)
	mustPanic(t, "already consumed", func() {
		New(b.chip.I2C1, ports, rcc.Enabled[device.I2C1]{}, Config{Frequency: units.KHz(100)}, b.clocks)
	})
}

func TestOtherPortMappings(t *testing.T) {
	b := newBoard(t, defaultTree)
	remapped := I2C1RemappedPorts(
		gpio.SetAltOutputOpenDrain(b.gpiob.P8.SetOutput50MHz()),
		gpio.SetAltOutputOpenDrain(b.gpiob.P9.SetOutput50MHz()),
		b.afio.I2C1.SetRemapped(),
	)
	New(b.chip.I2C1, remapped, b.rcc.I2C1.Enable(), Config{Frequency: units.KHz(100)}, b.clocks)
	if !b.mem.Reg("AFIO.MAPR").HasBits(device.AFIO_MAPR_I2C1_REMAP) {
		t.Error("I2C1 remap bit not set")
	}

	ports2 := I2C2Ports(
		gpio.SetAltOutputOpenDrain(b.gpiob.P10.SetOutput10MHz()),
		gpio.SetAltOutputOpenDrain(b.gpiob.P11.SetOutput10MHz()),
	)
	New(b.chip.I2C2, ports2, b.rcc.I2C2.Enable(), Config{Frequency: units.KHz(100)}, b.clocks)
	if got := b.mem.Reg("I2C2.CCR").Peek(); got != 40 {
		t.Errorf("I2C2 CCR = %d, want 40", got)
	}
}

func TestRemappedPortsRejectNotRemappedToken(t *testing.T) {
	fn := reflect.TypeOf(I2C1RemappedPorts[gpio.Output2MHz])
	remapParam := fn.In(2)
	have := reflect.TypeOf(afio.Remap[device.I2C1, afio.NotRemapped]{})
	if have.AssignableTo(remapParam) {
		t.Errorf("%v accepted where %v is required", have, remapParam)
	}
}

func TestWriteSequence(t *testing.T) {
	bus, s, mark := newBus(t)

	if err := bus.Write(0x3C, []byte{0xA0, 0xA1, 0xA2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []string{
		"START", "poll", "DR=78", "poll", "SR2",
		"DR=a0", "poll", "DR=a1", "poll", "DR=a2", "poll",
		"STOP",
	}
	if got := s.trace(mark); !reflect.DeepEqual(got, want) {
		t.Errorf("trace:\n got %v\nwant %v", got, want)
	}
}

func TestWriteRetriesUntilReady(t *testing.T) {
	bus, s, mark := newBus(t)
	s.delay = 3

	if err := bus.Write(0x3C, []byte{0x01}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	polls := 0
	for _, e := range s.mem.Journal.Since(mark) {
		if e.Name == "I2C1.SR1" && e.Op == sim.OpRead {
			polls++
		}
	}
	if polls != 9 {
		t.Errorf("SR1 polled %d times, want 9", polls)
	}
}

func TestWriteAbortsOnFault(t *testing.T) {
	full := []string{
		"START", "poll", "DR=78", "poll", "SR2",
		"DR=a0", "poll", "DR=a1", "poll", "DR=a2", "poll",
		"STOP",
	}
	stages := []struct {
		name string
		cut  int
	}{
		{"start", 2},
		{"address", 4},
		{"byte 0", 7},
		{"byte 1", 9},
		{"byte 2", 11},
	}
	for n, st := range stages {
		t.Run(st.name, func(t *testing.T) {
			bus, s, mark := newBus(t)
			s.faultAt = n + 1
			s.fault = device.I2C_SR1_BERR

			err := bus.Write(0x3C, []byte{0xA0, 0xA1, 0xA2})
			if err != ErrBusError {
				t.Fatalf("err = %v, want %v", err, ErrBusError)
			}
			if got := s.trace(mark); !reflect.DeepEqual(got, full[:st.cut]) {
				t.Errorf("trace:\n got %v\nwant %v", got, full[:st.cut])
			}
		})
	}
}

func TestFaultPriority(t *testing.T) {
	tests := []struct {
		sr1  uint32
		want error
	}{
		{device.I2C_SR1_BERR | device.I2C_SR1_OVR | device.I2C_SR1_ARLO | device.I2C_SR1_AF | device.I2C_SR1_TIMEOUT, ErrTimeout},
		{device.I2C_SR1_BERR | device.I2C_SR1_OVR | device.I2C_SR1_ARLO | device.I2C_SR1_AF, ErrAcknowledgementFailure},
		{device.I2C_SR1_BERR | device.I2C_SR1_OVR | device.I2C_SR1_ARLO, ErrArbitrationLost},
		{device.I2C_SR1_BERR | device.I2C_SR1_OVR, ErrOverrun},
		{device.I2C_SR1_BERR | device.I2C_SR1_SB, ErrBusError},
		{device.I2C_SR1_SB, nil},
		{0, nb.ErrWouldBlock},
	}
	bus, s, _ := newBus(t)
	for _, tt := range tests {
		s.sr1.Poke(tt.sr1)
		if err := bus.StartComplete(); err != tt.want {
			t.Errorf("SR1 %#x: err = %v, want %v", tt.sr1, err, tt.want)
		}
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		rx   []byte
		want []string
	}{
		{
			"one byte", []byte{0x5A},
			[]string{"NACK", "START", "poll", "DR=a1", "poll", "SR2", "STOP", "poll", "DR>5a"},
		},
		{
			"three bytes", []byte{0x11, 0x22, 0x33},
			[]string{
				"ACK", "START", "poll", "DR=a1", "poll", "SR2",
				"poll", "DR>11", "poll", "DR>22", "NACK", "STOP", "poll", "DR>33",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus, s, mark := newBus(t)
			s.rx = append([]byte(nil), tt.rx...)
			buf := make([]byte, len(tt.rx))
			if err := bus.Read(0x50, buf); err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !reflect.DeepEqual(buf, tt.rx) {
				t.Errorf("buf = %x, want %x", buf, tt.rx)
			}
			if got := s.trace(mark); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("trace:\n got %v\nwant %v", got, tt.want)
			}
		})
	}
}

func TestWriteRead(t *testing.T) {
	bus, s, mark := newBus(t)
	s.rx = []byte{0xBE, 0xEF}
	buf := make([]byte, 2)

	if err := bus.WriteRead(0x50, []byte{0x0F}, buf); err != nil {
		t.Fatalf("WriteRead: %v", err)
	}
	if buf[0] != 0xBE || buf[1] != 0xEF {
		t.Errorf("buf = %x", buf)
	}
	want := []string{
		"START", "poll", "DR=a0", "poll", "SR2", "DR=0f", "poll",
		"ACK", "START", "poll", "DR=a1", "poll", "SR2",
		"poll", "DR>be", "NACK", "STOP", "poll", "DR>ef",
	}
	if got := s.trace(mark); !reflect.DeepEqual(got, want) {
		t.Errorf("trace:\n got %v\nwant %v", got, want)
	}
}

func TestTxThroughDriversInterface(t *testing.T) {
	bus, s, _ := newBus(t)
	s.rx = []byte{0x42}

	var dev drivers.I2C = bus
	r := make([]byte, 1)
	if err := dev.Tx(0x50, []byte{0x01}, r); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if r[0] != 0x42 {
		t.Errorf("read %#x, want 0x42", r[0])
	}
}

func TestTxRecoversAfterFault(t *testing.T) {
	bus, s, mark := newBus(t)
	s.faultAt = 2
	s.fault = device.I2C_SR1_AF

	err := bus.Tx(0x3C, []byte{1, 2}, nil)
	if err != ErrAcknowledgementFailure {
		t.Fatalf("err = %v, want %v", err, ErrAcknowledgementFailure)
	}
	got := s.trace(mark)
	if got[len(got)-1] != "STOP" {
		t.Errorf("trace %v does not end with STOP", got)
	}
	if s.sr1.Peek()&faultMask != 0 {
		t.Errorf("SR1 fault flags left set: %#x", s.sr1.Peek())
	}
}

func TestBoundedPolicy(t *testing.T) {
	bus, s, mark := newBus(t)
	s.delay = 1000
	bus.SetPolicy(nb.Bounded(10))

	if err := bus.Write(0x3C, []byte{1}); err != nb.ErrExhausted {
		t.Fatalf("err = %v, want nb.ErrExhausted", err)
	}
	if got := s.trace(mark); !reflect.DeepEqual(got, []string{"START", "poll"}) {
		t.Errorf("trace = %v", got)
	}
}

func TestListen(t *testing.T) {
	bus, s, _ := newBus(t)
	cr2 := s.mem.Reg("I2C1.CR2")
	bus.Listen(EventEvent | EventError)
	if got := cr2.Peek() &^ device.I2C_CR2_FREQ_Msk; got != device.I2C_CR2_ITEVTEN|device.I2C_CR2_ITERREN {
		t.Errorf("CR2 = %#x after Listen", cr2.Peek())
	}
	bus.Unlisten(EventEvent)
	if got := cr2.Peek() &^ device.I2C_CR2_FREQ_Msk; got != device.I2C_CR2_ITERREN {
		t.Errorf("CR2 = %#x after Unlisten", cr2.Peek())
	}
	if cr2.Peek()&device.I2C_CR2_FREQ_Msk != 8 {
		t.Error("Listen disturbed FREQ")
	}
}

func TestIsBusy(t *testing.T) {
	bus, s, _ := newBus(t)
	s.sr2.Poke(device.I2C_SR2_BUSY)
	if !bus.IsBusy() {
		t.Error("IsBusy = false with BUSY set")
	}
}

func TestTxRejectsWideAddress(t *testing.T) {
	bus, s, mark := newBus(t)
	if err := bus.Tx(0x80, []byte{1}, nil); err != ErrAddressRange {
		t.Fatalf("Tx(0x80) = %v, want %v", err, ErrAddressRange)
	}
	if err := bus.Tx(0x1D0, nil, make([]byte, 1)); err != ErrAddressRange {
		t.Fatalf("Tx(0x1D0) = %v, want %v", err, ErrAddressRange)
	}
	if evts := s.mem.Journal.Since(mark); len(evts) != 0 {
		t.Errorf("rejected Tx touched registers: %v", evts)
	}

	s.rx = []byte{0x99}
	r := make([]byte, 1)
	if err := bus.Tx(0x7F, nil, r); err != nil || r[0] != 0x99 {
		t.Errorf("Tx(0x7F) = %v, read %#x", err, r[0])
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		name string
		sr1  uint32
		want State
	}{
		{"start wins", device.I2C_SR1_SB | device.I2C_SR1_TxE, StateStarted},
		{"address", device.I2C_SR1_ADDR, StateCanWrite},
		{"transmit empty", device.I2C_SR1_TxE, StateCanWrite},
		{"receive not empty", device.I2C_SR1_RxNE, StateCanRead},
		{"idle", 0, StateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus, s, _ := newBus(t)
			s.sr1.Poke(tt.sr1)
			mark := s.mem.Journal.Len()
			if got := bus.State(); got != tt.want {
				t.Errorf("State = %d, want %d", got, tt.want)
			}
			sr1Reads, sr2Reads := 0, 0
			for _, e := range s.mem.Journal.Since(mark) {
				switch e.Name {
				case "I2C1.SR1":
					sr1Reads++
				case "I2C1.SR2":
					sr2Reads++
				}
			}
			wantSR2 := 0
			if tt.sr1 == device.I2C_SR1_ADDR {
				wantSR2 = 1
			}
			if sr1Reads != 1 || sr2Reads != wantSR2 {
				t.Errorf("SR1 read %d times, SR2 %d times", sr1Reads, sr2Reads)
			}
		})
	}
}

func TestStateReleasesAddr(t *testing.T) {
	bus, s, _ := newBus(t)
	s.sr1.Poke(device.I2C_SR1_ADDR)
	bus.State()
	if s.sr1.Peek()&device.I2C_SR1_ADDR != 0 {
		t.Error("ADDR still latched after State")
	}
}

func TestIsMaster(t *testing.T) {
	bus, s, _ := newBus(t)
	if bus.IsMaster() {
		t.Error("IsMaster = true with MSL clear")
	}
	s.sr2.Poke(device.I2C_SR2_MSL | device.I2C_SR2_BUSY)
	if !bus.IsMaster() {
		t.Error("IsMaster = false with MSL set")
	}
}

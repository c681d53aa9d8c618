package gpio

import "f1hal/device"

// Named configurations. Each is a fixed (mode, cnf) pair and is only
// callable from a state where that pair means what the name says.

// SetFloatingInput leaves the input pin unbiased.
func SetFloatingInput[P Port, N Index, C Cnf](p Pin[P, N, Input, C]) Pin[P, N, Input, Cnf1] {
	return p.SetCnf1()
}

// SetAnalog disconnects the digital input stage.
func SetAnalog[P Port, N Index, C Cnf](p Pin[P, N, Input, C]) Pin[P, N, Input, Cnf0] {
	return p.SetCnf0()
}

// SetPullUpDown enables the bias resistor without choosing its direction;
// ODR selects up (1) or down (0).
func SetPullUpDown[P Port, N Index, C Cnf](p Pin[P, N, Input, C]) Pin[P, N, Input, Cnf2] {
	return p.SetCnf2()
}

// SetPullUp enables the pull-up resistor.
func SetPullUp[P Port, N Index, C Cnf](p Pin[P, N, Input, C]) Pin[P, N, Input, Cnf2] {
	q := p.SetCnf2()
	q.regs.BSRR.Set(1 << q.Index())
	return q
}

// SetPullDown enables the pull-down resistor.
func SetPullDown[P Port, N Index, C Cnf](p Pin[P, N, Input, C]) Pin[P, N, Input, Cnf2] {
	q := p.SetCnf2()
	q.regs.BSRR.Set(1 << (q.Index() + device.GPIO_BSRR_BR))
	return q
}

// SetAltOutputPushPull hands the output driver to the pin's peripheral.
func SetAltOutputPushPull[P Port, N Index, M OutputMode, C Cnf](p Pin[P, N, M, C]) Pin[P, N, M, Cnf2] {
	return p.SetCnf2()
}

// SetAltOutputOpenDrain hands an open-drain output driver to the pin's
// peripheral.
func SetAltOutputOpenDrain[P Port, N Index, M OutputMode, C Cnf](p Pin[P, N, M, C]) Pin[P, N, M, Cnf3] {
	return p.SetCnf3()
}

// SetOutputPushPull makes the pin a software driven push-pull output.
func SetOutputPushPull[P Port, N Index, M OutputMode, C Cnf](p Pin[P, N, M, C]) Pin[P, N, M, Cnf0] {
	return p.SetCnf0()
}

// SetOutputOpenDrain makes the pin a software driven open-drain output.
func SetOutputOpenDrain[P Port, N Index, M OutputMode, C Cnf](p Pin[P, N, M, C]) Pin[P, N, M, Cnf1] {
	return p.SetCnf1()
}

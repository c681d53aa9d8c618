package debug

// utoa converts an unsigned integer to a string without using fmt
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// hex formats n as 0x-prefixed lowercase hex with no leading zeros
func hex(n uint32) string {
	const digits = "0123456789abcdef"
	if n == 0 {
		return "0x0"
	}
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = digits[n&0xF]
		n >>= 4
	}
	pos--
	buf[pos] = 'x'
	pos--
	buf[pos] = '0'
	return string(buf[pos:])
}

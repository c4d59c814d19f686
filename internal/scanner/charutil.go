package scanner

func IsDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '9'
}

func IsNonZeroDigit[T byte | rune](b T) bool {
	return b >= '1' && b <= '9'
}

// HexValue returns the value of a hexadecimal digit, or -1 if b is not one.
func HexValue[T byte | rune](b T) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}

func IsCtrl[T byte | rune](b T) bool {
	return b < 32
}

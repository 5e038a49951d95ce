package utils

// IsEqual - Returns true if a and b are equal both in size and contents
func IsEqual(a, b []byte) bool {
	lenA := len(a)
	if lenA != len(b) {
		return false
	}

	for i := 0; i < lenA; i++ {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// CeilDiv - Returns n / d rounded up, d must be positive
func CeilDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 {
		q++
	}

	return q
}

// RoundUp - Returns n rounded up to the next multiple of m, m must be positive
func RoundUp(n, m int64) int64 {
	if rem := n % m; rem != 0 {
		return n + m - rem
	}

	return n
}

// CloneBytes - Returns a copy of a, never nil
func CloneBytes(a []byte) (b []byte) {
	b = make([]byte, len(a))
	_ = copy(b, a)

	return
}

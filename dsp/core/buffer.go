package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T any](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// CopyInto copies src into dst, zero-filling the rest of dst, and returns
// the number of copied elements.
func CopyInto[T any](dst, src []T) int {
	n := copy(dst, src)
	clear(dst[n:])
	return n
}

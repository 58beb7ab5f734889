package pitch

const medianLength = 5

// median5 is a ring of the five most recent estimates, zero-initialised.
type median5 struct {
	buf  [medianLength]float64
	next int
}

func (m *median5) push(f float64) {
	if m.next == medianLength {
		m.next = 0
	}
	m.buf[m.next] = f
	m.next++
}

// median returns the third largest of the five values, selected with a fixed
// compare-exchange network.
func (m *median5) median() float64 {
	a, b, c, d, e := m.buf[0], m.buf[1], m.buf[2], m.buf[3], m.buf[4]

	// Drop the largest, then the second largest; the median is the largest
	// of what remains.
	a, b = order(a, b)
	a, c = order(a, c)
	a, d = order(a, d)
	_, e = order(a, e)

	b, c = order(b, c)
	b, d = order(b, d)
	_, e = order(b, e)

	return max(c, d, e)
}

func order(x, y float64) (float64, float64) {
	if x < y {
		return y, x
	}
	return x, y
}

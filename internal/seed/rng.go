package seed

// maxUint32Plus1 scales a 32-bit state to [0, 1).
const maxUint32Plus1 = 4294967296

// Mulberry32 is a small seeded generator. The same seed always yields the
// same sequence, across platforms.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 returns a generator seeded with seed.
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Float64 returns the next value in [0, 1).
func (m *Mulberry32) Float64() float64 {
	m.state += 0x6d2b79f5
	s := m.state
	t := (s ^ s>>15) * (1 | s)
	t = (t + (t^t>>7)*(61|t)) ^ t
	return float64(t^t>>14) / maxUint32Plus1
}

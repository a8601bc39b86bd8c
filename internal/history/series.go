// Package history provides fixed-capacity rolling sample series for the
// scalar values tracked across poll cycles.
package history

// Series holds up to capacity float64 samples, oldest first. Appending
// beyond capacity evicts the oldest sample.
type Series struct {
	samples  []float64
	capacity int
}

func NewSeries(capacity int) *Series {
	if capacity < 1 {
		capacity = 1
	}

	return &Series{
		samples:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

func (s *Series) Append(v float64) {
	s.samples = append(s.samples, v)
	if len(s.samples) > s.capacity {
		s.samples = s.samples[1:]
	}
}

func (s *Series) Len() int {
	return len(s.samples)
}

func (s *Series) Capacity() int {
	return s.capacity
}

// Last returns the newest sample, or false if the series is empty.
func (s *Series) Last() (float64, bool) {
	if len(s.samples) == 0 {
		return 0, false
	}

	return s.samples[len(s.samples)-1], true
}

// Back returns the sample n positions before the newest (Back(0) == Last).
// n is clamped to the oldest available sample.
func (s *Series) Back(n int) (float64, bool) {
	if len(s.samples) == 0 {
		return 0, false
	}
	if n >= len(s.samples) {
		n = len(s.samples) - 1
	}

	return s.samples[len(s.samples)-1-n], true
}

// Values returns the samples oldest to newest. The returned slice is a copy.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)

	return out
}

// WindowStats returns min, mean and max over the last n samples. n <= 0
// means the whole series. An empty series yields all zeros.
func (s *Series) WindowStats(n int) (minV, mean, maxV float64) {
	if len(s.samples) == 0 {
		return 0, 0, 0
	}

	xs := s.samples
	if n > 0 && n < len(xs) {
		xs = xs[len(xs)-n:]
	}

	minV, maxV = xs[0], xs[0]
	sum := 0.0
	for _, v := range xs {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}

	return minV, sum / float64(len(xs)), maxV
}

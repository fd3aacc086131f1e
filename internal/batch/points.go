// Package batch defers point plots and single-pixel writes so they reach
// the device as few large submissions.
//
// Both batches follow the same discipline: accumulate, then flush when a
// size threshold is crossed or when the owner asks for it.
package batch

// FloatsPerPoint is the stride of a plotted point: x, y, r, g, b, a.
const FloatsPerPoint = 6

// DefaultMaxPoints is the point count that triggers an implicit flush.
const DefaultMaxPoints = 5334

// PointBatch collects colored points in NDC.
type PointBatch struct {
	// Max is the number of points that triggers an implicit flush.
	// Zero means DefaultMaxPoints.
	Max int
	// Submit receives the interleaved point data. The slice is reused
	// after Submit returns.
	Submit func(points []float32) error

	data    []float32
	flushes int
}

func (b *PointBatch) max() int {
	if b.Max <= 0 {
		return DefaultMaxPoints
	}
	return b.Max
}

// Plot appends one point. Reaching Max points flushes before returning.
func (b *PointBatch) Plot(x, y float32, rgba [4]float32) error {
	if b.data == nil {
		b.data = make([]float32, 0, b.max()*FloatsPerPoint)
	}
	b.data = append(b.data, x, y, rgba[0], rgba[1], rgba[2], rgba[3])
	if len(b.data) >= b.max()*FloatsPerPoint {
		return b.Flush()
	}
	return nil
}

// Flush submits pending points. An empty batch is a no-op. The batch is
// cleared even when Submit fails.
func (b *PointBatch) Flush() error {
	if len(b.data) == 0 {
		return nil
	}
	var err error
	if b.Submit != nil {
		err = b.Submit(b.data)
	}
	b.data = b.data[:0]
	b.flushes++
	return err
}

// Reset drops pending points without submitting them.
func (b *PointBatch) Reset() {
	b.data = b.data[:0]
}

// Len returns the number of pending points.
func (b *PointBatch) Len() int { return len(b.data) / FloatsPerPoint }

// Flushes returns how many non-empty flushes happened so far.
func (b *PointBatch) Flushes() int { return b.flushes }

package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// ShiftLeft moves buf[n:] to the front of buf and zeroes the vacated tail.
// n >= len(buf) clears buf.
func ShiftLeft(buf []float64, n int) {
	if n <= 0 {
		return
	}
	if n >= len(buf) {
		clear(buf)
		return
	}
	copy(buf, buf[n:])
	clear(buf[len(buf)-n:])
}

// Deinterleave32 converts interleaved float32 frames into a channel-major
// float64 buffer: channel c occupies dst[c*frames : (c+1)*frames].
// It returns the number of frames converted.
func Deinterleave32(dst []float64, src []float32, channels int) int {
	if channels <= 0 {
		return 0
	}
	frames := min(len(src), len(dst)) / channels
	for f := range frames {
		for c := range channels {
			dst[c*frames+f] = float64(src[f*channels+c])
		}
	}
	return frames
}

// Interleave32 converts a channel-major float64 buffer back into interleaved
// float32 frames. It returns the number of frames converted.
func Interleave32(dst []float32, src []float64, channels int) int {
	if channels <= 0 {
		return 0
	}
	frames := min(len(src), len(dst)) / channels
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = float32(src[c*frames+f])
		}
	}
	return frames
}

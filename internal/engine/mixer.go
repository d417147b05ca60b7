package engine

import "math"

// Spatialization follows the inverse-distance-clamped model: the distance to
// the listener is clamped to [referenceDistance, maxDistance] and gain decays
// as refDist / (refDist + rolloff*(d - refDist)). Panning is constant-power,
// driven by the direction's projection onto the listener's right vector.

const panEpsilon = 1e-6

// mixInto accumulates the source's next frames into acc at the output rate,
// advancing the playback cursor. Rate conversion is linear interpolation.
func (s *Source) mixInto(acc []float32, frames, outRate int, l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.playing || s.buf == nil {
		return
	}
	samples, channels, rate := s.buf.data()
	if len(samples) == 0 {
		s.playing = false
		return
	}

	total := len(samples) / int(channels)
	gainL, gainR, spatial := s.gainsLocked(l)
	step := float64(rate) / float64(outRate)

	for i := 0; i < frames; i++ {
		if s.cursor >= float64(total) {
			if !s.looping {
				s.playing = false
				s.cursor = 0
				return
			}
			s.cursor = math.Mod(s.cursor, float64(total))
		}

		i0 := int(s.cursor)
		frac := float32(s.cursor - float64(i0))
		i1 := i0 + 1
		if i1 >= total {
			if s.looping {
				i1 = 0
			} else {
				i1 = i0
			}
		}

		var left, right float32
		if channels == Mono {
			v := lerpSample(samples[i0], samples[i1], frac)
			left, right = v, v
		} else {
			left = lerpSample(samples[2*i0], samples[2*i1], frac)
			right = lerpSample(samples[2*i0+1], samples[2*i1+1], frac)
		}

		if spatial {
			// Spatialized rendering is single-channel; stereo material
			// collapses to the frame average.
			m := (left + right) * 0.5
			acc[2*i] += m * gainL
			acc[2*i+1] += m * gainR
		} else {
			acc[2*i] += left * gainL
			acc[2*i+1] += right * gainR
		}

		s.cursor += step
	}
}

// gainsLocked computes the per-channel gains for the current listener.
// spatial is false when the source bypasses attenuation and panning
// (listener-relative at the listener-space origin).
func (s *Source) gainsLocked(l Listener) (gainL, gainR float32, spatial bool) {
	g := clampGain(s.gain, s.minGain, s.maxGain)

	dir := s.position
	if !s.relative {
		dir = vecSub(s.position, l.Position)
	}
	if s.relative && dir == [3]float32{} {
		return g, g, false
	}

	dist := vecLength(dir)

	cd := dist
	if cd > s.maxDist {
		cd = s.maxDist
	}
	var att float32
	if s.refDist > 0 {
		if cd < s.refDist {
			cd = s.refDist
		}
		att = s.refDist / (s.refDist + s.rolloff*(cd-s.refDist))
	} else {
		// Zero reference distance attenuates from the origin with a unit
		// reference, instead of the degenerate 0/0 the formula would give.
		att = 1 / (1 + s.rolloff*cd)
	}
	g = clampGain(g*att, s.minGain, s.maxGain)

	pan := float32(0)
	if dist > panEpsilon {
		right := vecCross(l.At, l.Up)
		if rl := vecLength(right); rl > panEpsilon {
			pan = vecDot(dir, right) / (rl * dist)
		}
	}
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}

	theta := float64(pan+1) * math.Pi / 4
	return g * float32(math.Cos(theta)), g * float32(math.Sin(theta)), true
}

func lerpSample(a, b int16, frac float32) float32 {
	return float32(a) + (float32(b)-float32(a))*frac
}

func clampGain(v, lo, hi float32) float32 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func vecSub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func vecDot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func vecCross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func vecLength(a [3]float32) float32 {
	return float32(math.Sqrt(float64(vecDot(a, a))))
}

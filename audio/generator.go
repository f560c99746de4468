package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/tiltball/constant"
)

const sampleRate = beep.SampleRate(constant.AudioSampleRate)

// Waveform types
const (
	waveSine = iota
	waveSquare
	waveSaw
	waveNoise
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// oscillator generates raw waveform samples
func oscillator(waveType int, freq float64, samples int) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	phaseInc := freq / float64(constant.AudioSampleRate)

	for i := 0; i < samples; i++ {
		switch waveType {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		case waveSaw:
			buf[i] = 2.0 * (phase - 0.5)
		case waveNoise:
			buf[i] = rand.Float64()*2 - 1
		}

		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// sweep generates a sine whose frequency moves linearly from start to end
func sweep(startFreq, endFreq float64, samples int) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	for i := 0; i < samples; i++ {
		progress := float64(i) / float64(samples)
		freq := startFreq + (endFreq-startFreq)*progress
		buf[i] = math.Sin(2 * math.Pi * phase)
		phase += freq / float64(constant.AudioSampleRate)
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// applyEnvelope applies attack/release envelope in place
func applyEnvelope(buf floatBuffer, attack, release time.Duration) {
	total := len(buf)
	attackSamples := durationToSamples(attack)
	releaseSamples := durationToSamples(release)

	releaseStart := total - releaseSamples
	if releaseStart < attackSamples {
		releaseStart = attackSamples
	}

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackSamples && attackSamples > 0 {
			vol = float64(i) / float64(attackSamples)
		} else if i >= releaseStart && releaseSamples > 0 {
			vol = float64(total-i) / float64(releaseSamples)
		}
		buf[i] *= vol
	}
}

// mixFloatBuffers adds b into a (in place), extending a if needed
func mixFloatBuffers(a, b floatBuffer, bScale float64) floatBuffer {
	if len(b) > len(a) {
		extended := make(floatBuffer, len(b))
		copy(extended, a)
		a = extended
	}
	for i := range b {
		a[i] += b[i] * bScale
	}
	return a
}

// concatFloatBuffers appends b to a
func concatFloatBuffers(a, b floatBuffer) floatBuffer {
	result := make(floatBuffer, len(a)+len(b))
	copy(result, a)
	copy(result[len(a):], b)
	return result
}

// normalize scales the buffer so its peak is at most 1
func normalize(buf floatBuffer) floatBuffer {
	peak := 0.0
	for _, v := range buf {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 1 {
		for i := range buf {
			buf[i] /= peak
		}
	}
	return buf
}

func durationToSamples(d time.Duration) int {
	return int(d.Seconds() * float64(constant.AudioSampleRate))
}

// --- Sound Generators (unity gain) ---

func generateChimeSound() floatBuffer {
	n1 := oscillator(waveSine, constant.ChimeNote1Freq, durationToSamples(constant.ChimeNote1Duration))
	applyEnvelope(n1, constant.ChimeAttack, constant.ChimeNote1Release)

	n2 := oscillator(waveSine, constant.ChimeNote2Freq, durationToSamples(constant.ChimeNote2Duration))
	over := oscillator(waveSine, constant.ChimeNote2Freq*2, len(n2))
	n2 = mixFloatBuffers(n2, over, 0.25)
	applyEnvelope(n2, constant.ChimeAttack, constant.ChimeNote2Release)

	return normalize(concatFloatBuffers(n1, n2))
}

func generateThudSound() floatBuffer {
	samples := durationToSamples(constant.ThudSoundDuration)
	buf := sweep(constant.ThudStartFreq, constant.ThudEndFreq, samples)
	applyEnvelope(buf, constant.ThudSoundAttack, constant.ThudSoundRelease)
	return buf
}

func generateBuzzSound() floatBuffer {
	samples := durationToSamples(constant.BuzzSoundDuration)
	buf := oscillator(waveSaw, constant.BuzzFreq, samples)
	sub := oscillator(waveSquare, constant.BuzzFreq/2, samples)
	buf = mixFloatBuffers(buf, sub, 0.3)
	applyEnvelope(buf, constant.BuzzSoundAttack, constant.BuzzSoundRelease)
	return normalize(buf)
}

// generateSound dispatches to specific generator
func generateSound(st SoundType) floatBuffer {
	switch st {
	case SoundChime:
		return generateChimeSound()
	case SoundThud:
		return generateThudSound()
	case SoundBuzz:
		return generateBuzzSound()
	default:
		return nil
	}
}

// bufferStreamer plays a cached mono buffer as stereo at a fixed gain
// The buffer is shared and never written
type bufferStreamer struct {
	buf  floatBuffer
	gain float64
	pos  int
}

func newBufferStreamer(buf floatBuffer, gain float64) *bufferStreamer {
	return &bufferStreamer{buf: buf, gain: gain}
}

func (s *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	for n < len(samples) && s.pos < len(s.buf) {
		v := s.buf[s.pos] * s.gain
		samples[n][0] = v
		samples[n][1] = v
		s.pos++
		n++
	}
	return n, true
}

func (s *bufferStreamer) Err() error {
	return nil
}

// Len returns the total sample count
func (s *bufferStreamer) Len() int {
	return len(s.buf)
}

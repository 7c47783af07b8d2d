package sequencer

import "sync/atomic"

// spectrumBars is the fixed bin count the sequencer bins absolute-value
// samples into for both input and output, after each block's mix.
const spectrumBars = 32

// spectrum holds two 32-bar buffers (input, output) written by the
// realtime mixing path and a shared buffer the UI thread reads from.
// Handoff uses a single atomic flag rather than a lock: the RT writer
// skips the copy into the shared buffer whenever the flag is true
// (meaning the UI is mid-read), so the UI always observes either a
// complete old buffer or a complete new one, never a partial write.
type spectrum struct {
	rtInput  [spectrumBars]float32
	rtOutput [spectrumBars]float32

	sharedInput  [spectrumBars]float32
	sharedOutput [spectrumBars]float32

	reading int32 // atomic bool, set by the UI while copying out
}

// BinBlock bins the absolute value of every sample in input/output block
// buffers into spectrumBars bars and publishes them to the shared
// buffers unless the UI is currently reading.
func (s *spectrum) BinBlock(input, output [][]float32) {
	binInto(&s.rtInput, input)
	binInto(&s.rtOutput, output)

	if atomic.LoadInt32(&s.reading) != 0 {
		return
	}
	s.sharedInput = s.rtInput
	s.sharedOutput = s.rtOutput
}

// Read copies the shared input/output spectrum buffers out for the UI,
// setting the reading flag for the duration of the copy.
func (s *spectrum) Read() (in, out [spectrumBars]float32) {
	atomic.StoreInt32(&s.reading, 1)
	in, out = s.sharedInput, s.sharedOutput
	atomic.StoreInt32(&s.reading, 0)
	return in, out
}

func binInto(bars *[spectrumBars]float32, channels [][]float32) {
	for i := range bars {
		bars[i] = 0
	}
	if len(channels) == 0 {
		return
	}
	frameCount := len(channels[0])
	if frameCount == 0 {
		return
	}
	framesPerBar := frameCount / spectrumBars
	if framesPerBar == 0 {
		framesPerBar = 1
	}
	for bar := 0; bar < spectrumBars; bar++ {
		start := bar * framesPerBar
		if start >= frameCount {
			break
		}
		end := start + framesPerBar
		if bar == spectrumBars-1 || end > frameCount {
			end = frameCount
		}
		var peak float32
		for _, ch := range channels {
			for i := start; i < end && i < len(ch); i++ {
				v := ch[i]
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		bars[bar] = peak
	}
}

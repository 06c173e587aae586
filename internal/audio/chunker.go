package audio

import "encoding/binary"

// DefaultSamplesPerFrame is the number of samples per outbound frame,
// roughly 264ms of audio at 16kHz.
const DefaultSamplesPerFrame = 4224

// Chunker accumulates signed 16-bit samples and cuts them into fixed-size
// little-endian byte frames for transmission. Samples arriving while the
// connected predicate reports false are dropped rather than buffered, so no
// pre-negotiation audio ever reaches an unconfigured session.
//
// Chunker is not safe for concurrent use; it is owned by the audio pump.
type Chunker struct {
	samplesPerFrame int
	connected       func() bool
	buffer          []int16
}

// NewChunker creates a chunker emitting frames of samplesPerFrame samples.
// A nil connected predicate means the downstream channel is always ready.
func NewChunker(samplesPerFrame int, connected func() bool) *Chunker {
	if samplesPerFrame <= 0 {
		samplesPerFrame = DefaultSamplesPerFrame
	}
	return &Chunker{samplesPerFrame: samplesPerFrame, connected: connected}
}

// Push buffers a batch of samples and returns the complete frames it
// produced, oldest first. The remainder stays buffered for the next push.
func (c *Chunker) Push(samples []int16) [][]byte {
	if len(samples) == 0 {
		return nil
	}
	if c.connected != nil && !c.connected() {
		return nil
	}

	c.buffer = append(c.buffer, samples...)

	var frames [][]byte
	for len(c.buffer) >= c.samplesPerFrame {
		frames = append(frames, encodeSamples(c.buffer[:c.samplesPerFrame]))
		c.buffer = c.buffer[c.samplesPerFrame:]
	}
	return frames
}

// Flush returns whatever is buffered as a single payload regardless of size,
// possibly zero-length, and empties the buffer.
func (c *Chunker) Flush() []byte {
	payload := encodeSamples(c.buffer)
	c.buffer = nil
	return payload
}

// Buffered reports how many samples are waiting for a full frame.
func (c *Chunker) Buffered() int {
	return len(c.buffer)
}

func encodeSamples(samples []int16) []byte {
	payload := make([]byte, 2*len(samples))
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(sample))
	}
	return payload
}

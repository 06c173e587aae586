package audio

import (
	"encoding/binary"
	"errors"
	"io"
)

// readBatchSamples is how many samples one ReadBatch call delivers at most,
// about 128ms of audio at 16kHz.
const readBatchSamples = 2048

// ReaderSource adapts a byte stream of little-endian signed 16-bit PCM into
// a sample source. The final batch may be shorter than the batch size; a
// trailing odd byte is discarded.
type ReaderSource struct {
	reader io.Reader
	buf    []byte
	eof    bool
}

// NewReaderSource wraps a PCM byte stream. batchSamples <= 0 selects the
// default batch size.
func NewReaderSource(reader io.Reader, batchSamples int) *ReaderSource {
	if batchSamples <= 0 {
		batchSamples = readBatchSamples
	}
	return &ReaderSource{reader: reader, buf: make([]byte, 2*batchSamples)}
}

// ReadBatch blocks until a full batch is read or the stream ends, returning
// io.EOF once the source is exhausted.
func (s *ReaderSource) ReadBatch() ([]int16, error) {
	if s.eof {
		return nil, io.EOF
	}

	n, err := io.ReadFull(s.reader, s.buf)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		s.eof = true
		if n < 2 {
			return nil, io.EOF
		}
		return decodeSamples(s.buf[:n-n%2]), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSamples(s.buf[:n]), nil
}

// Stop closes the underlying reader when it is closeable.
func (s *ReaderSource) Stop() error {
	s.eof = true
	if closer, ok := s.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func decodeSamples(payload []byte) []int16 {
	samples := make([]int16, len(payload)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(payload[2*i:]))
	}
	return samples
}

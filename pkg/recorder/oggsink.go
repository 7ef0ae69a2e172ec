package recorder

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3/pkg/media/oggwriter"
	"gopkg.in/hraban/opus.v2"
)

// opusFrameSamples is the per-channel frame size: 10ms at 48kHz, a
// size both the opus encoder and the ogg granule accounting agree on.
const opusFrameSamples = 480

const opusPayloadType = 111

// oggSink encodes tapped PCM to opus and writes it as an ogg file via
// RTP packets. One sink lives exactly as long as one recording.
type oggSink struct {
	mu  sync.Mutex
	enc *opus.Encoder
	ogg *oggwriter.OggWriter

	buf       []float32
	packetBuf []byte
	seq       uint16
	ts        uint32
	ssrc      uint32

	frames int
	err    error
}

// newOggSink opens the sidecar file and the encoder. Stereo, matching
// the synth engine output.
func newOggSink(path string, sampleRate int) (*oggSink, error) {
	enc, err := opus.NewEncoder(sampleRate, 2, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	ogg, err := oggwriter.New(path, uint32(sampleRate), 2)
	if err != nil {
		return nil, fmt.Errorf("failed to open ogg sidecar: %w", err)
	}

	return &oggSink{
		enc:       enc,
		ogg:       ogg,
		packetBuf: make([]byte, 4000),
		ssrc:      rand.Uint32(),
	}, nil
}

// WritePCM buffers samples and encodes every complete opus frame.
// Called from the speaker goroutine; errors latch and stop encoding
// rather than propagate into the audio path.
func (s *oggSink) WritePCM(samples [][2]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}

	for _, smp := range samples {
		s.buf = append(s.buf, float32(smp[0]), float32(smp[1]))
	}

	frameLen := opusFrameSamples * 2
	consumed := 0
	for len(s.buf)-consumed >= frameLen {
		n, err := s.enc.EncodeFloat32(s.buf[consumed:consumed+frameLen], s.packetBuf)
		if err != nil {
			s.err = fmt.Errorf("opus encode failed: %w", err)
			return
		}
		consumed += frameLen

		s.seq++
		s.ts += opusFrameSamples
		pkt := &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    opusPayloadType,
				SequenceNumber: s.seq,
				Timestamp:      s.ts,
				SSRC:           s.ssrc,
			},
			Payload: append([]byte(nil), s.packetBuf[:n]...),
		}
		if err := s.ogg.WriteRTP(pkt); err != nil {
			s.err = fmt.Errorf("ogg write failed: %w", err)
			return
		}
		s.frames++
	}

	if consumed > 0 {
		s.buf = s.buf[:copy(s.buf, s.buf[consumed:])]
	}
}

// Frames reports how many opus frames were written.
func (s *oggSink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Close finalizes the ogg file. A trailing partial frame is dropped.
func (s *oggSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ogg.Close(); err != nil {
		return fmt.Errorf("failed to close ogg sidecar: %w", err)
	}
	return s.err
}

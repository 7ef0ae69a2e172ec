// Package camera wraps webcam capture behind a latest-frame snapshot
// API. A background loop reads frames at driver pace; consumers take
// cloned snapshots tagged with a sequence number so they can tell a
// fresh frame from one they already processed.
package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/lumascene/handwave/internal/log"
)

// maxConsecutiveFailures is how many failed reads in a row mark the
// device lost. There is no reopen attempt; the owner must treat the
// error as terminal.
const maxConsecutiveFailures = 30

// Frame is one captured image. The Mat is a clone owned by the caller,
// who must Close it.
type Frame struct {
	Mat gocv.Mat
	Seq uint64
	TS  time.Time
}

// Camera owns a capture device and the latest frame read from it.
type Camera struct {
	cfg Config

	mu     sync.RWMutex
	cap    *gocv.VideoCapture
	latest gocv.Mat
	seq    uint64
	ts     time.Time
	err    error

	actualWidth  int
	actualHeight int
}

// Open acquires the device and verifies it by reading one frame.
// Failure here means no session can start.
func Open(cfg Config) (*Camera, error) {
	cap, err := gocv.VideoCaptureDevice(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera device %d: %w", cfg.Device, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("camera device %d is not available", cfg.Device)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, cfg.FPS)

	probe := gocv.NewMat()
	defer probe.Close()
	if !cap.Read(&probe) || probe.Empty() {
		cap.Close()
		return nil, fmt.Errorf("camera device %d opened but produced no frame", cfg.Device)
	}

	c := &Camera{
		cfg:          cfg,
		cap:          cap,
		latest:       gocv.NewMat(),
		actualWidth:  probe.Cols(),
		actualHeight: probe.Rows(),
	}
	log.Component("camera").Info("camera opened",
		"device", cfg.Device, "width", c.actualWidth, "height", c.actualHeight)
	return c, nil
}

// Run reads frames until ctx is canceled or the device disappears.
// It blocks; run it on its own goroutine.
func (c *Camera) Run(ctx context.Context) {
	logger := log.Component("camera")
	scratch := gocv.NewMat()
	defer scratch.Close()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !c.cap.Read(&scratch) || scratch.Empty() {
			failures++
			if failures >= maxConsecutiveFailures {
				logger.Error("camera stopped producing frames", "device", c.cfg.Device)
				c.mu.Lock()
				c.err = fmt.Errorf("camera device %d stopped producing frames", c.cfg.Device)
				c.mu.Unlock()
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		failures = 0

		c.mu.Lock()
		scratch.CopyTo(&c.latest)
		c.seq++
		c.ts = time.Now()
		c.mu.Unlock()
	}
}

// Snapshot clones the latest frame. ok is false before the first frame
// arrives or after the device fails. The caller owns the returned Mat.
func (c *Camera) Snapshot() (Frame, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.seq == 0 || c.err != nil {
		return Frame{}, false
	}
	return Frame{Mat: c.latest.Clone(), Seq: c.seq, TS: c.ts}, true
}

// Seq returns the sequence number of the latest frame without copying
// it, letting callers skip work when nothing new arrived.
func (c *Camera) Seq() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

// Err reports a terminal device failure, if any.
func (c *Camera) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ActualWidth returns the granted capture width.
func (c *Camera) ActualWidth() int { return c.actualWidth }

// ActualHeight returns the granted capture height.
func (c *Camera) ActualHeight() int { return c.actualHeight }

// Close releases the device and the retained frame.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest.Close()
	return c.cap.Close()
}

// EncodeJPEG compresses a frame for detection input and websocket
// preview streaming.
func EncodeJPEG(m gocv.Mat) ([]byte, error) {
	if m.Empty() {
		return nil, fmt.Errorf("cannot encode empty frame")
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

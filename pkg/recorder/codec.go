package recorder

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/lumascene/handwave/internal/log"
)

// codecChoice pairs a FourCC with the container extension it needs.
type codecChoice struct {
	FourCC string
	Ext    string
}

// codecPreference is probed top to bottom; the first codec the local
// OpenCV build can actually open wins. H.264 when available, falling
// back to MPEG-4 and then the always-available motion JPEG.
var codecPreference = []codecChoice{
	{"avc1", ".mp4"},
	{"mp4v", ".mp4"},
	{"MJPG", ".avi"},
	{"XVID", ".avi"},
}

// frameWriter is the sink for composed frames. gocv.VideoWriter
// satisfies it; tests substitute their own.
type frameWriter interface {
	Write(img gocv.Mat) error
	Close() error
}

// writerFactory opens a writer for one codec candidate, failing when
// the codec is unavailable.
type writerFactory func(path, fourCC string, fps float64, width, height int) (frameWriter, error)

// gocvWriterFactory opens a real gocv VideoWriter and treats an
// unopened writer as an unavailable codec.
func gocvWriterFactory(path, fourCC string, fps float64, width, height int) (frameWriter, error) {
	w, err := gocv.VideoWriterFile(path, fourCC, fps, width, height, true)
	if err != nil {
		return nil, err
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("codec %s is not available", fourCC)
	}
	return w, nil
}

// openPreferredWriter walks the preference list and returns the first
// writer that opens, together with its final path and codec.
func openPreferredWriter(factory writerFactory, dir, base string, fps float64, width, height int) (frameWriter, string, string, error) {
	for _, c := range codecPreference {
		path := filepath.Join(dir, base+c.Ext)
		w, err := factory(path, c.FourCC, fps, width, height)
		if err != nil {
			log.Component("recorder").Debug("codec unavailable", "codec", c.FourCC, "error", err)
			os.Remove(path)
			continue
		}
		return w, path, c.FourCC, nil
	}
	return nil, "", "", fmt.Errorf("no usable video codec among %d candidates", len(codecPreference))
}

package hands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumascene/handwave/internal/httpc"
	"github.com/lumascene/handwave/internal/log"
)

// EnsureModel makes sure the ONNX model exists at path, downloading it
// from url when missing. An empty url with a missing file is an error:
// detection cannot start without the model and there is no retry.
func EnsureModel(path, url string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if url == "" {
		return fmt.Errorf("hand model missing at %s and no download URL configured", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	log.Component("hands").Info("downloading hand model", "url", url, "path", path)
	n, err := httpc.Download(url, path)
	if err != nil {
		return fmt.Errorf("failed to download hand model: %w", err)
	}
	if n == 0 {
		os.Remove(path)
		return fmt.Errorf("hand model download from %s was empty", url)
	}
	log.Component("hands").Info("hand model downloaded", "bytes", n)
	return nil
}

package recorder

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/lumascene/handwave/internal/log"
)

// muxArtifact combines the video file and the ogg sidecar into a
// single .mkv with a stream copy, removing the intermediates on
// success. Requires ffmpeg on PATH; the caller falls back to separate
// files when it is missing.
func muxArtifact(videoPath, oggPath, outPath string) error {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}

	cmd := exec.Command(ffmpeg, "-y",
		"-i", videoPath,
		"-i", oggPath,
		"-c", "copy",
		outPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outPath)
		return fmt.Errorf("ffmpeg mux failed: %w (%s)", err, lastLine(out))
	}

	os.Remove(videoPath)
	os.Remove(oggPath)
	log.Component("recorder").Info("muxed recording", "artifact", outPath)
	return nil
}

// lastLine trims ffmpeg's noisy output down to its final line for the
// error message.
func lastLine(out []byte) string {
	s := string(out)
	end := len(s)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	start := end
	for start > 0 && s[start-1] != '\n' {
		start--
	}
	return s[start:end]
}

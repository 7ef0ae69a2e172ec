package camera

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("default size = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 30 {
		t.Errorf("default fps = %v, want 30", cfg.FPS)
	}
}

func TestEncodeJPEG(t *testing.T) {
	m := gocv.NewMatWithSizeWithScalar(gocv.NewScalar(40, 80, 120, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer m.Close()

	data, err := EncodeJPEG(m)
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Fatalf("output is not a JPEG (len %d)", len(data))
	}

	decoded, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode: %v", err)
	}
	defer decoded.Close()
	if decoded.Cols() != 64 || decoded.Rows() != 48 {
		t.Errorf("decoded size = %dx%d, want 64x48", decoded.Cols(), decoded.Rows())
	}
}

func TestEncodeJPEGEmptyMat(t *testing.T) {
	m := gocv.NewMat()
	defer m.Close()
	if _, err := EncodeJPEG(m); err == nil {
		t.Error("expected error for empty mat")
	}
}

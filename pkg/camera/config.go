package camera

// Config selects and shapes the capture device.
type Config struct {
	// Device is the V4L2 / AVFoundation device index.
	Device int
	// Width and Height are requested capture dimensions. Drivers may
	// ignore them; ActualWidth/ActualHeight report what was granted.
	Width  int
	Height int
	// FPS is the requested capture rate.
	FPS float64
}

// DefaultConfig requests 720p at 30fps from device 0, matching the
// typical laptop webcam.
func DefaultConfig() Config {
	return Config{
		Device: 0,
		Width:  1280,
		Height: 720,
		FPS:    30,
	}
}

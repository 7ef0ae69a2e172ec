package hands

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"
	"time"

	"gocv.io/x/gocv"

	"github.com/lumascene/handwave/pkg/debug"
)

// DNNDetector runs a combined hand landmark ONNX model through the
// OpenCV DNN backend. The model takes one letterboxed RGB square
// [1,3,S,S] scaled to 0..1 and produces three outputs in graph order:
// candidate landmarks [1,M,63], presence scores [1,M] and handedness
// scores [1,M] (above 0.5 means right hand).
type DNNDetector struct {
	net        gocv.Net
	outNames   []string
	cfg        Config
	frameCount int
}

// NewDNNDetector loads the model at cfg.ModelPath.
func NewDNNDetector(cfg Config) (*DNNDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("hand model not found at %s: %w", cfg.ModelPath, err)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load hand model from %s", cfg.ModelPath)
	}

	var outNames []string
	for _, id := range net.GetUnconnectedOutLayers() {
		layer := net.GetLayer(id)
		outNames = append(outNames, layer.GetName())
	}
	if len(outNames) < 3 {
		net.Close()
		return nil, fmt.Errorf("hand model has %d outputs, want 3 (landmarks, presence, handedness)", len(outNames))
	}

	return &DNNDetector{net: net, outNames: outNames, cfg: cfg}, nil
}

// Detect decodes the JPEG frame, letterboxes it to the model input
// square and parses the raw tensors into hands in frame-normalized
// coordinates.
func (d *DNNDetector) Detect(frame []byte, timestamp time.Time) ([]Hand, error) {
	img, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, fmt.Errorf("decoded frame is empty")
	}

	cols := img.Cols()
	rows := img.Rows()
	square, scale, padX, padY := letterbox(img, d.cfg.InputSize)
	defer square.Close()

	blob := gocv.BlobFromImage(square, 1.0/255.0, image.Pt(d.cfg.InputSize, d.cfg.InputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	outputs := d.net.ForwardLayers(d.outNames)
	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()

	hands, err := d.parse(outputs, cols, rows, scale, padX, padY)
	if err != nil {
		return nil, err
	}

	d.frameCount++
	if d.frameCount%30 == 0 {
		debug.FrameLog("detect: frame %d, %d hand(s)\n", d.frameCount, len(hands))
	}
	return hands, nil
}

// parse walks the three output tensors, drops low-presence candidates,
// suppresses overlapping duplicates and unprojects the letterboxed
// coordinates back into frame-normalized space.
func (d *DNNDetector) parse(outputs []gocv.Mat, cols, rows int, scale float32, padX, padY int) ([]Hand, error) {
	// The landmark tensor is 63x larger than the score tensors, so
	// pick it by size and keep the remaining two in graph order.
	lmIdx := 0
	for i := range outputs {
		if outputs[i].Total() > outputs[lmIdx].Total() {
			lmIdx = i
		}
	}
	if outputs[lmIdx].Total()%(NumLandmarks*3) != 0 {
		return nil, fmt.Errorf("landmark tensor has %d values, not a multiple of %d", outputs[lmIdx].Total(), NumLandmarks*3)
	}
	presIdx, handIdx := -1, -1
	for i := range outputs {
		if i == lmIdx {
			continue
		}
		if presIdx == -1 {
			presIdx = i
		} else if handIdx == -1 {
			handIdx = i
		}
	}

	lmData, err := outputs[lmIdx].DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read landmark tensor: %w", err)
	}
	presData, err := outputs[presIdx].DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read presence tensor: %w", err)
	}
	handData, err := outputs[handIdx].DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read handedness tensor: %w", err)
	}

	candidates := len(lmData) / (NumLandmarks * 3)
	if len(presData) < candidates {
		candidates = len(presData)
	}

	inSize := float32(d.cfg.InputSize)
	scaledW := float32(cols) * scale
	scaledH := float32(rows) * scale

	var hands []Hand
	var boxes []image.Rectangle
	var scores []float32
	for c := 0; c < candidates; c++ {
		score := presData[c]
		if score < d.cfg.ScoreThreshold {
			continue
		}

		var h Hand
		h.Score = score
		if c < len(handData) {
			if handData[c] > 0.5 {
				h.Label = LabelRight
			} else {
				h.Label = LabelLeft
			}
		}

		base := c * NumLandmarks * 3
		minX, minY := float32(1), float32(1)
		maxX, maxY := float32(0), float32(0)
		for l := 0; l < NumLandmarks; l++ {
			mx := lmData[base+l*3]
			my := lmData[base+l*3+1]
			mz := lmData[base+l*3+2]
			// Unproject from the padded square back to the frame.
			x := (mx*inSize - float32(padX)) / scaledW
			y := (my*inSize - float32(padY)) / scaledH
			h.Points[l] = Point{X: x, Y: y, Z: mz}
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}

		hands = append(hands, h)
		boxes = append(boxes, image.Rect(
			int(minX*float32(cols)), int(minY*float32(rows)),
			int(maxX*float32(cols)), int(maxY*float32(rows))))
		scores = append(scores, score)
	}

	if len(hands) == 0 {
		return nil, nil
	}

	indices := gocv.NMSBoxes(boxes, scores, d.cfg.ScoreThreshold, 0.4)
	kept := make([]Hand, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(hands) {
			kept = append(kept, hands[idx])
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if d.cfg.MaxHands > 0 && len(kept) > d.cfg.MaxHands {
		kept = kept[:d.cfg.MaxHands]
	}
	return kept, nil
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	return d.net.Close()
}

// letterbox scales img to fit a size x size square preserving aspect
// ratio and pads the remainder with black, centered. It returns the
// square, the applied scale and the left/top padding in pixels.
func letterbox(img gocv.Mat, size int) (gocv.Mat, float32, int, int) {
	cols := img.Cols()
	rows := img.Rows()

	scale := float32(size) / float32(cols)
	if rows > cols {
		scale = float32(size) / float32(rows)
	}
	scaledW := int(float32(cols) * scale)
	scaledH := int(float32(rows) * scale)

	resized := gocv.NewMat()
	gocv.Resize(img, &resized, image.Pt(scaledW, scaledH), 0, 0, gocv.InterpolationLinear)
	defer resized.Close()

	padX := (size - scaledW) / 2
	padY := (size - scaledH) / 2

	square := gocv.NewMat()
	gocv.CopyMakeBorder(resized, &square, padY, size-scaledH-padY, padX, size-scaledW-padX,
		gocv.BorderConstant, color.RGBA{})

	return square, scale, padX, padY
}

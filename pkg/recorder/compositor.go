// Package recorder captures the demo into a portrait video: scene on
// top, mirrored webcam below, with a persistent audio tap feeding an
// opus/ogg sidecar while a recording runs.
package recorder

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CropToFill returns the centered source rectangle that fills a
// dstW x dstH region without distortion: the source is cropped on the
// axis where it overflows, never letterboxed.
func CropToFill(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}

	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	cropW, cropH := srcW, srcH
	if srcAspect > dstAspect {
		cropW = int(float64(srcH) * dstAspect)
	} else if srcAspect < dstAspect {
		cropH = int(float64(srcW) / dstAspect)
	}

	x0 := (srcW - cropW) / 2
	y0 := (srcH - cropH) / 2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

// compositor assembles the fixed portrait canvas. The top region gets
// the rendered scene, the bottom gets the annotated camera frame
// mirrored to match the on-screen self view.
type compositor struct {
	width   int
	height  int
	topH    int
	bottomH int

	canvas  gocv.Mat
	scratch gocv.Mat
	mirror  gocv.Mat
}

func newCompositor(width, height int, topFraction float64) *compositor {
	topH := int(float64(height) * topFraction)
	return &compositor{
		width:   width,
		height:  height,
		topH:    topH,
		bottomH: height - topH,
		canvas:  gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		scratch: gocv.NewMat(),
		mirror:  gocv.NewMat(),
	}
}

// compose fills the canvas from the two sources and returns it. The
// returned Mat is reused across calls; the caller must not retain it.
func (c *compositor) compose(sceneImg image.Image, cam gocv.Mat) (gocv.Mat, error) {
	sceneMat, err := gocv.ImageToMatRGB(sceneImg)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert scene frame: %w", err)
	}
	defer sceneMat.Close()
	gocv.CvtColor(sceneMat, &sceneMat, gocv.ColorRGBToBGR)

	if err := c.blit(sceneMat, image.Rect(0, 0, c.width, c.topH)); err != nil {
		return gocv.Mat{}, err
	}

	if cam.Empty() {
		return c.canvas, nil
	}
	gocv.Flip(cam, &c.mirror, 1)
	if err := c.blit(c.mirror, image.Rect(0, c.topH, c.width, c.height)); err != nil {
		return gocv.Mat{}, err
	}
	return c.canvas, nil
}

// blit crop-to-fills src into the given canvas region.
func (c *compositor) blit(src gocv.Mat, region image.Rectangle) error {
	dstW := region.Dx()
	dstH := region.Dy()

	crop := CropToFill(src.Cols(), src.Rows(), dstW, dstH)
	if crop.Empty() {
		return fmt.Errorf("empty source for %dx%d region", dstW, dstH)
	}

	view := src.Region(crop)
	defer view.Close()

	if view.Cols() != dstW || view.Rows() != dstH {
		gocv.Resize(view, &c.scratch, image.Pt(dstW, dstH), 0, 0, gocv.InterpolationLinear)
	} else {
		view.CopyTo(&c.scratch)
	}

	roi := c.canvas.Region(region)
	defer roi.Close()
	c.scratch.CopyTo(&roi)
	return nil
}

func (c *compositor) close() {
	c.canvas.Close()
	c.scratch.Close()
	c.mirror.Close()
}

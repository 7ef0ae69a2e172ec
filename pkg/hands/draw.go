package hands

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	boneColor  = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	jointColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	tipColor   = color.RGBA{R: 255, G: 120, B: 60, A: 255}
	textColor  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Draw renders the hand skeletons onto img in place. Landmarks are
// frame-normalized, so the same hands can be drawn on any resolution.
func Draw(img *gocv.Mat, detected []Hand) {
	cols := img.Cols()
	rows := img.Rows()
	if cols == 0 || rows == 0 {
		return
	}

	for i := range detected {
		h := &detected[i]
		pts := make([]image.Point, NumLandmarks)
		for l := 0; l < NumLandmarks; l++ {
			pts[l] = image.Pt(
				int(h.Points[l].X*float32(cols)),
				int(h.Points[l].Y*float32(rows)))
		}

		for _, c := range connections {
			gocv.Line(img, pts[c[0]], pts[c[1]], boneColor, 2)
		}
		for l, p := range pts {
			c := jointColor
			if l == ThumbTip || l == IndexTip {
				c = tipColor
			}
			gocv.Circle(img, p, 4, c, -1)
		}

		label := fmt.Sprintf("%s %.2f", h.Label, h.Score)
		org := image.Pt(pts[Wrist].X-20, pts[Wrist].Y+24)
		gocv.PutText(img, label, org, gocv.FontHersheySimplex, 0.5, textColor, 1)
	}
}

package render

import (
	"bytes"
	"strconv"

	"github.com/Gaurav-Gosain/scrn/internal/vt"
)

var (
	scrollbarThumbFG = vt.RGB(140, 140, 200)
	scrollbarTrackFG = vt.RGB(40, 40, 60)
)

// Scrollbar draws a proportional thumb in the pane's rightmost column
// plus an "[offset/total]" label in the top-right corner. Callers skip
// it at offset 0.
func Scrollbar(fb *bytes.Buffer, geo Geometry, offset, total int) {
	if total <= 0 || geo.Height <= 0 || geo.Width <= 0 {
		return
	}

	track := geo.Height
	col := geo.X + geo.Width

	thumb := track * track / (total + track)
	if thumb < 1 {
		thumb = 1
	}
	if thumb > track {
		thumb = track
	}

	maxThumbPos := track - thumb
	thumbTop := 0
	if total > 0 && maxThumbPos > 0 {
		thumbTop = int((1.0 - float64(offset)/float64(total)) * float64(maxThumbPos))
	}
	if thumbTop < 0 {
		thumbTop = 0
	}
	if thumbTop > maxThumbPos {
		thumbTop = maxThumbPos
	}

	thumbStyle := resolve(vt.Style{FG: scrollbarThumbFG})
	trackStyle := resolve(vt.Style{FG: scrollbarTrackFG})

	for y := 0; y < track; y++ {
		cup(fb, geo.Y+y+1, col)
		if y >= thumbTop && y < thumbTop+thumb {
			writeSgr(fb, thumbStyle)
			fb.WriteRune('█')
		} else {
			writeSgr(fb, trackStyle)
			fb.WriteRune('│')
		}
	}

	label := " [" + strconv.Itoa(offset) + "/" + strconv.Itoa(total) + "] "
	labelCol := geo.X + geo.Width - len(label)
	if labelCol < geo.X {
		labelCol = geo.X
	}
	cup(fb, geo.Y+1, labelCol+1)
	labelStyle := resolve(vt.Style{Inverse: true})
	writeSgr(fb, labelStyle)
	fb.WriteString(label)
	fb.WriteString("\x1b[0m")
}

package render

// Zoom limits for the editor preview, in percent.
const (
	MinZoom     = 25
	MaxZoom     = 200
	ZoomStep    = 10
	DefaultZoom = 100
)

// Slide canvas size the preview scales to.
const (
	SlideWidth  = 1920
	SlideHeight = 1080
)

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// StepZoom moves z by steps increments of ZoomStep, staying within limits.
// Negative steps zoom out.
func StepZoom(z, steps int) int {
	return ClampZoom(z + steps*ZoomStep)
}

// FitSize scales a content box to fit inside a container while keeping its
// aspect ratio.
func FitSize(contentW, contentH, boxW, boxH float64) (w, h float64) {
	if contentW <= 0 || contentH <= 0 {
		return 0, 0
	}
	contentRatio := contentW / contentH
	if contentRatio > boxW/boxH {
		return boxW, boxW / contentRatio
	}
	return boxH * contentRatio, boxH
}

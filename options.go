package pix

// SurfaceOption configures a Surface during creation.
//
// Example:
//
//	s, err := pix.NewImage(dev, tex,
//	    pix.WithColor(pix.Hex("#3498db")),
//	    pix.WithBlendMode(pix.BlendAdd))
type SurfaceOption func(*surfaceOptions)

// surfaceOptions holds optional configuration for Surface creation.
type surfaceOptions struct {
	color     RGBA
	blend     BlendMode
	lineWidth float32
	pointSize float32
	scale     float32
	maxPoints int
}

// defaultOptions returns the default surface options.
func defaultOptions() surfaceOptions {
	return surfaceOptions{
		color:     White,
		blend:     BlendNormal,
		lineWidth: 1,
		pointSize: 1,
		scale:     1,
	}
}

// WithColor sets the initial draw color. The default is opaque white.
func WithColor(c RGBA) SurfaceOption {
	return func(o *surfaceOptions) {
		o.color = c
	}
}

// WithBlendMode sets the initial blend mode.
func WithBlendMode(m BlendMode) SurfaceOption {
	return func(o *surfaceOptions) {
		o.blend = m
	}
}

// WithLineWidth sets the initial line width in pixels.
func WithLineWidth(w float32) SurfaceOption {
	return func(o *surfaceOptions) {
		o.lineWidth = w
	}
}

// WithPointSize sets the initial point size in pixels.
func WithPointSize(size float32) SurfaceOption {
	return func(o *surfaceOptions) {
		o.pointSize = size
	}
}

// WithScale sets the application scale applied to every coordinate.
func WithScale(scale float32) SurfaceOption {
	return func(o *surfaceOptions) {
		o.scale = scale
	}
}

// WithMaxPoints sets how many plotted points are buffered before they are
// submitted implicitly.
func WithMaxPoints(n int) SurfaceOption {
	return func(o *surfaceOptions) {
		o.maxPoints = n
	}
}

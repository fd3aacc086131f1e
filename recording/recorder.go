package recording

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/geom"
)

// Recorder is a pix.Device that records every call before forwarding it
// to the wrapped device. A nil wrapped device only records; submissions
// then succeed and ReadPixels leaves dst untouched.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	dev      pix.Device
	commands []Command

	log    io.Writer
	closer io.Closer
	logErr error
}

var _ pix.Device = (*Recorder)(nil)

// NewRecorder returns a Recorder forwarding to dev.
func NewRecorder(dev pix.Device) *Recorder {
	return &Recorder{dev: dev, commands: make([]Command, 0, 64)}
}

// Device returns the wrapped device.
func (r *Recorder) Device() pix.Device { return r.dev }

func (r *Recorder) record(c Command) {
	r.commands = append(r.commands, c)
	if r.log != nil && r.logErr == nil {
		_, r.logErr = fmt.Fprintln(r.log, c)
		if r.logErr != nil {
			pix.Logger().Warn("recording: log write failed", slog.Any("err", r.logErr))
		}
	}
}

// SetTarget implements pix.Device.
func (r *Recorder) SetTarget(t pix.Target, viewport, clip geom.Rect) {
	r.record(Command{Type: CmdSetTarget, Target: t, Viewport: viewport, Clip: clip})
	if r.dev != nil {
		r.dev.SetTarget(t, viewport, clip)
	}
}

// SetPipeline implements pix.Device.
func (r *Recorder) SetPipeline(state pix.PipelineState) {
	r.record(Command{Type: CmdSetPipeline, State: state})
	if r.dev != nil {
		r.dev.SetPipeline(state)
	}
}

// BindTexture implements pix.Device.
func (r *Recorder) BindTexture(tex pix.Texture) {
	r.record(Command{Type: CmdBindTexture, Texture: tex})
	if r.dev != nil {
		r.dev.BindTexture(tex)
	}
}

// Submit implements pix.Device.
func (r *Recorder) Submit(vertices []float32, p pix.Primitive, layout pix.VertexLayout) error {
	var err error
	if r.dev != nil {
		err = r.dev.Submit(vertices, p, layout)
	}
	r.record(Command{
		Type:      CmdSubmit,
		Primitive: p,
		Layout:    layout,
		Vertices:  slices.Clone(vertices),
		Err:       err,
	})
	return err
}

// SubmitIndexed implements pix.Device.
func (r *Recorder) SubmitIndexed(vertices []float32, indices []uint32, f gputypes.IndexFormat, p pix.Primitive, layout pix.VertexLayout) error {
	var err error
	if r.dev != nil {
		err = r.dev.SubmitIndexed(vertices, indices, f, p, layout)
	}
	r.record(Command{
		Type:        CmdSubmitIndexed,
		Primitive:   p,
		Layout:      layout,
		Vertices:    slices.Clone(vertices),
		Indices:     slices.Clone(indices),
		IndexFormat: f,
		Err:         err,
	})
	return err
}

// Clear implements pix.Device.
func (r *Recorder) Clear(t pix.Target, c pix.RGBA) error {
	var err error
	if r.dev != nil {
		err = r.dev.Clear(t, c)
	}
	r.record(Command{Type: CmdClear, Target: t, Color: c, Err: err})
	return err
}

// ReadPixels implements pix.Device.
func (r *Recorder) ReadPixels(t pix.Target, rect geom.Rect, dst []uint32) error {
	var err error
	if r.dev != nil {
		err = r.dev.ReadPixels(t, rect, dst)
	}
	r.record(Command{Type: CmdReadPixels, Target: t, Rect: rect, Err: err})
	return err
}

// NewTextureFromRGBA implements gpucontext.TextureCreator.
func (r *Recorder) NewTextureFromRGBA(width, height int, data []byte) (pix.Texture, error) {
	if r.dev == nil {
		err := fmt.Errorf("recording: new %dx%d texture: %w", width, height, pix.ErrNoDevice)
		r.record(Command{Type: CmdNewTexture, Err: err})
		return nil, err
	}
	tex, err := r.dev.NewTextureFromRGBA(width, height, data)
	r.record(Command{Type: CmdNewTexture, Texture: tex, Err: err})
	return tex, err
}

// Commands returns the commands recorded so far.
func (r *Recorder) Commands() []Command { return r.commands }

// Len returns the number of recorded commands.
func (r *Recorder) Len() int { return len(r.commands) }

// Count returns the number of recorded commands of type t.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Reset drops the recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Finish returns the commands recorded so far as a Recording and starts a
// new one.
func (r *Recorder) Finish() *Recording {
	rec := &Recording{commands: r.commands}
	r.commands = make([]Command, 0, 64)
	return rec
}

// WriteTo writes one line per recorded command to w.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	return writeCommands(w, r.commands)
}

// Close closes the log file of a file recorder. It does not close the
// wrapped device.
func (r *Recorder) Close() error {
	if r.closer == nil {
		return r.logErr
	}
	err := r.closer.Close()
	r.closer, r.log = nil, nil
	if r.logErr != nil {
		return r.logErr
	}
	return err
}

// Recording is a finished list of commands.
type Recording struct {
	commands []Command
}

// Commands returns the recorded commands.
func (rec *Recording) Commands() []Command { return rec.commands }

// WriteTo writes one line per command to w.
func (rec *Recording) WriteTo(w io.Writer) (int64, error) {
	return writeCommands(w, rec.commands)
}

// Playback replays the state changes and draws of the recording on dev.
// Read-backs and texture creation are skipped. Playback stops at the first
// draw error.
func (rec *Recording) Playback(dev pix.Device) error {
	for i, c := range rec.commands {
		var err error
		switch c.Type {
		case CmdSetTarget:
			dev.SetTarget(c.Target, c.Viewport, c.Clip)
		case CmdSetPipeline:
			dev.SetPipeline(c.State)
		case CmdBindTexture:
			dev.BindTexture(c.Texture)
		case CmdSubmit:
			err = dev.Submit(c.Vertices, c.Primitive, c.Layout)
		case CmdSubmitIndexed:
			err = dev.SubmitIndexed(c.Vertices, c.Indices, c.IndexFormat, c.Primitive, c.Layout)
		case CmdClear:
			err = dev.Clear(c.Target, c.Color)
		}
		if err != nil {
			return fmt.Errorf("recording: playback command %d (%s): %w", i, c.Type, err)
		}
	}
	return nil
}

func writeCommands(w io.Writer, commands []Command) (int64, error) {
	var total int64
	for _, c := range commands {
		n, err := fmt.Fprintln(w, c)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

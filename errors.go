package pix

import "errors"

var (
	// ErrClosed is returned when drawing on a closed Surface.
	ErrClosed = errors.New("pix: surface is closed")

	// ErrNoDevice is returned when a Surface is created without a Device.
	ErrNoDevice = errors.New("pix: no device")
)

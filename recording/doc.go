// Package recording captures the calls a pix.Surface makes on its Device.
//
// A [Recorder] wraps a device and forwards every call after appending a
// [Command] describing it. Commands keep copies of their vertex and index
// data, so the finished [Recording] can be inspected in tests, written out
// as a text log or replayed on another device.
//
//	rec := recording.NewRecorder(software.New(640, 480))
//	s, _ := pix.NewScreen(rec, wp)
//	s.FilledCircle(geom.V(320, 240), 100)
//	fmt.Println(rec.Count(recording.CmdSubmit)) // 1
//
// [NewFileRecorder] additionally writes one log line per call as it
// happens.
package recording

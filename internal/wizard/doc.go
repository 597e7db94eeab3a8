// Package wizard implements the four-step video creation flow: product
// details, avatar selection, script authoring, and generation. Forward
// navigation is gated and validated locally before any request is sent;
// backward navigation is always allowed. The flow is safe for concurrent use
// and rejects overlapping side-effecting transitions.
package wizard

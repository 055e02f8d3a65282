package source

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrExhausted means the source has no more frames. It terminates the
// capture loop cleanly and is not a failure.
var ErrExhausted = errors.New("frame source exhausted")

// ErrRead is a transient per-frame read failure. The capture loop counts
// it and moves on.
var ErrRead = errors.New("frame read failed")

// IService yields frames on demand.
//
// The Mat returned by Next is owned by the source and remains valid only
// until the next call to Next or Close. Callers must Clone before handing
// the frame to anything that outlives the current loop iteration and must
// never Close it.
type IService interface {
	Open() error
	Next() (gocv.Mat, error)
	Name() string
	Close() error
}

package storage

import "gocv.io/x/gocv"

// IService persists alert snapshots.
type IService interface {
	// StoreSnapshot writes the image and returns its location.
	StoreSnapshot(prefix string, img gocv.Mat) (string, error)
}

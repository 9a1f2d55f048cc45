// Package upload publishes extracted map images to an external asset
// host. The extraction core only depends on the Uploader interface so
// tests can substitute a fake without network access.
package upload

import "context"

// Request carries one image destined for the asset host.
type Request struct {
	Data     []byte
	Format   string
	Folder   string
	PublicID string
}

// Result is the asset host's reference to a stored image.
type Result struct {
	SecureURL string
	PublicID  string
	Format    string
	Width     int
	Height    int
	Bytes     int
}

// Uploader stores map images on an external asset host. Upload blocks
// for the duration of the network call; it has no built-in retry.
type Uploader interface {
	Upload(ctx context.Context, req Request) (*Result, error)
}

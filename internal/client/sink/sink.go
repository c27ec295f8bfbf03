// Package sink stores downloaded file payloads. A Sink is the "save" step of
// a download: the local directory by default, or an S3-compatible bucket.
package sink

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that reduce to nothing usable.
var ErrInvalidName = errors.New("invalid file name")

// Sink persists a payload under name and reports where it went.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// CleanName keeps only the last path element so a server-supplied name can
// never escape the target location. Names that reduce to nothing usable
// yield ErrInvalidName.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(filepath.Clean("/" + name))
	switch base {
	case "", ".", "..", "/":
		return "", ErrInvalidName
	}
	return base, nil
}

// Package media wraps the external object storage the platform keeps
// avatars, cover images and thumbnails in. The backend only ever needs
// "store this file, give me a URL".
package media

import (
	"context"
	"io"
)

type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

package billing

import (
	"context"
	"time"
)

// ProofStorage stores uploaded transfer proofs attached to payments. The
// storage key is opaque to callers; implementations decide the layout.
type ProofStorage interface {
	// Upload writes the proof file under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DownloadURL returns a URL for retrieving a stored proof, and when
	// that URL stops working
	DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// Exists reports whether a proof is stored under the key
	Exists(ctx context.Context, storageKey string) (bool, error)

	// Delete removes a stored proof
	Delete(ctx context.Context, storageKey string) error
}

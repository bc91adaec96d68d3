package knowledge

import "context"

// Repository defines the interface for knowledge document persistence.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id string) (*Document, error)
	// List returns all documents, newest upload first.
	List(ctx context.Context) ([]*Document, error)
	// ListActive returns up to limit active documents, newest upload first.
	ListActive(ctx context.Context, limit int) ([]*Document, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// ObjectStore archives the raw bytes of uploaded files.
type ObjectStore interface {
	Enabled() bool
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

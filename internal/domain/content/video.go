package content

import "context"

// Video is the catalog metadata used as summarization input.
type Video struct {
	ID          string
	Title       string
	Description string
}

// VideoCatalog resolves a video identifier to its metadata.
type VideoCatalog interface {
	Lookup(ctx context.Context, id string) (Video, error)
}

package acf

import "context"

// Service defines the main interface for reading ACF fields
type Service interface {
	// GetPost returns the post with the given ID
	GetPost(ctx context.Context, postID int64) (*Post, error)

	// GetField decodes a field using the field definition bound to it
	GetField(ctx context.Context, postID int64, name string) (interface{}, error)

	// GetFieldAs decodes a field as the given type, ignoring any bound definition
	GetFieldAs(ctx context.Context, postID int64, name string, fieldType FieldType) (interface{}, error)

	// GetFlexibleContent decodes a flexible content field into ordered blocks
	GetFlexibleContent(ctx context.Context, postID int64, name string) ([]Block, error)

	// GetImage decodes an image field
	GetImage(ctx context.Context, postID int64, name string) (*Image, error)

	// GetImageSize decodes an image field and resolves one of its size variants
	GetImageSize(ctx context.Context, postID int64, name, size string, useOriginalFallback bool) (*Image, error)
}

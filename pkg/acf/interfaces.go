package acf

import "context"

// Repository defines read access to posts and post meta.
type Repository interface {
	// GetPost returns the post with the given ID or ErrPostNotFound.
	GetPost(ctx context.Context, id int64) (*Post, error)

	// GetPostsByIDs returns the posts that exist among ids. Missing ids are skipped.
	GetPostsByIDs(ctx context.Context, ids []int64) ([]*Post, error)

	// GetPostByName returns the post of postType whose slug is name, or ErrPostNotFound.
	GetPostByName(ctx context.Context, postType, name string) (*Post, error)

	// GetMeta returns the first meta row for key on the post, or ErrMetaNotFound.
	GetMeta(ctx context.Context, postID int64, key string) (*Meta, error)

	// ListMetaByPrefix returns the post's meta rows whose key starts with prefix
	// followed by an underscore. The prefix is matched literally.
	ListMetaByPrefix(ctx context.Context, postID int64, prefix string) ([]*Meta, error)

	// ListMetaForPosts returns the meta rows for key across all postIDs.
	ListMetaForPosts(ctx context.Context, postIDs []int64, key string) ([]*Meta, error)
}

// Field decodes the stored value of one ACF field.
type Field interface {
	// Process loads and decodes the field stored under the meta key name.
	Process(ctx context.Context, name string) error

	// Get returns the decoded value.
	Get() interface{}
}

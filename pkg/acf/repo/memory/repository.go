package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tendant/simple-acf/pkg/acf"
)

// Repository implements acf.Repository using in-memory storage
type Repository struct {
	mu         sync.RWMutex
	posts      map[int64]*acf.Post
	meta       map[int64][]*acf.Meta // post_id -> rows in insertion order
	nextPostID int64
	nextMetaID int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		posts: make(map[int64]*acf.Post),
		meta:  make(map[int64][]*acf.Meta),
	}
}

// Post operations

// CreatePost stores a copy of post. A zero ID is replaced by the next free ID,
// which is written back to post.
func (r *Repository) CreatePost(ctx context.Context, post *acf.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == 0 {
		r.nextPostID++
		for r.posts[r.nextPostID] != nil {
			r.nextPostID++
		}
		post.ID = r.nextPostID
	} else if post.ID > r.nextPostID {
		r.nextPostID = post.ID
	}

	// Create a copy to avoid external modifications
	postCopy := *post
	r.posts[post.ID] = &postCopy
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id int64) (*acf.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, acf.ErrPostNotFound
	}
	// Return a copy to prevent external modifications
	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) GetPostsByIDs(ctx context.Context, ids []int64) ([]*acf.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*acf.Post
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		post, exists := r.posts[id]
		if !exists || seen[id] {
			continue
		}
		seen[id] = true
		postCopy := *post
		result = append(result, &postCopy)
	}
	return result, nil
}

func (r *Repository) GetPostByName(ctx context.Context, postType, name string) (*acf.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *acf.Post
	for _, post := range r.posts {
		if post.Type != postType || post.Name != name {
			continue
		}
		if found == nil || post.ID < found.ID {
			found = post
		}
	}
	if found == nil {
		return nil, acf.ErrPostNotFound
	}
	postCopy := *found
	return &postCopy, nil
}

// Meta operations

// AddMeta appends a meta row, allowing duplicate keys like add_post_meta.
func (r *Repository) AddMeta(ctx context.Context, postID int64, key, value string) (*acf.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextMetaID++
	meta := &acf.Meta{ID: r.nextMetaID, PostID: postID, Key: key, Value: value}
	r.meta[postID] = append(r.meta[postID], meta)

	metaCopy := *meta
	return &metaCopy, nil
}

// SetMeta updates every row for key on the post, or adds one when none exists.
func (r *Repository) SetMeta(ctx context.Context, postID int64, key, value string) error {
	r.mu.Lock()
	updated := false
	for _, meta := range r.meta[postID] {
		if meta.Key == key {
			meta.Value = value
			updated = true
		}
	}
	r.mu.Unlock()

	if updated {
		return nil
	}
	_, err := r.AddMeta(ctx, postID, key, value)
	return err
}

func (r *Repository) GetMeta(ctx context.Context, postID int64, key string) (*acf.Meta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, meta := range r.meta[postID] {
		if meta.Key == key {
			metaCopy := *meta
			return &metaCopy, nil
		}
	}
	return nil, acf.ErrMetaNotFound
}

func (r *Repository) ListMetaByPrefix(ctx context.Context, postID int64, prefix string) ([]*acf.Meta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*acf.Meta
	for _, meta := range r.meta[postID] {
		if strings.HasPrefix(meta.Key, prefix+"_") {
			metaCopy := *meta
			result = append(result, &metaCopy)
		}
	}
	return result, nil
}

func (r *Repository) ListMetaForPosts(ctx context.Context, postIDs []int64, key string) ([]*acf.Meta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*acf.Meta
	seen := make(map[int64]bool, len(postIDs))
	for _, postID := range postIDs {
		if seen[postID] {
			continue
		}
		seen[postID] = true
		for _, meta := range r.meta[postID] {
			if meta.Key == key {
				metaCopy := *meta
				result = append(result, &metaCopy)
			}
		}
	}

	// Sort by meta ID like the storage order of a table scan
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

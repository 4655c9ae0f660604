package acf

import (
	"context"
	"errors"
	"fmt"
)

// PostObject decodes a post_object field. A single ID decodes to *Post and a
// serialized list of IDs to []*Post; missing posts are left out.
type PostObject struct {
	basicField
	value interface{}
}

func newPostObject(factory *FieldFactory, post *Post) Field {
	return &PostObject{basicField: basicField{factory: factory, post: post}}
}

func (f *PostObject) Process(ctx context.Context, name string) error {
	f.name = name
	value, ok, err := f.fetchValue(ctx, name)
	if err != nil || !ok {
		return err
	}

	if isSerializedArray(value) {
		return f.processMultiple(ctx, name, value)
	}

	id, ok := parseID(value)
	if !ok {
		return nil
	}
	post, err := f.repo().GetPost(ctx, id)
	if errors.Is(err, ErrPostNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load post object %d: %w", id, err)
	}
	f.value = post
	return nil
}

func (f *PostObject) processMultiple(ctx context.Context, name, value string) error {
	arr, err := unserializeArray(value)
	if err != nil {
		f.factory.logger.Debug("post object list is not decodable", "post_id", f.post.ID, "key", name, "err", err)
		return nil
	}
	var ids []int64
	for _, iv := range indexedValues(arr) {
		if id, ok := parseID(iv.value); ok {
			ids = append(ids, id)
		}
	}
	posts, err := f.repo().GetPostsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load post objects for %s: %w", name, err)
	}
	byID := make(map[int64]*Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	f.value = ordered
	return nil
}

func (f *PostObject) Get() interface{} {
	return f.value
}

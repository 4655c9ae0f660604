package acf

import (
	"context"
	"fmt"
)

// Gallery decodes a gallery field: a serialized array of attachment IDs.
type Gallery struct {
	basicField
	images []*Image
}

func newGallery(factory *FieldFactory, post *Post) Field {
	return &Gallery{basicField: basicField{factory: factory, post: post}}
}

func (f *Gallery) Process(ctx context.Context, name string) error {
	f.name = name
	f.images = []*Image{}

	value, ok, err := f.fetchValue(ctx, name)
	if err != nil || !ok {
		return err
	}
	arr, err := unserializeArray(value)
	if err != nil {
		f.factory.logger.Debug("gallery value is not decodable", "post_id", f.post.ID, "key", name, "err", err)
		return nil
	}

	var ids []int64
	for _, iv := range indexedValues(arr) {
		if id, ok := parseID(iv.value); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	attachments, err := f.repo().GetPostsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load gallery attachments for %s: %w", name, err)
	}
	byID := make(map[int64]*Post, len(attachments))
	for _, a := range attachments {
		byID[a.ID] = a
	}

	loader := &Image{basicField: f.basicField}
	metadata, err := loader.FetchMultipleMetadata(ctx, attachments)
	if err != nil {
		return err
	}

	for _, id := range ids {
		attachment, ok := byID[id]
		if !ok {
			continue
		}
		image := &Image{basicField: basicField{factory: f.factory, post: f.post, name: name}}
		if err := image.fillFields(ctx, attachment); err != nil {
			return err
		}
		image.fillMetadataFields(metadata[id])
		f.images = append(f.images, image)
	}
	return nil
}

// Get returns the decoded []*Image in stored order.
func (f *Gallery) Get() interface{} {
	return f.images
}

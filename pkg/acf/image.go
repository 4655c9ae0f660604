package acf

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Image decodes an image field holding an attachment ID.
//
// When the attachment does not exist the image stays empty and Process does
// not fail. Width and Height are nil when the attachment metadata omits them.
type Image struct {
	basicField

	AttachmentID int64                `json:"attachment_id"`
	Width        *int                 `json:"width"`
	Height       *int                 `json:"height"`
	Filename     string               `json:"filename"`
	Description  string               `json:"description"`
	URL          string               `json:"url"`
	MimeType     string               `json:"mime_type"`
	Sizes        map[string]ImageSize `json:"sizes"`
}

func newImage(factory *FieldFactory, post *Post) Field {
	return &Image{basicField: basicField{factory: factory, post: post}}
}

func (f *Image) Process(ctx context.Context, name string) error {
	f.name = name
	value, ok, err := f.fetchValue(ctx, name)
	if err != nil || !ok {
		return err
	}

	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}

	attachment, err := f.repo().GetPost(ctx, id)
	if errors.Is(err, ErrPostNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load attachment %d: %w", id, err)
	}

	if err := f.fillFields(ctx, attachment); err != nil {
		return err
	}
	metadata, err := f.fetchMetadataValue(ctx, attachment)
	if err != nil {
		return err
	}
	f.fillMetadataFields(metadata)
	return nil
}

// Get returns the image itself.
func (f *Image) Get() interface{} {
	return f
}

// Size returns the named size variant as a separate image whose URL sits next
// to the original. An unknown size yields the original when
// useOriginalFallback is set, and the thumbnail variant otherwise.
func (f *Image) Size(size string, useOriginalFallback bool) *Image {
	if variant, ok := f.Sizes[size]; ok {
		return f.fillThumbnailFields(variant)
	}
	if useOriginalFallback {
		return f
	}
	return f.fillThumbnailFields(f.Sizes[DefaultImageSize])
}

func (f *Image) fillThumbnailFields(variant ImageSize) *Image {
	return &Image{
		basicField:   basicField{factory: f.factory, post: f.post, name: f.name},
		AttachmentID: f.AttachmentID,
		Filename:     variant.File,
		Width:        variant.Width,
		Height:       variant.Height,
		MimeType:     variant.MimeType,
		URL:          urlDir(f.URL) + "/" + variant.File,
		Sizes:        map[string]ImageSize{},
	}
}

func (f *Image) fillFields(ctx context.Context, attachment *Post) error {
	url, err := f.factory.attachmentURL(ctx, attachment.GUID)
	if err != nil {
		return fmt.Errorf("attachment url for %d: %w", attachment.ID, err)
	}
	f.AttachmentID = attachment.ID
	f.MimeType = attachment.MimeType
	f.URL = url
	f.Description = attachment.Excerpt
	return nil
}

func (f *Image) fillMetadataFields(metadata *AttachmentMetadata) {
	f.Filename = ""
	if metadata.File != "" {
		f.Filename = path.Base(metadata.File)
	}
	f.Width = metadata.Width
	f.Height = metadata.Height
	f.Sizes = metadata.Sizes
	if f.Sizes == nil {
		f.Sizes = map[string]ImageSize{}
	}
}

// fetchMetadataValue loads the attachment metadata blob. A missing blob
// decodes as empty metadata.
func (f *Image) fetchMetadataValue(ctx context.Context, attachment *Post) (*AttachmentMetadata, error) {
	meta, err := f.repo().GetMeta(ctx, attachment.ID, AttachmentMetadataKey)
	if errors.Is(err, ErrMetaNotFound) {
		return &AttachmentMetadata{Sizes: map[string]ImageSize{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for attachment %d: %w", attachment.ID, err)
	}
	return f.decodeMetadata(attachment.ID, meta.Value), nil
}

// FetchMultipleMetadata loads and decodes the metadata of every attachment in
// one query. Attachments without a metadata blob map to empty metadata.
func (f *Image) FetchMultipleMetadata(ctx context.Context, attachments []*Post) (map[int64]*AttachmentMetadata, error) {
	result := make(map[int64]*AttachmentMetadata, len(attachments))
	if len(attachments) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(attachments))
	for _, a := range attachments {
		ids = append(ids, a.ID)
		result[a.ID] = &AttachmentMetadata{Sizes: map[string]ImageSize{}}
	}

	metas, err := f.repo().ListMetaForPosts(ctx, ids, AttachmentMetadataKey)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for %d attachments: %w", len(ids), err)
	}
	for _, meta := range metas {
		if _, ok := result[meta.PostID]; !ok {
			continue
		}
		result[meta.PostID] = f.decodeMetadata(meta.PostID, meta.Value)
	}
	return result, nil
}

func (f *Image) decodeMetadata(attachmentID int64, value string) *AttachmentMetadata {
	metadata, err := DecodeAttachmentMetadata(value)
	if err != nil {
		f.factory.logger.Warn("attachment metadata is not decodable", "attachment_id", attachmentID, "err", err)
		return &AttachmentMetadata{Sizes: map[string]ImageSize{}}
	}
	return metadata
}

// DecodeAttachmentMetadata decodes a serialized _wp_attachment_metadata value.
func DecodeAttachmentMetadata(value string) (*AttachmentMetadata, error) {
	arr, err := unserializeArray(value)
	if err != nil {
		return nil, err
	}

	metadata := &AttachmentMetadata{Sizes: map[string]ImageSize{}}
	if v, ok := lookup(arr, "file"); ok {
		metadata.File = toString(v)
	}
	if v, ok := lookup(arr, "width"); ok {
		metadata.Width = toIntPtr(v)
	}
	if v, ok := lookup(arr, "height"); ok {
		metadata.Height = toIntPtr(v)
	}

	raw, ok := lookup(arr, "sizes")
	if !ok {
		return metadata, nil
	}
	sizes, ok := toMap(raw)
	if !ok {
		return metadata, nil
	}
	for k, v := range sizes {
		entry, ok := toMap(v)
		if !ok {
			continue
		}
		var size ImageSize
		if file, ok := lookup(entry, "file"); ok {
			size.File = toString(file)
		}
		if w, ok := lookup(entry, "width"); ok {
			size.Width = toIntPtr(w)
		}
		if h, ok := lookup(entry, "height"); ok {
			size.Height = toIntPtr(h)
		}
		if mt, ok := lookup(entry, "mime-type"); ok {
			size.MimeType = toString(mt)
		}
		metadata.Sizes[toString(k)] = size
	}
	return metadata, nil
}

// urlDir returns everything before the last slash of u.
func urlDir(u string) string {
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return ""
	}
	return u[:i]
}

package acftest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-acf/pkg/acf"
	"github.com/tendant/simple-acf/pkg/acf/repo/memory"
)

// Fixture seeds an in-memory repository with posts and ACF meta rows.
type Fixture struct {
	Repo *memory.Repository
	t    testing.TB
}

// New creates a fixture backed by a fresh in-memory repository.
func New(t testing.TB) *Fixture {
	return &Fixture{Repo: memory.New(), t: t}
}

// Post creates a post of postType.
func (f *Fixture) Post(postType, title string) *acf.Post {
	f.t.Helper()
	post := &acf.Post{Type: postType, Title: title, Status: "publish"}
	require.NoError(f.t, f.Repo.CreatePost(context.Background(), post))
	return post
}

// Attachment creates an attachment post.
func (f *Fixture) Attachment(guid, mimeType, excerpt string) *acf.Post {
	f.t.Helper()
	post := &acf.Post{
		Type:     acf.PostTypeAttachment,
		Status:   "inherit",
		GUID:     guid,
		MimeType: mimeType,
		Excerpt:  excerpt,
	}
	require.NoError(f.t, f.Repo.CreatePost(context.Background(), post))
	return post
}

// Meta adds a raw meta row.
func (f *Fixture) Meta(postID int64, key, value string) {
	f.t.Helper()
	_, err := f.Repo.AddMeta(context.Background(), postID, key, value)
	require.NoError(f.t, err)
}

// FieldDefinition creates the acf-field post for fieldKey.
func (f *Fixture) FieldDefinition(fieldKey string, fieldType acf.FieldType) *acf.Post {
	f.t.Helper()
	post := &acf.Post{
		Type:    acf.PostTypeFieldDefinition,
		Name:    fieldKey,
		Content: Serialize(Assoc("type", string(fieldType), "required", 0)),
	}
	require.NoError(f.t, f.Repo.CreatePost(context.Background(), post))
	return post
}

// Field stores value under metaKey and binds it to a field definition of
// fieldType, the way ACF saves a field.
func (f *Fixture) Field(postID int64, metaKey, value string, fieldType acf.FieldType) {
	f.t.Helper()
	fieldKey := "field_" + metaKey
	if _, err := f.Repo.GetPostByName(context.Background(), acf.PostTypeFieldDefinition, fieldKey); err != nil {
		f.FieldDefinition(fieldKey, fieldType)
	}
	f.Meta(postID, metaKey, value)
	f.Meta(postID, "_"+metaKey, fieldKey)
}

// Size describes one generated image size for AttachmentMetadata.
type Size struct {
	Name     string
	File     string
	Width    int
	Height   int
	MimeType string
}

// AttachmentMetadata stores a _wp_attachment_metadata blob for the attachment.
func (f *Fixture) AttachmentMetadata(attachmentID int64, file string, width, height int, sizes ...Size) {
	f.t.Helper()
	sizeArr := Array{}
	for _, s := range sizes {
		sizeArr = append(sizeArr, KV{Key: s.Name, Value: Assoc(
			"file", s.File,
			"width", s.Width,
			"height", s.Height,
			"mime-type", s.MimeType,
		)})
	}
	f.Meta(attachmentID, acf.AttachmentMetadataKey, Serialize(Assoc(
		"width", width,
		"height", height,
		"file", file,
		"sizes", sizeArr,
	)))
}

package acf

// FieldType is the ACF field type tag that selects a decoder.
type FieldType string

// Field type tags understood by the default FieldFactory.
const (
	FieldTypeText            FieldType = "text"
	FieldTypeTextarea        FieldType = "textarea"
	FieldTypeWysiwyg         FieldType = "wysiwyg"
	FieldTypeEmail           FieldType = "email"
	FieldTypeURL             FieldType = "url"
	FieldTypeNumber          FieldType = "number"
	FieldTypePassword        FieldType = "password"
	FieldTypeSelect          FieldType = "select"
	FieldTypeCheckbox        FieldType = "checkbox"
	FieldTypeRadio           FieldType = "radio"
	FieldTypeBoolean         FieldType = "boolean"
	FieldTypeTrueFalse       FieldType = "true_false"
	FieldTypeImage           FieldType = "image"
	FieldTypeGallery         FieldType = "gallery"
	FieldTypeRepeater        FieldType = "repeater"
	FieldTypePostObject      FieldType = "post_object"
	FieldTypeFlexibleContent FieldType = "flexible_content"
)

const (
	// PostTypeAttachment is the post type of media library items.
	PostTypeAttachment = "attachment"

	// PostTypeFieldDefinition is the post type ACF uses to store field settings.
	PostTypeFieldDefinition = "acf-field"

	// AttachmentMetadataKey is the reserved meta key holding serialized image metadata.
	AttachmentMetadataKey = "_wp_attachment_metadata"

	// DefaultImageSize is the variant returned by Image.Size when the requested
	// size does not exist and no original fallback was asked for.
	DefaultImageSize = "thumbnail"
)

// Post is a row of the posts table. It is used for owning records,
// attachments and ACF field definitions alike.
type Post struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Status   string `json:"status,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	GUID     string `json:"guid,omitempty"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// Meta is a single post meta row.
type Meta struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// Block is one decoded flexible content block.
type Block struct {
	Index  int                    `json:"index"`
	Type   string                 `json:"type"`
	Fields map[string]interface{} `json:"fields"`
}

// ImageSize is a generated size variant of an image attachment.
type ImageSize struct {
	File     string `json:"file"`
	Width    *int   `json:"width"`
	Height   *int   `json:"height"`
	MimeType string `json:"mime_type"`
}

// AttachmentMetadata is the decoded form of the _wp_attachment_metadata blob.
// Width and Height are nil when the blob does not carry them.
type AttachmentMetadata struct {
	File   string               `json:"file"`
	Width  *int                 `json:"width"`
	Height *int                 `json:"height"`
	Sizes  map[string]ImageSize `json:"sizes"`
}

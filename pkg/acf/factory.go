package acf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-acf/pkg/acf/urlstrategy"
)

// Constructor builds an unprocessed decoder bound to post.
type Constructor func(factory *FieldFactory, post *Post) Field

// FieldFactory resolves meta keys to field decoders.
type FieldFactory struct {
	repo         Repository
	urls         urlstrategy.Strategy
	logger       *slog.Logger
	constructors map[FieldType]Constructor
}

// FactoryOption configures a FieldFactory.
type FactoryOption func(*FieldFactory)

// WithFactoryLogger sets the logger used for decode traces.
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(f *FieldFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFactoryURLStrategy sets how attachment URLs are derived from their GUID.
func WithFactoryURLStrategy(strategy urlstrategy.Strategy) FactoryOption {
	return func(f *FieldFactory) {
		if strategy != nil {
			f.urls = strategy
		}
	}
}

// NewFieldFactory creates a factory with the default decoder set registered.
func NewFieldFactory(repo Repository, opts ...FactoryOption) *FieldFactory {
	f := &FieldFactory{
		repo:         repo,
		urls:         urlstrategy.NewDefaultStrategy(),
		logger:       slog.Default(),
		constructors: make(map[FieldType]Constructor),
	}
	for _, opt := range opts {
		opt(f)
	}

	for _, t := range []FieldType{
		FieldTypeText, FieldTypeTextarea, FieldTypeWysiwyg, FieldTypeEmail,
		FieldTypeURL, FieldTypeNumber, FieldTypePassword,
	} {
		f.Register(t, newText)
	}
	for _, t := range []FieldType{FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio} {
		f.Register(t, newSelect)
	}
	f.Register(FieldTypeBoolean, newBoolean)
	f.Register(FieldTypeTrueFalse, newBoolean)
	f.Register(FieldTypeImage, newImage)
	f.Register(FieldTypeGallery, newGallery)
	f.Register(FieldTypeRepeater, newRepeater)
	f.Register(FieldTypePostObject, newPostObject)
	f.Register(FieldTypeFlexibleContent, newFlexibleContent)

	return f
}

// Register binds a field type to a decoder constructor, replacing any existing one.
func (f *FieldFactory) Register(fieldType FieldType, constructor Constructor) {
	f.constructors[fieldType] = constructor
}

// FieldType returns the type recorded in the field definition bound to the
// meta key name on post, or "" when the key has no definition.
func (f *FieldFactory) FieldType(ctx context.Context, name string, post *Post) (FieldType, error) {
	ref, err := f.repo.GetMeta(ctx, post.ID, "_"+name)
	if errors.Is(err, ErrMetaNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch field reference for %s: %w", name, err)
	}

	def, err := f.repo.GetPostByName(ctx, PostTypeFieldDefinition, ref.Value)
	if errors.Is(err, ErrPostNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch field definition %s: %w", ref.Value, err)
	}

	settings, err := unserializeArray(def.Content)
	if err != nil {
		f.logger.Debug("field definition is not decodable", "field_key", ref.Value, "err", err)
		return "", nil
	}
	v, ok := lookup(settings, "type")
	if !ok {
		return "", nil
	}
	return FieldType(toString(v)), nil
}

// Make returns a processed decoder for the meta key name using the field
// definition bound to it. It returns nil without error when no definition
// exists or its type has no registered decoder.
func (f *FieldFactory) Make(ctx context.Context, name string, post *Post) (Field, error) {
	fieldType, err := f.FieldType(ctx, name, post)
	if err != nil {
		return nil, err
	}
	if fieldType == "" {
		return nil, nil
	}
	return f.MakeWithType(ctx, name, post, fieldType)
}

// MakeWithType returns a processed decoder of the given type for the meta key
// name. It returns nil without error when the type has no registered decoder.
func (f *FieldFactory) MakeWithType(ctx context.Context, name string, post *Post, fieldType FieldType) (Field, error) {
	constructor, ok := f.constructors[fieldType]
	if !ok {
		f.logger.Debug("no decoder for field type", "post_id", post.ID, "key", name, "type", fieldType)
		return nil, nil
	}
	field := constructor(f, post)
	if err := field.Process(ctx, name); err != nil {
		return nil, err
	}
	return field, nil
}

func (f *FieldFactory) attachmentURL(ctx context.Context, guid string) (string, error) {
	return f.urls.AttachmentURL(ctx, guid)
}

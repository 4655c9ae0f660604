package acf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// basicField carries the owning post and the factory shared by every decoder.
type basicField struct {
	factory *FieldFactory
	post    *Post
	name    string
}

func (f *basicField) repo() Repository {
	return f.factory.repo
}

// fetchValue returns the raw meta value stored under name on the owning post.
func (f *basicField) fetchValue(ctx context.Context, name string) (string, bool, error) {
	meta, err := f.repo().GetMeta(ctx, f.post.ID, name)
	if errors.Is(err, ErrMetaNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetch meta %s for post %d: %w", name, f.post.ID, err)
	}
	return meta.Value, true, nil
}

// listRows returns the repeatable rows stored under name, sorted by key.
func (f *basicField) listRows(ctx context.Context, name string) ([]*Meta, error) {
	rows, err := f.repo().ListMetaByPrefix(ctx, f.post.ID, name)
	if err != nil {
		return nil, fmt.Errorf("list meta %s_* for post %d: %w", name, f.post.ID, err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	return rows, nil
}

// Text decodes text-like fields (text, textarea, wysiwyg, email, url, number, password).
type Text struct {
	basicField
	value string
}

func newText(factory *FieldFactory, post *Post) Field {
	return &Text{basicField: basicField{factory: factory, post: post}}
}

func (f *Text) Process(ctx context.Context, name string) error {
	f.name = name
	value, _, err := f.fetchValue(ctx, name)
	if err != nil {
		return err
	}
	f.value = value
	return nil
}

func (f *Text) Get() interface{} {
	return f.value
}

// Select decodes select, checkbox and radio fields. Multi-value selections are
// stored as a serialized array and decode to []string.
type Select struct {
	basicField
	value interface{}
}

func newSelect(factory *FieldFactory, post *Post) Field {
	return &Select{basicField: basicField{factory: factory, post: post}}
}

func (f *Select) Process(ctx context.Context, name string) error {
	f.name = name
	value, ok, err := f.fetchValue(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		f.value = ""
		return nil
	}
	if !isSerializedArray(value) {
		f.value = value
		return nil
	}
	arr, err := unserializeArray(value)
	if err != nil {
		f.factory.logger.Debug("select value is not decodable", "post_id", f.post.ID, "key", name, "err", err)
		f.value = value
		return nil
	}
	choices := make([]string, 0, len(arr))
	for _, iv := range indexedValues(arr) {
		choices = append(choices, toString(iv.value))
	}
	f.value = choices
	return nil
}

func (f *Select) Get() interface{} {
	return f.value
}

// Boolean decodes true_false fields.
type Boolean struct {
	basicField
	value bool
}

func newBoolean(factory *FieldFactory, post *Post) Field {
	return &Boolean{basicField: basicField{factory: factory, post: post}}
}

func (f *Boolean) Process(ctx context.Context, name string) error {
	f.name = name
	value, _, err := f.fetchValue(ctx, name)
	if err != nil {
		return err
	}
	f.value = strings.TrimSpace(value) == "1"
	return nil
}

func (f *Boolean) Get() interface{} {
	return f.value
}

package acf

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// FlexibleContent decodes a flexible content field into an ordered []Block.
//
// The field's own meta value holds the serialized layout name of each block.
// Subfield rows are stored as {name}_{index}_{subfield}; rows whose index has
// no layout are dropped, as are subfields whose type cannot be resolved.
type FlexibleContent struct {
	basicField
	blocks []Block
}

func newFlexibleContent(factory *FieldFactory, post *Post) Field {
	return &FlexibleContent{basicField: basicField{factory: factory, post: post}}
}

// Process decodes the blocks stored under name. A subfield key without a
// numeric block index fails the whole pass with a *KeyError, so another field
// named {name}_something on the same post makes the field undecodable. Give
// flexible content fields names that no other field starts with.
func (f *FlexibleContent) Process(ctx context.Context, name string) error {
	f.name = name

	layouts, err := f.fetchLayouts(ctx, name)
	if err != nil {
		return err
	}

	rows, err := f.listRows(ctx, name)
	if err != nil {
		return err
	}

	blocks := make(map[int]*Block)
	for _, row := range rows {
		index, subfield, err := parseIndexedKey(row.Key, name)
		if err != nil {
			return err
		}

		layout, ok := layouts[index]
		if !ok {
			f.discard(row, "block index has no layout")
			continue
		}

		owner, err := f.owner(ctx, row)
		if err != nil {
			return err
		}
		if owner == nil {
			f.discard(row, "owning post not found")
			continue
		}

		field, err := f.resolve(ctx, row.Key, subfield, layout, owner)
		if err != nil {
			return err
		}
		if field == nil {
			f.discard(row, "field type unresolved")
			continue
		}

		block, ok := blocks[index]
		if !ok {
			block = &Block{Index: index, Type: layout, Fields: make(map[string]interface{})}
			blocks[index] = block
		}
		block.Fields[subfield] = field.Get()
	}

	f.blocks = sortBlocks(blocks)
	return nil
}

// Get returns the decoded []Block.
func (f *FlexibleContent) Get() interface{} {
	return f.blocks
}

// Blocks returns the decoded blocks in ascending index order.
func (f *FlexibleContent) Blocks() []Block {
	return f.blocks
}

// fetchLayouts returns the layout name of each block index.
func (f *FlexibleContent) fetchLayouts(ctx context.Context, name string) (map[int]string, error) {
	layouts := make(map[int]string)
	value, ok, err := f.fetchValue(ctx, name)
	if err != nil || !ok {
		return layouts, err
	}
	arr, err := unserializeArray(value)
	if err != nil {
		f.factory.logger.Debug("layout list is not decodable", "post_id", f.post.ID, "key", name, "err", err)
		return layouts, nil
	}
	for _, iv := range indexedValues(arr) {
		layouts[iv.index] = toString(iv.value)
	}
	return layouts, nil
}

// owner returns the post the row belongs to, loading it when the row was
// stored against another post. It returns nil when that post is gone.
func (f *FlexibleContent) owner(ctx context.Context, row *Meta) (*Post, error) {
	if row.PostID == f.post.ID {
		return f.post, nil
	}
	post, err := f.repo().GetPost(ctx, row.PostID)
	if errors.Is(err, ErrPostNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load owner %d of %s: %w", row.PostID, row.Key, err)
	}
	return post, nil
}

// resolve finds a decoder for the row: the bound field definition first, then
// the subfield name table, then the layout table.
func (f *FlexibleContent) resolve(ctx context.Context, key, subfield, layout string, owner *Post) (Field, error) {
	field, err := f.factory.Make(ctx, key, owner)
	if err != nil || field != nil {
		return field, err
	}
	fieldType, ok := inferFieldType(subfield, layout)
	if !ok {
		return nil, nil
	}
	return f.factory.MakeWithType(ctx, key, owner, fieldType)
}

func (f *FlexibleContent) discard(row *Meta, reason string) {
	f.factory.logger.Debug("flexible content row discarded",
		"post_id", f.post.ID, "key", row.Key, "reason", reason)
}

func sortBlocks(blocks map[int]*Block) []Block {
	sorted := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		sorted = append(sorted, *b)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}

package acf

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// Repeater decodes a repeater field. The field's own meta value is the row
// count and each subfield is stored as {name}_{row}_{subfield}.
type Repeater struct {
	basicField
	rows []map[string]interface{}
}

func newRepeater(factory *FieldFactory, post *Post) Field {
	return &Repeater{basicField: basicField{factory: factory, post: post}}
}

func (f *Repeater) Process(ctx context.Context, name string) error {
	f.name = name
	f.rows = []map[string]interface{}{}

	value, ok, err := f.fetchValue(ctx, name)
	if err != nil || !ok {
		return err
	}
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || count <= 0 {
		return nil
	}

	metas, err := f.listRows(ctx, name)
	if err != nil {
		return err
	}

	// every stored row has at least one subfield, so a count beyond the
	// number of rows is corrupt
	count = min(count, len(metas))

	grouped := make(map[int]map[string]*Meta)
	maxIndex := -1
	for _, meta := range metas {
		index, subfield, err := parseIndexedKey(meta.Key, name)
		if err != nil {
			// sibling fields sharing the prefix, e.g. {name}_title
			continue
		}
		if index >= count {
			continue
		}
		if grouped[index] == nil {
			grouped[index] = make(map[string]*Meta)
		}
		grouped[index][subfield] = meta
		if index > maxIndex {
			maxIndex = index
		}
	}

	count = min(count, maxIndex+1)

	f.rows = make([]map[string]interface{}, count)
	for i := range f.rows {
		f.rows[i] = make(map[string]interface{})
		subfields := grouped[i]
		names := make([]string, 0, len(subfields))
		for n := range subfields {
			names = append(names, n)
		}
		sort.Strings(names)

		for _, subfield := range names {
			if nestedUnderSibling(subfield, subfields) {
				continue
			}
			field, err := f.factory.Make(ctx, subfields[subfield].Key, f.post)
			if err != nil {
				return err
			}
			if field == nil {
				continue
			}
			f.rows[i][subfield] = field.Get()
		}
	}
	return nil
}

// Get returns the decoded []map[string]interface{}, one map per row.
func (f *Repeater) Get() interface{} {
	return f.rows
}

// nestedUnderSibling reports whether subfield is a row of another repeatable
// subfield in the same row, e.g. items_0_title under items.
func nestedUnderSibling(subfield string, siblings map[string]*Meta) bool {
	for sibling := range siblings {
		rest, ok := strings.CutPrefix(subfield, sibling+"_")
		if !ok || sibling == subfield {
			continue
		}
		if digits, _, ok := strings.Cut(rest, "_"); ok && isDigits(digits) {
			return true
		}
	}
	return false
}

package acf_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-acf/pkg/acf"
	"github.com/tendant/simple-acf/pkg/acf/acftest"
)

func decodeAs(t *testing.T, fx *acftest.Fixture, post *acf.Post, name string, fieldType acf.FieldType) interface{} {
	t.Helper()
	field, err := acf.NewFieldFactory(fx.Repo).MakeWithType(context.Background(), name, post, fieldType)
	require.NoError(t, err)
	require.NotNil(t, field)
	return field.Get()
}

func id(p *acf.Post) string {
	return strconv.FormatInt(p.ID, 10)
}

func TestText(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "subtitle", "Hello world")

	assert.Equal(t, "Hello world", decodeAs(t, fx, post, "subtitle", acf.FieldTypeText))
	assert.Equal(t, "", decodeAs(t, fx, post, "missing", acf.FieldTypeWysiwyg))
}

func TestSelect(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "alignment", "left")
	fx.Meta(post.ID, "colors", acftest.Serialize([]string{"red", "blue"}))

	assert.Equal(t, "left", decodeAs(t, fx, post, "alignment", acf.FieldTypeSelect))
	assert.Equal(t, []string{"red", "blue"}, decodeAs(t, fx, post, "colors", acf.FieldTypeCheckbox))
	assert.Equal(t, "", decodeAs(t, fx, post, "missing", acf.FieldTypeSelect))
}

func TestBoolean(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "autoplay", "1")
	fx.Meta(post.ID, "loop", "0")

	assert.Equal(t, true, decodeAs(t, fx, post, "autoplay", acf.FieldTypeBoolean))
	assert.Equal(t, false, decodeAs(t, fx, post, "loop", acf.FieldTypeTrueFalse))
	assert.Equal(t, false, decodeAs(t, fx, post, "missing", acf.FieldTypeBoolean))
}

func TestPostObject(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	a := fx.Post("magazine", "Issue 1")
	b := fx.Post("magazine", "Issue 2")
	fx.Meta(post.ID, "issue", id(a))
	fx.Meta(post.ID, "issues", acftest.Serialize([]string{id(b), "999999", id(a)}))
	fx.Meta(post.ID, "gone", "999999")

	single, ok := decodeAs(t, fx, post, "issue", acf.FieldTypePostObject).(*acf.Post)
	require.True(t, ok)
	assert.Equal(t, "Issue 1", single.Title)

	multiple, ok := decodeAs(t, fx, post, "issues", acf.FieldTypePostObject).([]*acf.Post)
	require.True(t, ok)
	require.Len(t, multiple, 2)
	assert.Equal(t, b.ID, multiple[0].ID)
	assert.Equal(t, a.ID, multiple[1].ID)

	assert.Nil(t, decodeAs(t, fx, post, "gone", acf.FieldTypePostObject))
}

func TestGallery(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	first := fx.Attachment("http://x/2020/one.jpg", "image/jpeg", "One")
	second := fx.Attachment("http://x/2020/two.png", "image/png", "Two")
	fx.AttachmentMetadata(first.ID, "2020/one.jpg", 800, 600, thumbnail)
	fx.Meta(post.ID, "image_gallery", acftest.Serialize([]string{id(second), "999999", id(first)}))

	images, ok := decodeAs(t, fx, post, "image_gallery", acf.FieldTypeGallery).([]*acf.Image)
	require.True(t, ok)
	require.Len(t, images, 2)

	assert.Equal(t, "http://x/2020/two.png", images[0].URL)
	assert.Equal(t, "Two", images[0].Description)
	assert.Nil(t, images[0].Width)

	assert.Equal(t, "one.jpg", images[1].Filename)
	require.NotNil(t, images[1].Width)
	assert.Equal(t, 800, *images[1].Width)
	assert.Equal(t, "http://x/2020/a-150x150.jpg", images[1].Size("thumbnail", false).URL)
}

func TestGallery_Empty(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "image_gallery", "")

	images, ok := decodeAs(t, fx, post, "image_gallery", acf.FieldTypeGallery).([]*acf.Image)
	require.True(t, ok)
	assert.Empty(t, images)
}

func TestRepeater(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Field(post.ID, "facts", "2", acf.FieldTypeRepeater)
	fx.Field(post.ID, "facts_0_label", "Founded", acf.FieldTypeText)
	fx.Field(post.ID, "facts_0_value", "1999", acf.FieldTypeNumber)
	fx.Field(post.ID, "facts_1_label", "Staff", acf.FieldTypeText)
	fx.Field(post.ID, "facts_1_visible", "1", acf.FieldTypeTrueFalse)
	fx.Field(post.ID, "facts_2_label", "Beyond the row count", acf.FieldTypeText)
	fx.Meta(post.ID, "facts_1_unbound", "no definition")
	fx.Meta(post.ID, "facts_title", "sibling field")

	rows, ok := decodeAs(t, fx, post, "facts", acf.FieldTypeRepeater).([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)

	assert.Equal(t, map[string]interface{}{"label": "Founded", "value": "1999"}, rows[0])
	assert.Equal(t, map[string]interface{}{"label": "Staff", "visible": true}, rows[1])
}

func TestRepeater_Nested(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Field(post.ID, "sections", "1", acf.FieldTypeRepeater)
	fx.Field(post.ID, "sections_0_title", "Intro", acf.FieldTypeText)
	fx.Field(post.ID, "sections_0_items", "2", acf.FieldTypeRepeater)
	fx.Field(post.ID, "sections_0_items_0_name", "First", acf.FieldTypeText)
	fx.Field(post.ID, "sections_0_items_1_name", "Second", acf.FieldTypeText)

	rows, ok := decodeAs(t, fx, post, "sections", acf.FieldTypeRepeater).([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)

	assert.Equal(t, "Intro", rows[0]["title"])
	assert.NotContains(t, rows[0], "items_0_name")

	items, ok := rows[0]["items"].([]map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []map[string]interface{}{{"name": "First"}, {"name": "Second"}}, items)
}

func TestRepeater_NoRows(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "facts", "")

	rows, ok := decodeAs(t, fx, post, "facts", acf.FieldTypeRepeater).([]map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, rows)
}

func TestFlexibleContent_NestedInRepeaterLayout(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "content", acftest.Serialize([]string{"facts"}))
	fx.Meta(post.ID, "content_0_fact_repeater", "1")
	fx.Field(post.ID, "content_0_fact_repeater_0_label", "Founded", acf.FieldTypeText)

	blocks, err := decodeFlexible(t, fx.Repo, post, "content")
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	rows, ok := blocks[0].Fields["fact_repeater"].([]map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []map[string]interface{}{{"label": "Founded"}}, rows)

	// the nested row also has its own definition, so it is decoded in place too
	assert.Equal(t, "Founded", blocks[0].Fields["fact_repeater_0_label"])
}

func TestRepeater_CountBoundedByStoredRows(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Field(post.ID, "facts", "1099511627776", acf.FieldTypeRepeater)
	fx.Field(post.ID, "facts_0_label", "Founded", acf.FieldTypeText)
	fx.Field(post.ID, "facts_1_label", "Staff", acf.FieldTypeText)

	rows, ok := decodeAs(t, fx, post, "facts", acf.FieldTypeRepeater).([]map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []map[string]interface{}{{"label": "Founded"}, {"label": "Staff"}}, rows)
}

func TestFlexibleContent_CorruptRepeaterCount(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")
	fx.Meta(post.ID, "content", acftest.Serialize([]string{"hero"}))
	fx.Meta(post.ID, "content_0_fact_repeater", "1099511627776")

	blocks, err := decodeFlexible(t, fx.Repo, post, "content")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []map[string]interface{}{}, blocks[0].Fields["fact_repeater"])
}

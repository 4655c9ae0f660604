package acf_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-acf/pkg/acf"
	"github.com/tendant/simple-acf/pkg/acf/acftest"
)

func TestFieldFactory_FieldType(t *testing.T) {
	fx := acftest.New(t)
	ctx := context.Background()
	post := fx.Post("page", "Home")
	fx.Field(post.ID, "subtitle", "Hello", acf.FieldTypeText)
	fx.Meta(post.ID, "dangling", "x")
	fx.Meta(post.ID, "_dangling", "field_missing")

	factory := acf.NewFieldFactory(fx.Repo)

	fieldType, err := factory.FieldType(ctx, "subtitle", post)
	require.NoError(t, err)
	assert.Equal(t, acf.FieldTypeText, fieldType)

	fieldType, err = factory.FieldType(ctx, "dangling", post)
	require.NoError(t, err)
	assert.Equal(t, acf.FieldType(""), fieldType)

	fieldType, err = factory.FieldType(ctx, "unbound", post)
	require.NoError(t, err)
	assert.Equal(t, acf.FieldType(""), fieldType)
}

func TestFieldFactory_Make(t *testing.T) {
	fx := acftest.New(t)
	ctx := context.Background()
	post := fx.Post("page", "Home")
	fx.Field(post.ID, "subtitle", "Hello", acf.FieldTypeText)
	fx.Field(post.ID, "published_on", "20240101", "date_picker")

	factory := acf.NewFieldFactory(fx.Repo)

	field, err := factory.Make(ctx, "subtitle", post)
	require.NoError(t, err)
	require.NotNil(t, field)
	assert.Equal(t, "Hello", field.Get())

	field, err = factory.Make(ctx, "published_on", post)
	require.NoError(t, err)
	assert.Nil(t, field, "types without a decoder resolve to nothing")

	field, err = factory.Make(ctx, "unbound", post)
	require.NoError(t, err)
	assert.Nil(t, field)
}

type datePicker struct {
	post  *acf.Post
	repo  acf.Repository
	value string
}

func (f *datePicker) Process(ctx context.Context, name string) error {
	meta, err := f.repo.GetMeta(ctx, f.post.ID, name)
	if err != nil {
		return err
	}
	f.value = "DATE:" + meta.Value
	return nil
}

func (f *datePicker) Get() interface{} {
	return f.value
}

func TestFieldFactory_Register(t *testing.T) {
	fx := acftest.New(t)
	ctx := context.Background()
	post := fx.Post("page", "Home")
	fx.Field(post.ID, "published_on", "20240101", "date_picker")

	factory := acf.NewFieldFactory(fx.Repo)
	factory.Register("date_picker", func(_ *acf.FieldFactory, p *acf.Post) acf.Field {
		return &datePicker{post: p, repo: fx.Repo}
	})

	field, err := factory.Make(ctx, "published_on", post)
	require.NoError(t, err)
	require.NotNil(t, field)
	assert.Equal(t, "DATE:20240101", field.Get())
}

func TestFieldFactory_MakeWithUnknownType(t *testing.T) {
	fx := acftest.New(t)
	post := fx.Post("page", "Home")

	field, err := acf.NewFieldFactory(fx.Repo).MakeWithType(context.Background(), "anything", post, "oembed")
	require.NoError(t, err)
	assert.Nil(t, field)
}

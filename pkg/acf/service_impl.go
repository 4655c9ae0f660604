package acf

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-acf/pkg/acf/urlstrategy"
)

// service implements the Service interface
type service struct {
	repository Repository
	urls       urlstrategy.Strategy
	logger     *slog.Logger
	fieldTypes map[FieldType]Constructor
	factory    *FieldFactory
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithURLStrategy sets how attachment URLs are built
func WithURLStrategy(strategy urlstrategy.Strategy) Option {
	return func(s *service) {
		s.urls = strategy
	}
}

// WithLogger sets the logger for decode traces
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithFieldType registers an additional decoder
func WithFieldType(fieldType FieldType, constructor Constructor) Option {
	return func(s *service) {
		if s.fieldTypes == nil {
			s.fieldTypes = make(map[FieldType]Constructor)
		}
		s.fieldTypes[fieldType] = constructor
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, ErrRepositoryRequired
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.factory = NewFieldFactory(s.repository,
		WithFactoryLogger(s.logger),
		WithFactoryURLStrategy(s.urls),
	)
	for fieldType, constructor := range s.fieldTypes {
		s.factory.Register(fieldType, constructor)
	}

	return s, nil
}

func (s *service) GetPost(ctx context.Context, postID int64) (*Post, error) {
	post, err := s.repository.GetPost(ctx, postID)
	if err != nil {
		return nil, &FieldError{PostID: postID, Op: "get_post", Err: err}
	}
	return post, nil
}

func (s *service) GetField(ctx context.Context, postID int64, name string) (interface{}, error) {
	post, err := s.loadPost(ctx, postID, name)
	if err != nil {
		return nil, err
	}
	field, err := s.factory.Make(ctx, name, post)
	if err != nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "decode", Err: err}
	}
	if field == nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "resolve", Err: ErrFieldNotFound}
	}
	return field.Get(), nil
}

func (s *service) GetFieldAs(ctx context.Context, postID int64, name string, fieldType FieldType) (interface{}, error) {
	post, err := s.loadPost(ctx, postID, name)
	if err != nil {
		return nil, err
	}
	field, err := s.factory.MakeWithType(ctx, name, post, fieldType)
	if err != nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "decode", Err: err}
	}
	if field == nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "resolve", Err: ErrFieldNotFound}
	}
	return field.Get(), nil
}

func (s *service) GetFlexibleContent(ctx context.Context, postID int64, name string) ([]Block, error) {
	post, err := s.loadPost(ctx, postID, name)
	if err != nil {
		return nil, err
	}
	field := newFlexibleContent(s.factory, post).(*FlexibleContent)
	if err := field.Process(ctx, name); err != nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "decode", Err: err}
	}
	return field.Blocks(), nil
}

func (s *service) GetImage(ctx context.Context, postID int64, name string) (*Image, error) {
	post, err := s.loadPost(ctx, postID, name)
	if err != nil {
		return nil, err
	}
	image := newImage(s.factory, post).(*Image)
	if err := image.Process(ctx, name); err != nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "decode", Err: err}
	}
	return image, nil
}

func (s *service) GetImageSize(ctx context.Context, postID int64, name, size string, useOriginalFallback bool) (*Image, error) {
	image, err := s.GetImage(ctx, postID, name)
	if err != nil {
		return nil, err
	}
	return image.Size(size, useOriginalFallback), nil
}

func (s *service) loadPost(ctx context.Context, postID int64, name string) (*Post, error) {
	post, err := s.repository.GetPost(ctx, postID)
	if err != nil {
		return nil, &FieldError{PostID: postID, Field: name, Op: "get_post", Err: err}
	}
	return post, nil
}

// Package urlstrategy decides the public URL of media attachments.
package urlstrategy

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Strategy derives the public URL of an attachment from its stored GUID.
type Strategy interface {
	AttachmentURL(ctx context.Context, guid string) (string, error)
}

// StrategyType represents the type of URL strategy
type StrategyType string

const (
	// StrategyTypeOrigin serves attachments from the URL recorded at upload time
	StrategyTypeOrigin StrategyType = "origin"

	// StrategyTypeCDN rewrites attachment URLs onto a CDN host
	StrategyTypeCDN StrategyType = "cdn"
)

// Config holds configuration for URL strategy creation
type Config struct {
	Type          StrategyType
	CDNBaseURL    string // e.g. "https://cdn.example.com"
	OriginBaseURL string // e.g. "https://www.example.com"; empty rewrites any host
}

// NewURLStrategy creates a URL strategy based on the configuration
func NewURLStrategy(config Config) (Strategy, error) {
	switch config.Type {
	case "", StrategyTypeOrigin:
		return NewDefaultStrategy(), nil
	case StrategyTypeCDN:
		if config.CDNBaseURL == "" {
			return nil, fmt.Errorf("CDN base URL is required for CDN strategy")
		}
		return NewCDNStrategy(config.CDNBaseURL, config.OriginBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown URL strategy type: %s", config.Type)
	}
}

// NewDefaultStrategy returns the origin strategy.
func NewDefaultStrategy() Strategy {
	return OriginStrategy{}
}

// OriginStrategy returns the GUID unchanged.
type OriginStrategy struct{}

func (OriginStrategy) AttachmentURL(ctx context.Context, guid string) (string, error) {
	return guid, nil
}

// CDNStrategy moves attachment URLs from the origin host to a CDN host,
// keeping the path.
type CDNStrategy struct {
	CDNBaseURL    string
	OriginBaseURL string
}

// NewCDNStrategy creates a CDN strategy. Trailing slashes are trimmed.
func NewCDNStrategy(cdnBaseURL, originBaseURL string) *CDNStrategy {
	return &CDNStrategy{
		CDNBaseURL:    strings.TrimSuffix(cdnBaseURL, "/"),
		OriginBaseURL: strings.TrimSuffix(originBaseURL, "/"),
	}
}

// AttachmentURL rewrites guid onto the CDN. GUIDs outside OriginBaseURL are
// returned unchanged.
func (s *CDNStrategy) AttachmentURL(ctx context.Context, guid string) (string, error) {
	if guid == "" {
		return "", nil
	}
	if s.OriginBaseURL != "" {
		rest, ok := strings.CutPrefix(guid, s.OriginBaseURL)
		if !ok {
			return guid, nil
		}
		return s.CDNBaseURL + rest, nil
	}

	u, err := url.Parse(guid)
	if err != nil {
		return "", fmt.Errorf("parse attachment guid %q: %w", guid, err)
	}
	if u.Host == "" {
		return s.CDNBaseURL + "/" + strings.TrimPrefix(u.Path, "/"), nil
	}
	rewritten := s.CDNBaseURL + u.EscapedPath()
	if u.RawQuery != "" {
		rewritten += "?" + u.RawQuery
	}
	return rewritten, nil
}

// Package markdown renders task descriptions written in markdown.
package markdown

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Service converts markdown to HTML.
type Service interface {
	// RenderHTML renders source as HTML. Raw HTML in source is escaped.
	RenderHTML(source string) (string, error)
}

type service struct {
	md goldmark.Markdown
}

// Option configures the renderer.
type Option func(*[]goldmark.Option)

// WithGFM enables tables, strikethrough, autolinks and task lists.
func WithGFM() Option {
	return func(opts *[]goldmark.Option) {
		*opts = append(*opts, goldmark.WithExtensions(extension.GFM))
	}
}

// WithHardWraps renders single newlines as line breaks.
func WithHardWraps() Option {
	return func(opts *[]goldmark.Option) {
		*opts = append(*opts, goldmark.WithRendererOptions(html.WithHardWraps()))
	}
}

// NewService creates a markdown service.
func NewService(opts ...Option) Service {
	var options []goldmark.Option
	for _, opt := range opts {
		opt(&options)
	}
	return &service{md: goldmark.New(options...)}
}

func (s *service) RenderHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return buf.String(), nil
}

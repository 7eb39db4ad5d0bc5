package resource

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/bodytmpl/pkg/template"
	"github.com/getmockd/bodytmpl/pkg/util"
)

// DefaultContentType is used when a resource declares no content type.
const DefaultContentType = "text/plain; charset=utf-8"

// Text is an inline template.
type Text struct {
	text        []byte
	charset     string
	contentType string
}

// NewText returns an inline resource. An empty charset means UTF-8; an empty
// content type means DefaultContentType.
func NewText(text, charset, contentType string) *Text {
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &Text{text: []byte(text), charset: charset, contentType: contentType}
}

// ReadFor returns the inline text.
func (t *Text) ReadFor(*template.Request) (template.Content, error) {
	return template.Content{Data: t.text, Charset: t.charset}, nil
}

// ContentType returns the declared content type.
func (t *Text) ContentType(*template.Request) string {
	return t.contentType
}

// File is a template read from disk on every request, so edits take effect
// without a restart.
type File struct {
	path        string
	charset     string
	contentType string
}

// NewFile returns a file resource for path, resolved against baseDir when
// relative. Without an explicit content type, it is derived from the file
// extension. Paths that escape upward are rejected.
func NewFile(baseDir, path, charset, contentType string) (*File, error) {
	resolved, ok := util.ResolveUnder(baseDir, path)
	if !ok {
		return nil, fmt.Errorf("unsafe template file path: %s", path)
	}
	if contentType == "" {
		contentType = contentTypeFor(resolved)
	}
	return &File{path: resolved, charset: charset, contentType: contentType}, nil
}

// Path returns the resolved file path.
func (f *File) Path() string { return f.path }

// ReadFor reads the file.
func (f *File) ReadFor(*template.Request) (template.Content, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return template.Content{}, fmt.Errorf("read template file: %w", err)
	}
	return template.Content{Data: data, Charset: f.charset}, nil
}

// ContentType returns the declared or derived content type.
func (f *File) ContentType(*template.Request) string {
	return f.contentType
}

// contentTypeFor guesses a media type from the extension, ignoring a trailing
// template extension such as body.json.tmpl.
func contentTypeFor(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".tmpl", ".ftl", ".tpl"} {
		name = strings.TrimSuffix(name, ext)
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}

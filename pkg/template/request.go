package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// MaxBodySize caps how much of a request body is buffered for templates.
const MaxBodySize = 10 << 20 // 10MB

// ErrBodyTooLarge is returned by NewRequest for bodies over MaxBodySize.
var ErrBodyTooLarge = errors.New("request body exceeds 10MB limit")

// Request is an inbound request captured for rendering. It is never modified
// by the engine; templates see it through a per-render copy.
type Request struct {
	Method     string
	URI        string
	Path       string
	Proto      string
	RemoteAddr string
	Header     http.Header
	Query      url.Values
	Cookies    []*http.Cookie
	Body       []byte
}

// NewRequest captures r for rendering. The body is read completely and
// r.Body is replaced so it can be read again. A body larger than MaxBodySize
// fails with ErrBodyTooLarge.
func NewRequest(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
		if err != nil {
			return nil, err
		}
		if len(body) > MaxBodySize {
			return nil, ErrBodyTooLarge
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	req := &Request{
		Method:     r.Method,
		URI:        r.RequestURI,
		Proto:      r.Proto,
		RemoteAddr: r.RemoteAddr,
		Header:     r.Header.Clone(),
		Cookies:    r.Cookies(),
		Body:       body,
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if r.URL != nil {
		req.Path = r.URL.Path
		req.Query = r.URL.Query()
		if req.URI == "" {
			req.URI = r.URL.RequestURI()
		}
	}
	if req.Query == nil {
		req.Query = make(url.Values)
	}
	return req, nil
}

// Form parses the body as URL-encoded form values. It returns an empty set
// when the content type is not application/x-www-form-urlencoded.
func (r *Request) Form() url.Values {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		return url.Values{}
	}
	values, err := url.ParseQuery(string(r.Body))
	if err != nil {
		return url.Values{}
	}
	return values
}

// JSON parses the body as JSON. ok is false when the body is empty or not JSON.
func (r *Request) JSON() (v any, ok bool) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// Cookie returns the value of the named cookie.
func (r *Request) Cookie(name string) (string, bool) {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// RequestView is the read-only request exposed to templates as req.
type RequestView struct {
	Method  string              `expr:"method" json:"method"`
	URI     string              `expr:"uri" json:"uri"`
	Path    string              `expr:"path" json:"path"`
	Version string              `expr:"version" json:"version"`
	Client  string              `expr:"client" json:"client"`
	Headers map[string]string   `expr:"headers" json:"headers"`
	Queries map[string][]string `expr:"queries" json:"queries"`
	Forms   map[string]string   `expr:"forms" json:"forms"`
	Cookies map[string]string   `expr:"cookies" json:"cookies"`
	Content string              `expr:"content" json:"content"`
	JSON    any                 `expr:"json" json:"json"`
}

// View builds a fresh RequestView. Every map is a copy, so nothing a template
// does can reach the request or another render.
func (r *Request) View() *RequestView {
	view := &RequestView{
		Method:  r.Method,
		URI:     r.URI,
		Path:    r.Path,
		Version: r.Proto,
		Client:  r.RemoteAddr,
		Headers: firstValues(r.Header),
		Queries: make(map[string][]string, len(r.Query)),
		Forms:   firstValues(r.Form()),
		Cookies: make(map[string]string, len(r.Cookies)),
		Content: string(r.Body),
	}
	for name, values := range r.Query {
		view.Queries[name] = append([]string(nil), values...)
	}
	for _, c := range r.Cookies {
		if _, seen := view.Cookies[c.Name]; !seen {
			view.Cookies[c.Name] = c.Value
		}
	}
	if v, ok := r.JSON(); ok {
		view.JSON = v
	}
	return view
}

func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for name, vs := range values {
		if len(vs) > 0 {
			out[name] = vs[0]
		}
	}
	return out
}

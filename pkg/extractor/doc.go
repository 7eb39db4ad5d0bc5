// Package extractor provides template variables that pull a value out of the
// current request: a header, query or form field, a cookie, or a node of a
// JSON or XML body. Every extractor implements template.Variable and returns
// nil when the request has no such value.
package extractor

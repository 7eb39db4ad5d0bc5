// Package resource provides template content resources: inline text and
// files read on every request.
package resource

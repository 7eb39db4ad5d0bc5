// Package cli implements the bodytmpl command line: serving mocks, rendering
// a single template offline and validating configuration files.
package cli

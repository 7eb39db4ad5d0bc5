// Package server serves configured mocks over HTTP, rendering each response
// body from its template.
//
// Routes use http.ServeMux patterns ("GET /users/{id}"). A failed render is
// answered with 500 and a JSON error naming the failure kind. Operational
// endpoints live under /__bodytmpl/: health and Prometheus metrics.
package server

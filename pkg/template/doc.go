// Package template renders dynamic mock response bodies.
// Templates are literal text with ${expression} interpolations; expressions
// are evaluated by expr-lang/expr against a namespace built for each request.
//
// # Namespace
//
// Every render sees:
//   - each configured variable, produced from the current request
//   - req - the read-only request: req.method, req.uri, req.path,
//     req.version, req.client, req.headers["Name"], req.queries["name"],
//     req.forms["name"], req.cookies["name"], req.content, req.json
//   - now(pattern) - current time, e.g. ${now("yyyy-MM-dd HH:mm:ss")}
//   - random(...) - uniform random number
//
// The names req, now and random are reserved. Configuring a variable with one
// of them fails when the Resource is built, not when it renders.
//
// # Random
//
// Call shapes and the range they draw from:
//   - random() - [0, 1)
//   - random(n) - [0, n), n must be positive
//   - random(a, b) - [a, b), b must be greater than a
//   - random(a, b, "0.00") - [a, b) rendered through a decimal pattern
//   - random(n, "0.00") - [0, n)
//   - random("0.00") - [0, 1)
//
// Numeric bounds are truncated to integers. Decimal patterns follow the
// familiar DecimalFormat syntax: 0, #, comma grouping, '.', %, per-mille,
// E0 exponents, quoted literal prefixes and suffixes and a ';' negative
// subpattern.
//
// # Dates
//
// now accepts SimpleDateFormat-style patterns: y, M, d, H, h, m, s, S, E, a,
// z, Z, X and the rest of the usual letters. Quote literal text with '.
//
// # Errors
//
// Resource.Render returns *RenderError, whose Kind is one of syntax,
// evaluation, argument, range or resource. NewResource fails with
// *ReservedNameError.
package template

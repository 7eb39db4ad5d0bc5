// Package util provides small helpers shared by bodytmpl packages:
//
//   - SafeFilePathAllowAbsolute and ResolveUnder reject path traversal in
//     configured file references
//   - TruncateBody caps template text before it is logged
package util

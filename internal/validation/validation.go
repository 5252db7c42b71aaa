// Package validation binds request payloads and validates them.
//
// It uses the `validator` library to enforce rules defined in struct tags
// and converts failures into field errors the client can act on.
package validation

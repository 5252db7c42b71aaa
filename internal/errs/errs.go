// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the global error handler is turned into an
// HTTPError, so clients always see the same JSON body: a machine code, a
// human message, the HTTP status and optional per-field errors.
package errs

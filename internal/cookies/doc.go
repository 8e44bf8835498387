// Package cookies holds the cookie model shared by every store adapter:
// the Cookie record, the Set-Cookie parser and serializer, and the
// domain/path matching rules.
//
// Everything in this package is pure. Nothing here talks to a cookie store;
// records are produced for a single call and handed on, the backing store
// remains the source of truth.
//
// Cookie values are never logged. Only Name and Domain may appear in logs.
package cookies

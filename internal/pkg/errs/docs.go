// Package errs holds the typed validation and lookup errors shared by the
// domain, the use cases and the adapters.
//
// Every type unwraps to a sentinel, so callers classify with errors.Is and
// read details with errors.As:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
//
// Messages are kept on one line; newlines in offending values are replaced
// with spaces so customer text cannot break log records.
package errs

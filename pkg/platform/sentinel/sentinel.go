// Package sentinel holds the two storage facts every donorhub store reports.
// Services translate them into domain errors; input problems never use them.
package sentinel

import "errors"

var (
	// ErrNotFound: no application, ledger entry or draw window matches the key.
	// Directory lookups also use it for donors that are not approved.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a unique key such as an email or issued identifier is
	// already taken, or a concurrent writer won the row.
	ErrConflict = errors.New("conflict")
)

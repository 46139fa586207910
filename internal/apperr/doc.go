// Package apperr defines the error taxonomy shared by the token deriver,
// the scraper, the schedule parser and the catalog.
//
// Every error that crosses a component boundary is an *Error carrying a Kind.
// Callers branch on the kind with errors.Is against the sentinels
// (ErrFetch, ErrParse, ErrExecution, ErrValidation) or with IsKind, and the
// HTTP layer maps kinds to status codes with HTTPStatus.
package apperr

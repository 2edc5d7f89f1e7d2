// Package form holds the issue form: the raw input record, the rules that
// decide whether it can be submitted, and the builder that turns it into an
// analyze request.
//
// The input record is a plain value. It is changed only through UpdateField
// and never validated on write; CanSubmit is cheap and is meant to be called
// on every redraw as well as right before Build.
package form

// Package widget resolves named configuration documents ("widgets") from the
// remote document store.
//
// Widgets live under the "widgets" key as a map of opaque key to document.
// The loader lists that map, picks the entry whose name matches the widget
// type being requested, then fetches and decodes that single document. Both
// round-trips go through [retry.Do].
//
// Loading is all-or-nothing: every failure is reported as
// [ErrConfigUnavailable] so callers can treat it as fatal.
package widget

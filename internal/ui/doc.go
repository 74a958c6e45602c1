// Package ui holds the view logic behind the storefront and CLI screens:
// the delete-account dialog state machine, vendor dashboard formatting and
// range slider thumb derivation. Nothing here renders markup; templates and
// terminal output consume these types.
package ui

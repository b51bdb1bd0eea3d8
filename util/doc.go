// Package util provides small generic helpers shared across packages:
// slice operations, pointer helpers and size formatting.
package util

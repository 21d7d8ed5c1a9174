// Package domain defines core data models, contracts and error categories
// shared across sigil. It contains plain types (wire/state) and interfaces only.
package domain

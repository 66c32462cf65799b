// Package domain defines the core business entities of the learning
// progression engine and the validation errors they can produce.
package domain

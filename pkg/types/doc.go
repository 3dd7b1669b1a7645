// Package types defines the entity types, the Storage contract, and the
// standard errors for the Pocket Shelf reading list.
package types

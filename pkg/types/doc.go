// Package types defines the Product entity, the ProductStore interface,
// configuration, and the standard errors for the storekeeper inventory store.
package types

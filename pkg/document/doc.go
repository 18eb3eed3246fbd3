// Package document holds the in-memory mocked dataset: a single JSON
// array loaded once from the data file and mutated in place by the CRUD
// operations. Nodes are located with JSONPath query expressions.
//
// One RWMutex guards all access. Every write operation resolves its query
// and applies its mutation under a single exclusive lock, so operations
// are atomic with respect to each other. Mutations are never written back
// to disk.
package document

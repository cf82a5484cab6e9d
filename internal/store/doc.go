// Package store defines the persistence interfaces for the task
// tracker and the sentinel errors shared by all store implementations.
// Concrete implementations live under internal/platform (the in-memory
// implementation is internal/platform/memory).
package store

// Package memory provides in-memory implementations of the store
// interfaces. State lives for the lifetime of the process; a restart
// loses all tasks and users, which matches the system's durability
// contract.
package memory

// Package service contains the application services that orchestrate
// the domain entities, stores, priority index and result cache. The
// HTTP layer talks only to this package; it never reaches into the
// stores directly.
package service

// Package domain defines the core business entities of the task tracker
// and the validation errors they can produce. Entities here are plain
// data with behavior; they know nothing about storage or HTTP.
package domain

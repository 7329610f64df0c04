// Package domain defines the core types and interfaces of the blist client.
//
// Concept-oriented files (errors.go, vote.go, listing.go, session.go, event.go) hold the shared
// types and the consumer-side interfaces. No implementation code - just contracts.
package domain

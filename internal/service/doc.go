// Package service implements business logic for the grapholite application.
//
// This package provides the service layer that coordinates between the HTTP
// handlers and the repository layer, implementing validation, identity
// maintenance, and event publishing.
//
// # Services
//
// DiagramService manages diagram operations (diagrams, nodes, edges) and
// handles import/export functionality via codec adapters. Every connection
// change on a diagram re-runs identity inference for both endpoints, so node
// identities stay consistent without callers having to ask for it.
//
// # Event System
//
// The service publishes events via EventBus for real-time updates to connected
// clients via Server-Sent Events (SSE). Event types include node/edge creation
// and deletion, identity changes, and diagram imports.
//
// # Design Principles
//
// - Services own business logic and validation
// - Repository pattern for data access
// - Event-driven for real-time updates
// - Context-aware for cancellation and timeouts
package service

// Package domain defines the core domain types for the Grapholite diagram service.
//
// This package contains the fundamental entities that represent a Graphol
// ontology diagram: typed nodes, typed edges, the diagram graph that holds
// them, and the identity system that classifies nodes semantically.
//
// # Core Types
//
// Node represents a diagram vertex (concept, role, attribute, constructor
// node, etc.) with a label, geometry, and a semantic identity.
//
// Edge represents a typed connection between two nodes (input, inclusion,
// equivalence, membership). Edges are not owned by nodes; the Diagram keeps
// per-node incident edge lists as back-references for traversal.
//
// Diagram is the graph container with deterministic (insertion-order)
// iteration and adjacency helpers.
//
// # Identity System
//
// Every node kind declares the set of identities it is capable of holding.
// Kinds with a single capability (concept, role, attribute, ...) are fixed;
// constructor kinds (union, intersection, complement, enumeration, range
// restriction, property assertion) start out Neutral and acquire an identity
// from their graph context.
//
// Identify propagates identities through neutral-capable nodes by
// breadth-first traversal and kind-specific disambiguation rules. Ambiguous
// or contradictory context yields Unknown, which is a first-class steady
// state rather than an error.
//
// # Design Principles
//
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
// - Deterministic iteration everywhere the resolver depends on order
// - Degradation to Unknown instead of failure
package domain

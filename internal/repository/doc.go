// Package repository defines the persistence interface for Grapholite.
//
// The Repository interface abstracts diagram storage so that services do
// not depend on a concrete database. The sqlite subpackage provides the
// production implementation.
//
// Diagrams are stored as rows plus their node and edge collections;
// insertion order is preserved so that reloaded diagrams traverse
// deterministically, which the identification pass depends on.
package repository

// Package handler implements HTTP request handlers for the grapholite API.
//
// This package provides the HTTP layer for the grapholite REST API, handling
// requests for diagram, node, and edge operations plus import/export.
//
// # Handlers
//
// DiagramHandler handles diagram-related operations including nodes, edges,
// and import/export functionality.
//
// Middleware provides request logging, error handling, and CORS support.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for updates
// - DELETE for removal
//
// Errors are returned as JSON with appropriate HTTP status codes.
// Request bodies are validated before processing.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /api/events endpoint provides real-time diagram updates via SSE,
// allowing clients to receive live notifications of identity changes.
package handler

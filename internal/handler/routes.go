package handler

import "net/http"

// Routes builds the API route table. The SSE handler is passed in so the
// hub can live outside the HTTP layer.
func Routes(h *DiagramHandler, sse http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Diagram endpoints
	mux.HandleFunc("GET /api/diagrams", h.ListDiagrams)
	mux.HandleFunc("POST /api/diagrams", h.CreateDiagram)
	mux.HandleFunc("GET /api/diagrams/{id}", h.GetDiagram)
	mux.HandleFunc("DELETE /api/diagrams/{id}", h.DeleteDiagram)

	// Node endpoints
	mux.HandleFunc("POST /api/diagrams/{id}/nodes", h.CreateNode)
	mux.HandleFunc("PUT /api/diagrams/{id}/nodes/{nodeID}", h.UpdateNode)
	mux.HandleFunc("DELETE /api/diagrams/{id}/nodes/{nodeID}", h.DeleteNode)

	// Edge endpoints
	mux.HandleFunc("POST /api/diagrams/{id}/edges", h.CreateEdge)
	mux.HandleFunc("DELETE /api/diagrams/{id}/edges/{edgeID}", h.DeleteEdge)

	// Import/export endpoints
	mux.HandleFunc("POST /api/import", h.ImportDiagram)
	mux.HandleFunc("GET /api/diagrams/{id}/export", h.ExportDiagram)
	mux.HandleFunc("GET /api/export/predicates", h.ExportPredicates)

	// SSE events endpoint
	if sse != nil {
		mux.Handle("GET /api/events", sse)
	}

	return mux
}

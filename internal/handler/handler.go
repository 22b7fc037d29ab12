package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"grapholite/internal/codec"
	"grapholite/internal/domain"
	"grapholite/internal/service"
)

// DiagramHandler handles diagram API requests
type DiagramHandler struct {
	svc *service.DiagramService
}

// NewDiagramHandler creates a new diagram handler
func NewDiagramHandler(svc *service.DiagramService) *DiagramHandler {
	return &DiagramHandler{svc: svc}
}

// ErrorResponse is the JSON error structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListDiagrams returns summaries of all diagrams
func (h *DiagramHandler) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.ListDiagrams(r.Context())
	if err != nil {
		log.Printf("Failed to list diagrams: %v", err)
		h.writeError(w, "Failed to list diagrams", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, infos, http.StatusOK)
}

// CreateDiagramRequest is the body for diagram creation
type CreateDiagramRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateDiagram creates a new empty diagram
func (h *DiagramHandler) CreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req CreateDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	diagram, err := h.svc.CreateDiagram(r.Context(), req.ID, req.Name)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			h.writeError(w, "Conflict", err.Error(), http.StatusConflict)
			return
		}
		log.Printf("Failed to create diagram: %v", err)
		h.writeError(w, "Failed to create diagram", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, codec.NewDiagramDocument(diagram), http.StatusCreated)
}

// GetDiagram returns a single diagram with nodes and edges
func (h *DiagramHandler) GetDiagram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, "Invalid diagram ID", "Diagram ID is required", http.StatusBadRequest)
		return
	}

	diagram, err := h.svc.GetDiagram(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get diagram: %v", err)
		h.writeError(w, "Failed to get diagram", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, codec.NewDiagramDocument(diagram), http.StatusOK)
}

// DeleteDiagram deletes a diagram
func (h *DiagramHandler) DeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, "Invalid diagram ID", "Diagram ID is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteDiagram(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete diagram: %v", err)
		h.writeError(w, "Failed to delete diagram", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateNode adds a node to a diagram
func (h *DiagramHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")

	var req domain.Node
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	// Rebuild through the constructor so the initial identity is derived
	// from the kind rather than trusted from the client.
	node := domain.NewNode(req.ID, req.Kind, req.Label)
	node.Geometry = req.Geometry

	result, err := h.svc.CreateNode(r.Context(), diagramID, node)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to create node: %v", err)
		h.writeError(w, "Failed to create node", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, result, http.StatusCreated)
}

// UpdateNodeRequest is the body for node updates
type UpdateNodeRequest struct {
	Label    string          `json:"label"`
	Geometry domain.Geometry `json:"geometry"`
}

// UpdateNode updates the label and geometry of a node
func (h *DiagramHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")
	nodeID := r.PathValue("nodeID")

	var req UpdateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	node, err := h.svc.UpdateNode(r.Context(), diagramID, nodeID, req.Label, req.Geometry)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to update node: %v", err)
		h.writeError(w, "Failed to update node", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, node, http.StatusOK)
}

// DeleteNode removes a node and its incident edges
func (h *DiagramHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")
	nodeID := r.PathValue("nodeID")

	if err := h.svc.DeleteNode(r.Context(), diagramID, nodeID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete node: %v", err)
		h.writeError(w, "Failed to delete node", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateEdge adds an edge to a diagram
func (h *DiagramHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")

	var edge domain.Edge
	if err := json.NewDecoder(r.Body).Decode(&edge); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateEdge(r.Context(), diagramID, &edge)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to create edge: %v", err)
		h.writeError(w, "Failed to create edge", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, result, http.StatusCreated)
}

// DeleteEdge removes an edge
func (h *DiagramHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	diagramID := r.PathValue("id")
	edgeID := r.PathValue("edgeID")

	if err := h.svc.DeleteEdge(r.Context(), diagramID, edgeID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete edge: %v", err)
		h.writeError(w, "Failed to delete edge", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportDiagram imports a diagram document
func (h *DiagramHandler) ImportDiagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	name := r.URL.Query().Get("name")

	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	var diagram *domain.Diagram
	switch format {
	case "graphol", "":
		diagram, err = h.svc.ImportGraphol(r.Context(), name, data)
	case "json":
		diagram, err = h.svc.ImportJSON(r.Context(), name, data)
	default:
		h.writeError(w, "Unknown import format", format, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("Failed to import diagram: %v", err)
		h.writeError(w, "Failed to import diagram", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"diagram_id": diagram.ID,
		"name":       diagram.Name,
		"nodes":      diagram.NodeCount(),
		"edges":      diagram.EdgeCount(),
	}, http.StatusCreated)
}

// ExportDiagram exports a diagram in the requested format
func (h *DiagramHandler) ExportDiagram(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "graphol"
	}

	var contentType, filename string
	switch format {
	case "graphol":
		contentType, filename = "application/xml", "diagram.graphol"
	case "json":
		contentType, filename = "application/json", "diagram.json"
	case "csv":
		contentType, filename = "text/csv", "predicates.csv"
	default:
		h.writeError(w, "Unknown export format", format, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := h.svc.ExportDiagram(r.Context(), id, format, w); err != nil {
		log.Printf("Failed to export diagram: %v", err)
		// Can't write error response as we already set headers
		return
	}
}

// ExportPredicates exports the predicate inventory of all diagrams as CSV
func (h *DiagramHandler) ExportPredicates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=predicates.csv")

	if err := h.svc.ExportPredicates(r.Context(), w); err != nil {
		log.Printf("Failed to export predicates: %v", err)
		return
	}
}

// Helper methods

func (h *DiagramHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *DiagramHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

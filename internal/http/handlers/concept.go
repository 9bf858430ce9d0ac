// Package handlers implements S9's gin handlers. Grounded on
// internal/http/handlers/*.go's `func (h *FooHandler) Method(c *gin.Context)`
// + response.RespondOK/RespondError convention.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-backend/internal/graphquery"
	"github.com/yungbote/neurobridge-backend/internal/http/response"
)

type ConceptHandler struct {
	queries *graphquery.Queries
}

func NewConceptHandler(queries *graphquery.Queries) *ConceptHandler {
	return &ConceptHandler{queries: queries}
}

// GetConcept handles GET /v1/concepts/:id.
func (h *ConceptHandler) GetConcept(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMissingID)
		return
	}
	concept, err := h.queries.GetConcept(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, concept)
}

// GetEvidence handles GET /v1/concepts/:id/evidence.
func (h *ConceptHandler) GetEvidence(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMissingID)
		return
	}
	mentions, relations, err := h.queries.Evidence(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"mentions":  mentions,
		"relations": relations,
	})
}

// GetNeighbors handles GET /v1/concepts/:id/neighbors?depth=&predicate=.
func (h *ConceptHandler) GetNeighbors(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errMissingID)
		return
	}
	depth := 1
	if raw := c.Query("depth"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			depth = parsed
		}
	}
	predicate := strings.ToUpper(strings.TrimSpace(c.Query("predicate")))

	neighbors, err := h.queries.Neighbors(c.Request.Context(), id, depth, predicate)
	if err != nil {
		response.RespondAPIErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"neighbors": neighbors})
}

package handlers

import (
	"net/http"

	"legalaid-backend/legal"

	"github.com/gin-gonic/gin"
)

// NGOHandler serves the NGO directory
type NGOHandler struct {
	ngos *legal.NGOFinder
}

func NewNGOHandler(ngos *legal.NGOFinder) *NGOHandler {
	return &NGOHandler{ngos: ngos}
}

// Search handles GET /api/ngos/search
func (h *NGOHandler) Search(c *gin.Context) {
	respondOK(c, http.StatusOK, h.ngos.Search(c.Query("query"), c.Query("category"), c.Query("location")))
}

// ByCategory handles GET /api/ngos/category/:category
func (h *NGOHandler) ByCategory(c *gin.Context) {
	respondOK(c, http.StatusOK, h.ngos.ByCategory(c.Param("category"), c.Query("location")))
}

// ByLocation handles GET /api/ngos/location/:location
func (h *NGOHandler) ByLocation(c *gin.Context) {
	respondOK(c, http.StatusOK, h.ngos.ByLocation(c.Param("location"), c.Query("category")))
}

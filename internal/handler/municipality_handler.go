package handler

import (
	"net/http"

	"taxmanager/internal/service"
	"taxmanager/pkg/pagination"
	"taxmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type MunicipalityHandler struct {
	municipalityService service.MunicipalityService
}

// NewMunicipalityHandler sets up the routing dependencies for the directory endpoints
func NewMunicipalityHandler(municipalityService service.MunicipalityService) *MunicipalityHandler {
	return &MunicipalityHandler{municipalityService: municipalityService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MunicipalityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/municipalities", h.ListMunicipalities)
}

// ListMunicipalities returns the municipality directory, paged
// @Summary      List municipalities
// @Description  Returns the known municipalities ordered by name
// @Tags         municipalities
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200  {object}  response.Response{data=[]service.MunicipalityResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/municipalities [get]
func (h *MunicipalityHandler) ListMunicipalities(c *gin.Context) {
	params := pagination.Parse(c)

	municipalities, total, err := h.municipalityService.ListMunicipalities(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch municipalities"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"municipalities": municipalities,
		"total":          total,
		"page":           params.Page,
		"limit":          params.Limit,
	}))
}

package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taxmanager/internal/service"
	"taxmanager/pkg/parse"
	"taxmanager/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
}

// NewTaxHandler sets up the routing dependencies for tax endpoints
func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	taxes := router.Group("/api/taxes")
	{
		taxes.GET("", h.GetTaxes)
		taxes.POST("", h.AddTax)
		taxes.POST("/import", h.ImportTaxes)
	}
}

// GetTaxes returns a municipality's taxes filtered by an optional date window
// @Summary      Query taxes by municipality and date range
// @Description  Returns the municipality's tax records, optionally keeping only those starting on/after `from` and ending on/before `to`
// @Tags         taxes
// @Produce      json
// @Param        municipality  query     string  true   "Municipality name (exact match)"
// @Param        from          query     string  false  "Lower bound on start date (YYYY-MM-DD)"
// @Param        to            query     string  false  "Upper bound on end date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]service.MunicipalityTaxResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/taxes [get]
func (h *TaxHandler) GetTaxes(c *gin.Context) {
	municipality := c.Query("municipality")
	if municipality == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "municipality query parameter is required"))
		return
	}

	from, ok := parseDateParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to")
	if !ok {
		return
	}

	taxes, err := h.taxService.GetByMunicipalityAndDate(c.Request.Context(), municipality, from, to)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, taxes))
}

// AddTax admits a single tax record
// @Summary      Add a municipality tax
// @Description  Validates the candidate against the municipality's existing taxes and persists it, creating the municipality on first reference
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddTaxRequest  true  "Tax payload"
// @Success      201  {object}  response.Response{data=service.MunicipalityTaxResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/taxes [post]
func (h *TaxHandler) AddTax(c *gin.Context) {
	var req service.AddTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tax, err := h.taxService.AddMunicipalityTax(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tax))
}

// ImportTaxes bulk-loads taxes from an uploaded spreadsheet
// @Summary      Import taxes from an XLSX file
// @Description  Reads the fixed-header sheet row by row, admitting each record in order; the first failing row aborts the import with earlier rows already persisted
// @Tags         taxes
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "XLSX spreadsheet"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/taxes/import [post]
func (h *TaxHandler) ImportTaxes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}
	if !strings.HasSuffix(fileHeader.Filename, ".xlsx") {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file must be an .xlsx spreadsheet"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to open uploaded file"))
		return
	}
	defer file.Close()

	count, err := h.taxService.ImportTaxes(c.Request.Context(), file)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"imported": count,
	}))
}

// parseDateParam reads an optional YYYY-MM-DD query parameter. A present but
// malformed date surfaces as not found, matching the query path's failure
// contract. Reports false after writing the response.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	d, err := parse.Date(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "invalid "+name+" date"))
		return nil, false
	}
	return &d, true
}

// statusForError maps domain error kinds to HTTP statuses: unknown
// municipality is a 404, malformed input and business-rule rejections are
// 400s, anything else is a 500.
func statusForError(err error) int {
	var (
		validationErr *service.ValidationError
		parseErr      *service.ParseError
		headerErr     *service.HeaderMismatchError
	)

	switch {
	case errors.Is(err, service.ErrMunicipalityNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &parseErr), errors.As(err, &headerErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

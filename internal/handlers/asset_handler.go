package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"carteira/internal/catalog"
	apperrors "carteira/internal/errors"
	"carteira/internal/models"
	"carteira/internal/store"
	"carteira/internal/validation"
)

// AssetHandler handles asset catalog requests
type AssetHandler struct {
	store store.AssetStore
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(s store.AssetStore) *AssetHandler {
	return &AssetHandler{store: s}
}

// ListAssetsRequest represents the catalog query parameters
type ListAssetsRequest struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,asset_type"`
	SortBy   string `form:"sort_by" binding:"omitempty,sort_field"`
	SortDir  string `form:"sort_dir" binding:"omitempty,sort_direction"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateAssetRequest represents the add-asset payload. Value and purchase
// date arrive as strings so the field rules can report every problem at
// once instead of failing at decode time.
type CreateAssetRequest struct {
	Name         string `json:"name" binding:"max=120"`
	Type         string `json:"type"`
	Value        string `json:"value"`
	PurchaseDate string `json:"purchase_date"`
}

// ValidationErrorResponse represents a field-level validation failure.
type ValidationErrorResponse struct {
	Error  ErrorDetail              `json:"error"`
	Fields []*validation.FieldError `json:"fields"`
}

// List returns the derived catalog view for the authenticated user
// @Summary     List assets
// @Description List the user's assets filtered, sorted, and paginated
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Search term matched against name and type"
// @Param       type      query string false "Exact asset type filter"
// @Param       sort_by   query string false "Sort field (name, type, value, purchase_date)"
// @Param       sort_dir  query string false "Sort direction (asc, desc)"
// @Param       page      query int    false "Page number (1-indexed)"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} catalog.View "Derived catalog view"
// @Failure     400 {object} ErrorResponse "Invalid query parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assets, err := h.store.FetchAll(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view := catalog.Apply(assets, catalog.Query{
		Search:     req.Search,
		TypeFilter: models.AssetType(req.Type),
		SortBy:     catalog.SortField(req.SortBy),
		SortDir:    catalog.SortDirection(req.SortDir),
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	c.JSON(http.StatusOK, view)
}

// Create adds an asset to the user's portfolio
// @Summary     Create asset
// @Description Add an asset after validating the draft fields
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset draft"
// @Success     201 {object} models.Asset "Stored asset"
// @Failure     400 {object} ValidationErrorResponse "Field validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	errs := validation.AssetDraft(req.Name, req.Type, req.Value, req.PurchaseDate)
	if strings.TrimSpace(req.Type) != "" && !models.AssetType(req.Type).Valid() {
		errs = append(errs, &validation.FieldError{
			Field: "type", Code: validation.CodeInvalidFormat, Message: "Tipo de ativo inválido.",
		})
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Invalid asset data",
			},
			"fields": errs,
		})
		return
	}

	value, _ := decimal.NewFromString(strings.TrimSpace(req.Value))
	date, _ := time.Parse(validation.DateLayout, strings.TrimSpace(req.PurchaseDate))
	asset, err := h.store.Create(c.Request.Context(), userID, store.Draft{
		Name:         req.Name,
		Type:         models.AssetType(req.Type),
		Value:        value,
		PurchaseDate: date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// Delete removes an asset owned by the user
// @Summary     Delete asset
// @Description Delete an asset by id
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} MessageResponse "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}

// Summary returns portfolio totals and the distribution by type
// @Summary     Portfolio summary
// @Description Aggregate metrics over the user's full collection
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} catalog.Summary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/summary [get]
func (h *AssetHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assets, err := h.store.FetchAll(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog.Summarize(assets))
}

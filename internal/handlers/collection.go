// internal/handlers/collection.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/nft-marketplace/internal/i18n"
	"github.com/javajoker/nft-marketplace/internal/services"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

type CollectionHandler struct {
	errorResponder
	collectionService CollectionServiceInterface
}

type collectionCreatedResponse struct {
	CollectionID string `json:"collectionId"`
	MintAddress  string `json:"mintAddress,omitempty"`
}

type tokenResponse struct {
	TokenID string `json:"tokenId"`
}

func NewCollectionHandler(collectionService CollectionServiceInterface, production bool) *CollectionHandler {
	return &CollectionHandler{
		errorResponder:    errorResponder{production: production},
		collectionService: collectionService,
	}
}

// POST /collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req services.CreateCollectionRequest
	if !bindJSON(c, &req) {
		return
	}

	collection, err := h.collectionService.CreateCollection(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, collectionCreatedResponse{CollectionID: collection.ID}, i18n.KeyCollectionCreated)
}

// POST /collections/mint
func (h *CollectionHandler) MintCollection(c *gin.Context) {
	var req services.CreateCollectionRequest
	if !bindJSON(c, &req) {
		return
	}

	collection, err := h.collectionService.MintCollection(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, collectionCreatedResponse{
		CollectionID: collection.ID,
		MintAddress:  collection.MintAddress,
	}, i18n.KeyCollectionMinted)
}

// GET /collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	collections, total, err := h.collectionService.ListCollections(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(collections, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	collection, err := h.collectionService.GetCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, collection)
}

// POST /collections/:id/items
func (h *CollectionHandler) AddItem(c *gin.Context) {
	var req services.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.collectionService.AddItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, tokenResponse{TokenID: item.TokenID}, i18n.KeyCollectionItemAdded)
}

// DELETE /collections/:id/items/:tokenId
func (h *CollectionHandler) RemoveItem(c *gin.Context) {
	tokenID := c.Param("tokenId")

	if err := h.collectionService.RemoveItem(c.Request.Context(), c.Param("id"), tokenID); err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, tokenResponse{TokenID: tokenID}, i18n.KeyCollectionItemRemoved)
}

// GET /collections/:id/stats
func (h *CollectionHandler) GetStats(c *gin.Context) {
	stats, err := h.collectionService.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /stats/platform
func (h *CollectionHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.collectionService.PlatformStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// internal/handlers/nft.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/nft-marketplace/internal/i18n"
	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/services"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

type NFTHandler struct {
	errorResponder
	nftService NFTServiceInterface
}

type mintResponse struct {
	MintID  string            `json:"mintId"`
	Status  models.MintStatus `json:"status"`
	Address string            `json:"address,omitempty"`
}

type listingResponse struct {
	ListingID string               `json:"listingId"`
	Status    models.ListingStatus `json:"status"`
}

func NewNFTHandler(nftService NFTServiceInterface, production bool) *NFTHandler {
	return &NFTHandler{
		errorResponder: errorResponder{production: production},
		nftService:     nftService,
	}
}

// POST /nft/mint
func (h *NFTHandler) Mint(c *gin.Context) {
	var req services.MintNFTRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.nftService.Mint(c.Request.Context(), utils.GetIdentityFromContext(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, mintResponse{
		MintID:  record.ID,
		Status:  record.Status,
		Address: record.Address,
	}, i18n.KeyNFTMintSubmitted)
}

// GET /nft/mints/:id
func (h *NFTHandler) GetMint(c *gin.Context) {
	record, err := h.nftService.GetMint(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, record)
}

// POST /nft/list
func (h *NFTHandler) List(c *gin.Context) {
	var req services.ListNFTRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.nftService.List(c.Request.Context(), utils.GetIdentityFromContext(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, listingResponse{
		ListingID: record.ID,
		Status:    record.Status,
	}, i18n.KeyNFTListed)
}

// GET /nft/listings/:id
func (h *NFTHandler) GetListing(c *gin.Context) {
	record, err := h.nftService.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, record)
}

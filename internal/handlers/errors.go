// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/nft-marketplace/internal/i18n"
	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/services"
	"github.com/javajoker/nft-marketplace/internal/store"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

// errorResponder maps service errors onto the response envelope. In
// production internal and upstream causes are logged but not returned.
type errorResponder struct {
	production bool
}

func (r errorResponder) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidPriceFormat),
		errors.Is(err, store.ErrInvalidName),
		errors.Is(err, store.ErrInvalidTokenID),
		errors.Is(err, services.ErrInvalidListing):
		utils.BadRequestResponse(c, err.Error(), nil)

	case errors.Is(err, store.ErrCollectionNotFound):
		utils.NotFoundResponse(c, "collection")
	case errors.Is(err, store.ErrItemNotFound):
		utils.NotFoundResponse(c, "item")
	case errors.Is(err, store.ErrMintNotFound):
		utils.NotFoundResponse(c, "mint")
	case errors.Is(err, store.ErrListingNotFound):
		utils.NotFoundResponse(c, "listing")

	case errors.Is(err, store.ErrTokenAlreadyMinted):
		utils.ConflictResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyNFTAlreadyMinted))

	case errors.Is(err, services.ErrMinterUnavailable):
		logrus.WithError(err).WithField("path", c.FullPath()).Warn("Minting service call failed")
		utils.UpstreamErrorResponse(c, r.detail(err))

	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, r.detail(err))
	}
}

// detail returns "" in production so the envelope falls back to the
// translated generic message.
func (r errorResponder) detail(err error) string {
	if r.production {
		return ""
	}
	return err.Error()
}

// bindJSON decodes and validates the body, writing the error response
// itself when it returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.PayloadTooLargeResponse(c)
			return false
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}

	return true
}

// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Collections
	KeyCollectionCreated     = "collection.created"
	KeyCollectionMinted      = "collection.minted"
	KeyCollectionNotFound    = "collection.not_found"
	KeyCollectionItemAdded   = "collection.item_added"
	KeyCollectionItemRemoved = "collection.item_removed"
	KeyItemNotFound          = "item.not_found"

	// NFTs
	KeyNFTMintSubmitted = "nft.mint_submitted"
	KeyNFTListed        = "nft.listed"
	KeyNFTAlreadyMinted = "nft.already_minted"
	KeyMintNotFound     = "mint.not_found"
	KeyListingNotFound  = "listing.not_found"

	// Errors
	KeyInternalError = "error.internal"
	KeyUpstreamError = "error.upstream"
	KeyRateLimited   = "error.rate_limited"
	KeyPayloadLarge  = "error.payload_too_large"
	KeyRouteNotFound = "error.route_not_found"
)

// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/nft-marketplace/internal/config"
	"github.com/javajoker/nft-marketplace/internal/handlers"
	"github.com/javajoker/nft-marketplace/internal/i18n"
	"github.com/javajoker/nft-marketplace/internal/middleware"
	"github.com/javajoker/nft-marketplace/internal/services"
	"github.com/javajoker/nft-marketplace/internal/store"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

// Dependencies are the backends the HTTP layer is wired to.
type Dependencies struct {
	Collections store.CollectionStore
	Records     store.RecordStore
	Audit       store.AuditStore
	Minter      services.Minter
	Storage     *services.StorageService
}

// NewDependencies selects the store implementation. A nil db keeps
// everything in memory.
func NewDependencies(db *gorm.DB, cfg *config.Config) (Dependencies, error) {
	storage, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		return Dependencies{}, err
	}

	deps := Dependencies{
		Minter:  services.NewMinter(cfg.Minter),
		Storage: storage,
	}

	if db != nil {
		records := store.NewGormRecordStore(db)
		deps.Collections = store.NewGormStore(db)
		deps.Records = records
		deps.Audit = records
	} else {
		records := store.NewMemoryRecordStore()
		deps.Collections = store.NewMemoryStore()
		deps.Records = records
		deps.Audit = records
	}

	logrus.WithFields(logrus.Fields{
		"store":  cfg.Store.Driver,
		"minter": cfg.Minter.URL != "",
		"s3":     storage.Remote(),
	}).Info("Dependencies initialized")

	return deps, nil
}

// Router owns the engine plus the middleware state that must be released on
// shutdown.
type Router struct {
	Engine  *gin.Engine
	auditor *middleware.Auditor
	limiter *middleware.RateLimiter
}

func Initialize(cfg *config.Config, deps Dependencies) *Router {
	production := cfg.IsProduction()

	collectionService := services.NewCollectionService(deps.Collections, deps.Records, deps.Minter)
	nftService := services.NewNFTService(deps.Collections, deps.Records, deps.Storage, deps.Minter)

	collectionHandler := handlers.NewCollectionHandler(collectionService, production)
	nftHandler := handlers.NewNFTHandler(nftService, production)

	auditor := middleware.NewAuditor(deps.Audit, cfg.Server.BasePath)
	limiter := middleware.NewRateLimiterFromConfig(cfg.RateLimit)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.Identity(cfg.JWT.SecretKey))
	r.Use(middleware.RequestLogger())
	r.Use(limiter.Middleware())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(auditor.Middleware())

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.Server.BasePath)
	{
		collections := api.Group("/collections")
		{
			collections.POST("", collectionHandler.CreateCollection)
			collections.POST("/mint", collectionHandler.MintCollection)
			collections.GET("", collectionHandler.ListCollections)
			collections.GET("/:id", collectionHandler.GetCollection)
			collections.POST("/:id/items", collectionHandler.AddItem)
			collections.DELETE("/:id/items/:tokenId", collectionHandler.RemoveItem)
			collections.GET("/:id/stats", collectionHandler.GetStats)
		}

		nft := api.Group("/nft")
		{
			nft.POST("/mint", nftHandler.Mint)
			nft.GET("/mints/:id", nftHandler.GetMint)
			nft.POST("/list", nftHandler.List)
			nft.GET("/listings/:id", nftHandler.GetListing)
		}

		api.GET("/stats/platform", collectionHandler.GetPlatformStats)
	}

	r.NoRoute(func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyRouteNotFound), nil)
	})

	return &Router{Engine: r, auditor: auditor, limiter: limiter}
}

// Close stops background work and flushes pending audit writes.
func (r *Router) Close() {
	r.limiter.Stop()
	r.auditor.Wait()
}

package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderpad/internal/service/order"
	"orderpad/internal/session"
)

// Deps bundles everything the routes need.
type Deps struct {
	Sessions *session.Manager
	Orders   *order.Service

	// AllowedOrigins for the mobile client; empty allows all.
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, agentHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")
	v1.Use(agentMiddleware(deps.Sessions))
	{
		v1.GET("/cart", getCartHandler)
		v1.PUT("/cart/type", setTypeHandler)
		v1.PUT("/cart/customer", setCustomerHandler)
		v1.PATCH("/cart", updateDetailsHandler)

		v1.POST("/cart/lines", addLineHandler)
		v1.DELETE("/cart/lines/:itemId", removeLineHandler)
		v1.DELETE("/cart/lines", clearHandler)

		v1.GET("/cart/prices", getPricesHandler)
		v1.POST("/cart/prices/refresh", refreshPricesHandler)

		v1.POST("/cart/snapshots", saveSnapshotHandler)
		v1.GET("/cart/snapshots", listSnapshotsHandler)
		v1.POST("/cart/snapshots/:id/restore", restoreSnapshotHandler)
		v1.DELETE("/cart/snapshots/:id", deleteSnapshotHandler)

		v1.POST("/cart/submit", submitHandler(deps.Orders))
	}

	return router
}

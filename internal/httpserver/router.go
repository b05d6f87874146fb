package httpserver

import (
	"log"

	chatsvc "tea-referrals/internal/service/chat"
	referralsvc "tea-referrals/internal/service/referral"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries the services the handlers need.
type Deps struct {
	ReferralSvc *referralsvc.Service
	ChatSvc     *chatsvc.Service
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/customers", registerCustomerHandler(deps.ReferralSvc))
		api.GET("/customers", lookupCustomerHandler(deps.ReferralSvc))
		api.POST("/referral-codes/validate", validateCodeHandler(deps.ReferralSvc))
		api.POST("/sales", recordSaleHandler(deps.ReferralSvc))
		api.GET("/sales", listSalesHandler(deps.ReferralSvc))
		api.GET("/stats", statsHandler(deps.ReferralSvc))
		api.POST("/chat", chatHandler(deps.ChatSvc))
	}

	return router
}

package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"orderdesk/internal/server/http/handlers"
	"orderdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DeskFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	confirmationHandler := handlers.NewConfirmationHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")
	api.POST("/user/register", authHandler.Register)
	api.POST("/user/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	authed.GET("/factories", orderHandler.Factories)

	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/audit", orderHandler.Audit)
	authed.POST("/orders/:id/actions", orderHandler.RequestAction)

	authed.GET("/confirmations", confirmationHandler.List)
	authed.GET("/confirmations/:token", confirmationHandler.Get)
	authed.POST("/confirmations/:token/approve", confirmationHandler.Approve)
	authed.POST("/confirmations/:token/reject", confirmationHandler.Reject)

	authed.GET("/invoices/:id", paymentHandler.Invoice)
	authed.POST("/invoices/:id/payments", paymentHandler.Record)
	authed.PUT("/payments/:id", paymentHandler.Update)
	authed.DELETE("/payments/:id", paymentHandler.Delete)

	return engine
}

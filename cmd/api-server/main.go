package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"aniverse/internal/auth"
	"aniverse/internal/cart"
	"aniverse/internal/catalog"
	"aniverse/internal/chatbot"
	"aniverse/internal/contentsource"
	"aniverse/internal/orders"
	"aniverse/pkg/database"
	"aniverse/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Catalog (public, profile-aware)
	csCfg := utils.LoadContentstackConfig()
	source := contentsource.NewClient(csCfg)
	catalogSvc := catalog.NewService(source)
	catalogHandler := catalog.NewHandler(catalogSvc)
	catalogHandler.RegisterRoutes(router)

	// Staff auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := auth.SeedAdmin(seedCtx, authRepo, authCfg.AdminEmail, authCfg.AdminPassword); err != nil {
		log.Printf("[auth] seed admin: %v", err)
	}
	seedCancel()

	// Orders: public checkout plus a protected admin surface. The mirror
	// publisher is nil when no management token is configured.
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	var publisher orders.Publisher
	if mgmt := contentsource.NewManagementClient(csCfg); mgmt != nil {
		publisher = mgmt
	} else {
		log.Println("[orders] no management token, order mirror disabled")
	}
	api := router.Group("/api")
	ordersRepo := orders.NewRepo(db)
	ordersHandler := orders.NewHandler(ordersRepo, publisher)
	ordersHandler.RegisterRoutes(api, admin)

	// Carts (server-side, anonymous)
	cartRepo := cart.NewRepo(db)
	cartHandler := cart.NewHandler(cartRepo)
	cartHandler.RegisterRoutes(api)

	// Chatbot
	bot := chatbot.NewBot(utils.LoadChatbotConfig())
	chatHandler := chatbot.NewHandler(bot)
	router.POST("/api/chat", chatHandler.PostHandler)
	router.GET("/ws/chat", chatHandler.WSHandler)

	srvCfg := utils.LoadServerConfig()
	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	"github.com/techagentng/awaz/services"
)

// Server wires the HTTP surface to the services.
type Server struct {
	Config              *config.Config
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	ComplaintService    services.ComplaintService
	InteractionService  services.InteractionService
	DashboardService    services.DashboardService
	ReferenceService    services.ReferenceService
	Events              services.EventBus
	RateLimitStore      ratelimit.Store
	shutdownGracePeriod time.Duration
}

func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	grace := s.shutdownGracePeriod
	if grace == 0 {
		grace = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}

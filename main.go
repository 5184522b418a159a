package main

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	"github.com/techagentng/awaz/mailingservices"
	"github.com/techagentng/awaz/server"
	"github.com/techagentng/awaz/services"
)

// connectRedis returns nil when no address is configured or the server is unreachable.
func connectRedis(conf *config.Config) *redis.Client {
	if conf.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s, falling back to local stores: %v", conf.RedisAddr, err)
		client.Close()
		return nil
	}
	log.Printf("Connected to redis at %s", conf.RedisAddr)
	return client
}

func connectNATS(conf *config.Config) *nats.Conn {
	if conf.NatsURL == "" {
		return nil
	}
	nc, err := nats.Connect(conf.NatsURL,
		nats.Name("awaz"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		log.Printf("nats unavailable at %s, events stay in-process: %v", conf.NatsURL, err)
		return nil
	}
	log.Printf("Connected to nats at %s", nc.ConnectedUrl())
	return nc
}

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)

	redisClient := connectRedis(conf)
	if redisClient != nil {
		defer redisClient.Close()
	}
	nc := connectNATS(conf)
	if nc != nil {
		defer nc.Drain()
	}

	authRepo := db.NewAuthRepo(gormDB)
	complaintRepo := db.NewComplaintRepo(gormDB)
	interactionRepo := db.NewInteractionRepo(gormDB)
	referenceRepo := db.NewReferenceRepo(gormDB)
	sessions := db.NewSessionStore(redisClient, gormDB)

	store, err := services.NewObjectStore(context.Background(), conf)
	if err != nil {
		log.Fatalf("error setting up media storage: %v", err)
	}
	mediaService := services.NewMediaService(store)
	events := services.NewEventBus(nc)
	mailer := mailingservices.NewMailer(conf)

	authService := services.NewAuthService(authRepo, sessions, mailer, conf)
	complaintService := services.NewComplaintService(complaintRepo, referenceRepo, interactionRepo, mediaService, events, conf)
	interactionService := services.NewInteractionService(interactionRepo, complaintRepo, events, conf)
	dashboardService := services.NewDashboardService(authRepo, complaintRepo, referenceRepo, complaintService, events, conf)
	referenceService := services.NewReferenceService(referenceRepo)

	s := &server.Server{
		Config:             conf,
		AuthRepository:     authRepo,
		AuthService:        authService,
		ComplaintService:   complaintService,
		InteractionService: interactionService,
		DashboardService:   dashboardService,
		ReferenceService:   referenceService,
		Events:             events,
		RateLimitStore:     server.NewRateLimitStore(redisClient),
	}
	s.Start()
}

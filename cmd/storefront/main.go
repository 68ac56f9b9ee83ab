package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/matst80/slask-boutique/pkg/auth"
	"github.com/matst80/slask-boutique/pkg/cache"
	"github.com/matst80/slask-boutique/pkg/catalog"
	"github.com/matst80/slask-boutique/pkg/common"
	"github.com/matst80/slask-boutique/pkg/config"
	"github.com/matst80/slask-boutique/pkg/messaging"
	"github.com/matst80/slask-boutique/pkg/server"
	"github.com/matst80/slask-boutique/pkg/state"
	"github.com/matst80/slask-boutique/pkg/storage"
	"github.com/matst80/slask-boutique/pkg/tracking"
	"github.com/matst80/slask-boutique/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

func authHandler(cfg *config.Config) auth.AuthHandler {
	if cfg.HasGoogleAuth() {
		a, err := auth.NewGoogleAuth(auth.Settings{
			ClientId:     cfg.GoogleClientId,
			ClientSecret: cfg.GoogleClientSecret,
			CallbackUrl:  cfg.CallbackUrl,
			TokenSecret:  cfg.TokenSecret,
			ApiKey:       cfg.AdminApiKey,
			AdminEmails:  cfg.AdminEmails,
		})
		if err != nil {
			log.Fatalf("Failed to set up google login: %v", err)
		}
		return a
	}
	if cfg.AdminApiKey != "" {
		return &auth.ApiKeyAuth{ApiKey: cfg.AdminApiKey}
	}
	log.Println("No admin credentials configured, admin api is open")
	return &auth.MockAuth{}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	bands, err := config.LoadPriceBands(cfg.PriceBandsFile)
	if err != nil {
		log.Fatalf("Failed to load price bands: %v", err)
	}

	diskStorage := storage.NewDiskStorage(cfg.Country, cfg.DataDir)
	cat := catalog.New(catalog.NewClient(cfg.UpstreamUrl, cfg.UpstreamTimeout), diskStorage)

	sessions, err := state.NewStore(cfg.SessionLimit)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	responseCache, err := cache.NewCache(cache.Options{
		Addr:     cfg.RedisUrl,
		Password: cfg.RedisPassword,
		LocalTTL: cfg.CacheTtl,
	})
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	if responseCache.HasRemote() {
		if err := responseCache.Ping(context.Background()); err != nil {
			log.Printf("Redis not reachable, continuing with local cache: %v", err)
		}
	}

	ws := server.NewWebServer(cat, sessions, bands).WithCache(responseCache, cfg.CacheTtl)
	ws.Auth = authHandler(cfg)

	if cfg.RabbitUrl != "" {
		conn, err := amqp.Dial(cfg.RabbitUrl)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq: %v", err)
		} else {
			node, _ := os.Hostname()
			catalogSync, err := messaging.NewCatalogSync(conn, cfg.Country, node)
			if err != nil {
				log.Printf("Failed to set up catalog sync: %v", err)
			} else {
				ws.Notifier = catalogSync
				if err := catalogSync.Listen(func(change messaging.CatalogChange) {
					if _, err := cat.Refresh(context.Background()); err != nil {
						log.Printf("Refresh after change from %s failed: %v", change.Node, err)
					}
				}); err != nil {
					log.Printf("Failed to listen for catalog changes: %v", err)
				}
			}
			trackingConn, err := amqp.Dial(cfg.RabbitUrl)
			if err != nil {
				log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
			} else if tracker, err := tracking.NewRabbitTracking(trackingConn, cfg.Country); err != nil {
				log.Printf("Failed to set up tracking: %v", err)
				trackingConn.Close()
			} else {
				ws.Tracking = tracker
				sessions.OnChange = func(id string, s types.FilterState) {
					tracker.TrackFilterChange(id, &s)
				}
			}
			defer conn.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if _, err := cat.Refresh(ctx); err != nil {
			log.Printf("Initial catalog load failed: %v", err)
		}
		cat.Watch(ctx, cfg.RefreshInterval)
	}()

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeouts())
	servers := []*http.Server{
		common.NewServerWithTimeouts(cfg.ListenAddress, ws.Handler(), timeouts),
		common.NewServerWithTimeouts(cfg.DebugAddress, ws.DebugHandler(), timeouts),
	}

	common.RunServersWithShutdown("storefront", servers, timeouts,
		func(ctx context.Context) error {
			cancel()
			return nil
		},
		func(ctx context.Context) error {
			if err := cat.Save(); err != nil && !errors.Is(err, catalog.ErrNoSnapshot) {
				return err
			}
			log.Println("Catalog snapshot saved")
			return nil
		},
		func(ctx context.Context) error {
			if ws.Tracking != nil {
				return ws.Tracking.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			return responseCache.Close()
		},
	)
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/common"
	"github.com/matst80/part-finder/pkg/server"
	"github.com/matst80/part-finder/pkg/tracking"
	"github.com/matst80/part-finder/pkg/vehicle"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var country = os.Getenv("COUNTRY")
var productsFile = envOr("PRODUCTS_FILE", "data/products.jz")
var stateFile = envOr("STATE_FILE", "data/clientstate.json")
var fitmentUrl = os.Getenv("FITMENT_PROVIDER_URL")
var listenAddress = envOr("LISTEN_ADDRESS", ":8080")
var debugAddress = envOr("DEBUG_ADDRESS", ":8081")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func makeStorage() clientstate.Storage {
	if redisUrl != "" {
		log.Printf("client state in redis, url: %s", redisUrl)
		return clientstate.NewRedisStorage(redisUrl, redisPassword, 0, "pf")
	}
	if stateFile != "" {
		log.Printf("client state on disk: %s", stateFile)
		return clientstate.NewDiskStorage(stateFile)
	}
	return clientstate.NewMemoryStorage()
}

func main() {
	flag.Parse()

	repo := catalog.NewMemoryRepository()
	if err := repo.LoadFile(productsFile); err != nil {
		log.Printf("failed to load products from %s: %v", productsFile, err)
	} else {
		log.Printf("loaded %d products", repo.Len())
	}

	storage := makeStorage()
	ws := server.NewWebServer(repo, storage, nil)

	if rabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(rabbitUrl, country)
		if err != nil {
			log.Fatalf("failed to connect tracking: %v", err)
		}
		ws.Tracking = trk
		defer trk.Close()
	}

	if fitmentUrl != "" {
		ws.Options = vehicle.NewOptionProvider(fitmentUrl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ws.StartJanitor(ctx)

	debugMux := http.NewServeMux()
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: ws.CreateHandler(),
	}, timeouts)

	common.RunServerWithShutdown(srv, "part-finder api", timeouts.Shutdown, timeouts.Hook, func(ctx context.Context) error {
		if closer, ok := storage.(interface{ Close() error }); ok {
			return closer.Close()
		}
		return nil
	})
}

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mgrsgrid/internal/api"
	routes "mgrsgrid/internal/api/handlers"
	"mgrsgrid/internal/config"
	"mgrsgrid/internal/graticule"
	"mgrsgrid/internal/redis"
	"mgrsgrid/internal/stats"
	"mgrsgrid/internal/worker"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	logFile := setupLogging()
	defer logFile.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setLogLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := initializeCache(cfg)
	defer closeConnections()

	setupSignalHandler(cancel)

	collector, err := stats.NewCollector(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	g := initializeGraticule(cfg, collector)

	worker.StartAllWorkers(ctx, cfg.SQIDData, cfg.WatchInterval, config.MemoryStatsInterval, dirtyOnChange{g})

	runAPIServer(cfg, g, cache, collector)
}

func setupLogging() *os.File {
	// Set up logging to file and terminal
	logFile, err := os.OpenFile("mgrsgrid.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return logFile
}

func setLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func initializeCache(cfg config.Config) routes.Cache {
	if cfg.RedisUrl == "" {
		log.Println("REDIS_URL is not set, caching grid responses in memory")
		return routes.NewMemoryCache()
	}
	return redis.NewResponseCache(redis.Init(cfg.RedisUrl), "mgrs")
}

func initializeGraticule(cfg config.Config, collector *stats.Collector) *graticule.Graticule {
	g := graticule.New(graticule.Options{
		SQIDData:         cfg.SQIDData,
		UseDefaultStyles: cfg.UseDefaultStyles,
		Levels:           cfg.Levels(),
		MapMode:          cfg.MapMode,
		Evict:            true,
	}, nil, worker.NewExpansionPool(cfg.ExpandWorkers, collector), collector)

	start := time.Now()
	if err := g.Rebuild(); err != nil {
		log.Fatalf("Failed to build graticule: %v", err)
	}
	log.Printf("Graticule ready in %v, finest level %v m", time.Since(start), g.MaxResolution())
	return g
}

// dirtyOnChange defers the rebuild to the next request.
type dirtyOnChange struct {
	g *graticule.Graticule
}

func (d dirtyOnChange) Rebuild() error {
	d.g.Dirty()
	return nil
}

func runAPIServer(cfg config.Config, g *graticule.Graticule, cache routes.Cache, collector *stats.Collector) {
	r := gin.Default()

	config := map[string]string{
		"port":     cfg.Port,
		"sqidData": cfg.SQIDData,
		"mapMode":  cfg.MapMode,
	}
	api.SetupRouter(r, config, &routes.GridHandlers{Graticule: g, Cache: cache, TTL: cfg.CacheTTL}, collector.Handler())

	if err := r.Run(cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func closeConnections() {
	if err := redis.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}
}

func setupSignalHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutdown signal received, closing connections...")
		cancel()
		closeConnections()
		os.Exit(0)
	}()
}

package worker

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartAllWorkers initializes and starts all background workers
func StartAllWorkers(ctx context.Context, datasetPath string, watchInterval, statsInterval time.Duration, r Rebuilder) {
	log.Println("Starting all workers...")

	if datasetPath != "" && watchInterval > 0 {
		StartDatasetWatcher(ctx, datasetPath, watchInterval, r)
	}
	StartMemoryStatsWorker(ctx, statsInterval)

	log.Println("All workers started")
}

// StartMemoryStatsWorker periodically logs runtime memory usage
func StartMemoryStatsWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				log.Printf("Alloc = %v MiB, TotalAlloc = %v MiB, Sys = %v MiB, NumGC = %v",
					m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.NumGC)
			}
		}
	}()
}

package worker

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Rebuilder rebuilds the grid from its dataset.
type Rebuilder interface {
	Rebuild() error
}

// StartDatasetWatcher polls path and rebuilds the grid whenever the file
// modification time changes. It stops when ctx is done.
func StartDatasetWatcher(ctx context.Context, path string, interval time.Duration, r Rebuilder) {
	last := modTime(path)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("Dataset watcher stopped")
				return
			case <-ticker.C:
				current := modTime(path)
				if current.Equal(last) {
					continue
				}
				last = current
				log.Printf("Dataset watcher: %s changed, rebuilding grid", path)
				if err := r.Rebuild(); err != nil {
					log.Printf("Dataset watcher: rebuild failed: %v", err)
				}
			}
		}
	}()

	log.Println("Dataset watcher started with interval:", interval)
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

package credential

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// WatchDir watches dir for newly created oauth_creds_*.json files and adds
// them to m as they appear. It runs until stop is closed; any watcher setup
// error is logged and the function returns without blocking (best-effort —
// hot reload is an enrichment, not a requirement for the gateway to run).
func WatchDir(m *Manager, dir string, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("credential: failed to start directory watcher")
		return
	}
	if err := watcher.Add(dir); err != nil {
		log.WithError(err).WithField("dir", dir).Warn("credential: failed to watch directory")
		_ = watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") || !strings.Contains(event.Name, "oauth_creds_") {
					continue
				}
				cred, err := loadOne(event.Name)
				if err != nil {
					log.WithError(err).WithField("file", event.Name).Warn("credential: failed to load changed file")
					continue
				}
				m.Add(cred)
				log.WithField("credential", cred.ID).Info("credential: hot-reloaded from directory watch")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("credential: watcher error")
			}
		}
	}()
}

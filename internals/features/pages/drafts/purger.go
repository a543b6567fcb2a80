// file: internals/features/pages/drafts/purger.go

package drafts

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultPurgeSchedule = "@every 1h"

// StartPurger deletes expired drafts on a schedule. Stop the returned cron on shutdown.
func StartPurger(store *DocStore, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n, err := store.Purge(ctx)
		if err != nil {
			log.Printf("[DRAFTS-PURGER] purge failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[DRAFTS-PURGER] removed=%d", n)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[DRAFTS-PURGER] started schedule=%q", schedule)
	c.Start()
	return c, nil
}

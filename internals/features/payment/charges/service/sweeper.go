// file: internals/features/payment/charges/service/sweeper.go

package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultSweepSchedule = "@every 1m"

// StartSweeper polls awaiting charges and evicts expired attempts on a schedule.
// Stop the returned cron on shutdown.
func StartSweeper(flow *Flow, schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		refreshed, evicted := flow.Sweep(ctx)
		if refreshed > 0 || evicted > 0 {
			log.Printf("[PAYMENT-SWEEPER] refreshed=%d evicted=%d live=%d", refreshed, evicted, flow.Len())
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYMENT-SWEEPER] started schedule=%q", schedule)
	c.Start()
	return c, nil
}

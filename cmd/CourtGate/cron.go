package main

import (
	"context"
	"time"

	"CourtGate/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// healthCron runs the upstream health check on a fixed schedule so breaker
// and availability problems surface in the logs before a user request hits
// them.
type healthCron struct {
	uc     *biz.CourtIntegrationUsecase
	c      *cron.Cron
	helper *log.Helper
}

func newHealthCron(uc *biz.CourtIntegrationUsecase, logger log.Logger) *healthCron {
	return &healthCron{
		uc:     uc,
		c:      cron.New(cron.WithSeconds()),
		helper: log.NewHelper(logger),
	}
}

// start registers the job and starts the scheduler. Runs every 5 minutes.
func (h *healthCron) start(_ context.Context) error {
	_, err := h.c.AddFunc("0 */5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		report := h.uc.HealthCheck(ctx)
		status, _ := report["status"].(string)
		if status == "healthy" {
			h.helper.Debugw("periodic health check passed", "status", status)
		} else {
			h.helper.Warnw("periodic health check reported problems",
				"status", status,
				"report", report)
		}
	})
	if err != nil {
		return err
	}

	h.c.Start()
	h.helper.Info("health check cron started: runs every 5 minutes")
	return nil
}

func (h *healthCron) stop(_ context.Context) error {
	ctx := h.c.Stop()
	<-ctx.Done()
	h.helper.Info("health check cron stopped")
	return nil
}

// SPDX-License-Identifier: AGPL-3.0-only

// Package jobs runs the scheduled maintenance work of the API server,
// currently the nightly vendor performance recalculation.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/seshasairaw/smarthub-operations/internal/logging"
	"github.com/seshasairaw/smarthub-operations/internal/model"
	"github.com/seshasairaw/smarthub-operations/internal/store"
)

// Recalculator recomputes per-vendor delivery performance snapshots on a
// cron schedule. The dashboard's vendor performance endpoint serves the
// latest snapshot per vendor.
type Recalculator struct {
	cron     *cron.Cron
	store    store.Store
	schedule string
	logger   *logging.Logger
}

// NewRecalculator creates a Recalculator with the given cron schedule.
func NewRecalculator(st store.Store, schedule string, logger *logging.Logger) *Recalculator {
	c := cron.New(
		cron.WithChain(
			cron.Recover(cron.DefaultLogger),
		),
	)
	return &Recalculator{
		cron:     c,
		store:    st,
		schedule: schedule,
		logger:   logger,
	}
}

// Start schedules the recalculation and begins the cron loop. The loop stops
// when ctx is cancelled.
func (r *Recalculator) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(); err != nil {
			r.logger.Errorf("Vendor performance recalculation failed: %v", err)
		}
	}); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Infof("Vendor performance recalculation scheduled: %s", r.schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// Stop halts the cron loop.
func (r *Recalculator) Stop() {
	r.cron.Stop()
}

// RunOnce recalculates and persists a performance snapshot for every vendor
// with assigned shipments, dated today.
func (r *Recalculator) RunOnce() error {
	stats, err := r.store.VendorDeliveryStats()
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	for i := range stats {
		perf := &model.VendorPerformance{
			VendorID:         stats[i].VendorID,
			CalculationDate:  today,
			TotalShipments:   stats[i].TotalShipments,
			DeliveredTotal:   stats[i].DeliveredTotal,
			OnTimeDeliveries: stats[i].OnTimeDeliveries,
			OnTimeRate:       store.OnTimeRate(stats[i].OnTimeDeliveries, stats[i].DeliveredTotal),
			ExceptionCount:   stats[i].ExceptionCount,
		}
		if err := r.store.SaveVendorPerformance(perf); err != nil {
			return err
		}
		r.logger.Debugf("Saved performance snapshot for vendor %d: %.1f%% on time",
			perf.VendorID, perf.OnTimeRate)
	}

	r.logger.Infof("Recalculated performance for %d vendors", len(stats))
	return nil
}

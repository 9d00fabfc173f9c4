// Package cron runs the periodic maintenance jobs of neuron.
package cron

import (
	"context"
	"sync"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/metrics"
	"github.com/robfig/cron/v3"
)

// Setup initializes all crons on service startup
func Setup(ctx context.Context, wg *sync.WaitGroup, sweeper core.LeaseSweeper, logger lumber.Logger) {
	defer wg.Done()

	c := cron.New()
	if _, err := c.AddFunc(global.LockSweepInterval, func() { sweepExpiredLeases(ctx, sweeper, logger) }); err != nil {
		logger.Errorf("error setting up cron: %v", err)
		return
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Infof("Caller has requested graceful shutdown. Returning.....")
}

func sweepExpiredLeases(ctx context.Context, sweeper core.LeaseSweeper, logger lumber.Logger) {
	n, err := sweeper.SweepExpired(ctx)
	if err != nil {
		logger.Errorf("error sweeping expired leases: %v", err)
		return
	}
	if n > 0 {
		metrics.LeasesSwept.Add(float64(n))
		logger.Debugf("swept %d expired leases", n)
	}
}

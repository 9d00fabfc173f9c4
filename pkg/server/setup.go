// Package server runs the neuron HTTP API until its context is canceled.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/api"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// ListenAndServe initializes a server to respond to HTTP network requests.
func ListenAndServe(ctx context.Context, router api.Router, cfg *config.NeuronConfig, logger lumber.Logger) error {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Infof("Setting up http handler")

	errChan := make(chan error, 1)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      global.DefaultAPITimeout,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("listen: %v", err)
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infof("Caller has requested graceful shutdown. shutting down the server")
		// ctx is already done, in-flight requests get their own deadline
		shutdownCtx, cancel := context.WithTimeout(context.Background(), global.GracefulTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server Shutdown: %v", err)
			return err
		}
		return nil
	case err := <-errChan:
		return err
	}
}

package api

import (
	"github.com/LambdaTest/neuron/pkg/api/checkset"
	"github.com/LambdaTest/neuron/pkg/api/coverage"
	"github.com/LambdaTest/neuron/pkg/api/health"
	"github.com/LambdaTest/neuron/pkg/api/plugins"
	"github.com/LambdaTest/neuron/pkg/api/webhooks"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/metrics"
	"github.com/LambdaTest/neuron/pkg/webhook"
	"github.com/gin-gonic/gin"
)

// Router for neuron
type Router struct {
	logger          lumber.Logger
	checkRunService core.CheckRunService
	coverageService core.CoverageService
	dispatcher      *webhook.Dispatcher
	healthCheck     health.Checker
}

// NewRouter returns instance of Router
func NewRouter(logger lumber.Logger,
	checkRunService core.CheckRunService,
	coverageService core.CoverageService,
	dispatcher *webhook.Dispatcher,
	healthCheck health.Checker) Router {
	return Router{
		logger:          logger,
		checkRunService: checkRunService,
		coverageService: coverageService,
		dispatcher:      dispatcher,
		healthCheck:     healthCheck,
	}
}

// Handler function will perform all route operations
func (r Router) Handler() *gin.Engine {
	r.logger.Infof("Setting up routes")
	router := gin.New()
	router.Use(gin.LoggerWithWriter(lumber.NewWriter(r.logger)),
		gin.RecoveryWithWriter(lumber.NewLevelWriter(r.logger, lumber.Error)))

	router.GET("/health", health.Handler(r.healthCheck))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/webhooks/github", webhooks.Handler(r.logger, r.dispatcher))

	commit := router.Group("/repos/:repo_id/commits/:sha")
	{
		commit.POST("/check_set/run", checkset.RunHandler(r.logger, r.checkRunService))
		commit.POST("/check_set/reset", checkset.ResetHandler(r.logger, r.checkRunService))
		commit.POST("/check_set/pickup", checkset.PickupHandler(r.logger, r.checkRunService))
		commit.POST("/check_set/cancel", checkset.CancelHandler(r.logger, r.checkRunService))
		commit.POST("/check_set/wrap_up", checkset.WrapUpHandler(r.logger, r.checkRunService))
		commit.PATCH("/plugins/*plugin", plugins.PatchHandler(r.logger, r.checkRunService))
		commit.POST("/coverage", coverage.IngestHandler(r.logger, r.coverageService))
		commit.GET("/coverage/blocks", coverage.BlocksHandler(r.logger, r.coverageService))
	}
	return router
}

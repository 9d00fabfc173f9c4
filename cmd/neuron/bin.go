package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/api"
	"github.com/LambdaTest/neuron/pkg/api/health"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/cron"
	"github.com/LambdaTest/neuron/pkg/gitprovider"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/manifest"
	"github.com/LambdaTest/neuron/pkg/queue"
	"github.com/LambdaTest/neuron/pkg/server"
	"github.com/LambdaTest/neuron/pkg/service/checkrun"
	"github.com/LambdaTest/neuron/pkg/service/coverage"
	"github.com/LambdaTest/neuron/pkg/statusreporter"
	"github.com/LambdaTest/neuron/pkg/store/memory"
	"github.com/LambdaTest/neuron/pkg/store/postgres"
	"github.com/LambdaTest/neuron/pkg/webhook"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "neuron",
		Long:    `neuron tracks check runs and coverage of commits and dispatches check jobs to tas workers`,
		Version: global.NeuronBinaryVersion,
		Run:     run,
	}

	// define flags used for this command
	if err := AttachCLIFlags(&rootCmd); err != nil {
		fmt.Println("Error in attaching cli flags")
	}

	return &rootCmd
}

// backends are the collaborators that differ between local mode and a deployment.
type backends struct {
	store   core.Store
	locker  core.Locker
	sweeper core.LeaseSweeper
	queue   core.WorkQueue
	fetcher core.ContentFetcher
	sink    core.StatusSink
	health  health.Checker
}

func localBackends(cfg *config.NeuronConfig, logger lumber.Logger) *backends {
	locker := memory.NewLocker()
	return &backends{
		store:   memory.New(),
		locker:  locker,
		sweeper: locker,
		queue:   queue.NewMemory(logger),
		fetcher: diskFetcher{root: cfg.GitStorage.Path},
		sink:    statusreporter.NewLogSink(logger),
	}
}

func remoteBackends(ctx context.Context, cmd *cobra.Command, cfg *config.NeuronConfig, logger lumber.Logger) (*backends, error) {
	store, err := postgres.New(ctx, cfg.DB, logger)
	if err != nil {
		return nil, err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	workQueue, err := queue.NewKafka(cfg.Kafka, logger)
	if err != nil {
		return nil, err
	}
	client, err := gitprovider.NewClient(ctx, cfg.GitHub)
	if err != nil {
		return nil, err
	}
	locker := postgres.NewLocker(store.DB(), logger)
	return &backends{
		store:   store,
		locker:  locker,
		sweeper: locker,
		queue:   workQueue,
		fetcher: gitprovider.NewContentFetcher(client, logger),
		sink:    gitprovider.NewStatusSink(client),
		health:  store.DB().PingContext,
	}, nil
}

func run(cmd *cobra.Command, args []string) {
	// create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// a WaitGroup for the goroutines to tell us they've stopped
	wg := sync.WaitGroup{}

	// Load environment variables from .env if available
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: No .env file found\n")
	}

	cfg, err := config.LoadNeuronConfig(cmd)
	if err != nil {
		fmt.Printf("[Error] Failed to load config: %s\n", err.Error())
		os.Exit(1)
	}
	config.GlobalNeuronConfig = cfg

	// patch logconfig file location with root level log file location
	if cfg.LogFile != "" {
		cfg.LogConfig.FileLocation = filepath.Join(cfg.LogFile, "neuron.log")
	}

	// You can also use logrus implementation
	// by using lumber.InstanceLogrusLogger
	logger, err := lumber.NewLogger(cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Fatalf("Could not instantiate logger %s", err.Error())
	}
	if err := config.ValidateCfg(cfg, logger); err != nil {
		logger.Fatalf("Error loading neuron config: %v", err)
	}
	logger.Debugf("Running on local: %t", cfg.Local)

	var b *backends
	if cfg.Local {
		b = localBackends(cfg, logger)
	} else if b, err = remoteBackends(ctx, cmd, cfg, logger); err != nil {
		logger.Fatalf("failed to initialize backends: %v", err)
	}
	defer b.store.Close()
	defer b.queue.Close()

	parser, err := manifest.NewParser(logger)
	if err != nil {
		logger.Fatalf("failed to initialize manifest parser: %v", err)
	}
	reporter := statusreporter.New(b.sink, b.store, cfg.DashboardURL, logger)
	checkRunService := checkrun.New(b.store, b.locker, b.fetcher, parser, b.queue, reporter, cfg, logger)
	coverageService := coverage.New(b.store, b.locker, b.fetcher, parser, reporter, cfg, logger)

	dispatcher := webhook.NewDispatcher(cfg.GitHub.WebhookSecret, webhook.Table{
		webhook.EventPush: {webhook.NewPushHandler(checkRunService, logger)},
		webhook.EventPing: {webhook.NewPingHandler(logger)},
	}, logger)
	router := api.NewRouter(logger, checkRunService, coverageService, dispatcher, b.health)

	logger.Infof("LambdaTest Neuron version: %s", global.NeuronBinaryVersion)

	wg.Add(1)
	go func() {
		defer cancel()
		defer wg.Done()
		if err := server.ListenAndServe(ctx, router, cfg, logger); err != nil {
			logger.Errorf("server stopped: %v", err)
		}
	}()
	wg.Add(1)
	go cron.Setup(ctx, &wg, b.sweeper, logger)

	// listen for C-c
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// create channel to mark status of waitgroup
	// this is required to brutally kill application in case of
	// timeout
	done := make(chan struct{})

	// asynchronously wait for all the go routines
	go func() {
		// and wait for all go routines
		wg.Wait()
		logger.Debugf("main: all goroutines have finished.")
		close(done)
	}()

	// wait for signal channel
	select {
	case <-c:
		logger.Debugf("main: received C-c - attempting graceful shutdown ....")
		// tell the goroutines to stop
		logger.Debugf("main: telling goroutines to stop")
		cancel()
		select {
		case <-done:
			logger.Debugf("Go routines exited within timeout")
		case <-time.After(global.GracefulTimeout):
			logger.Errorf("Graceful timeout exceeded. Brutally killing the application")
		}
	case <-done:
	}
}

package cron

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	cron_config "github.com/dropradar/dropstack/internal/cron/config"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/tracing"
)

// CONSTANTS
const (
	// GroupDropstack is the group for pipeline jobs; ingestion and sweep
	// share it so they never overlap on the store
	GroupDropstack = "dropstack"

	// LeaseDuration is how long a lease lasts before needing renewal
	LeaseDuration = 15 * time.Second
	// RenewDeadline is how long a leader has to renew its lease
	RenewDeadline = 10 * time.Second
	// RetryPeriod is how long to wait between leadership attempts
	RetryPeriod = 2 * time.Second
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupDropstack: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg    *config.Config
	log    logger.Logger
	cron   *cronv3.Cron
	k8s    kubernetes.Interface
	stopCh chan struct{}
	jobIDs map[string]cronv3.EntryID
	ingest interfaces.IngestService
	sweep  interfaces.SweepService
}

func NewCronManager(cfg *config.Config, log logger.Logger, k8s kubernetes.Interface, ingest interfaces.IngestService, sweep interfaces.SweepService) *CronManager {
	return &CronManager{
		cfg:    cfg,
		log:    log,
		k8s:    k8s,
		stopCh: make(chan struct{}),
		jobIDs: make(map[string]cronv3.EntryID),
		ingest: ingest,
		sweep:  sweep,
	}
}

// Start initializes and starts the cron manager with leader election
// If k8s is nil, it will start in local mode without leader election
func (cm *CronManager) Start(podName, namespace string) error {
	if cm.k8s == nil || os.Getenv("LOCAL_DEV") == "true" {
		cm.log.Info("Starting cron manager in local mode")
		cm.StartCron()
		return nil
	}

	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{
			Name:      "dropstack-cron-leader",
			Namespace: namespace,
		},
		Client: cm.k8s.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: podName,
		},
	}

	errCh := make(chan error, 1)

	go func() {
		le, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
			Lock:            lock,
			ReleaseOnCancel: true,
			LeaseDuration:   LeaseDuration,
			RenewDeadline:   RenewDeadline,
			RetryPeriod:     RetryPeriod,
			Callbacks: leaderelection.LeaderCallbacks{
				OnStartedLeading: func(ctx context.Context) {
					cm.StartCron()
				},
				OnStoppedLeading: func() {
					cm.log.Info("Leader lost - stopping crons")
					cm.Stop()
				},
				OnNewLeader: func(identity string) {
					cm.log.Infof("New leader elected: %s", identity)
				},
			},
		})
		if err != nil {
			errCh <- err
			return
		}

		ctx := context.Background()
		le.Run(ctx)
	}()

	// Wait briefly to see if leader election fails immediately
	select {
	case err := <-errCh:
		cm.log.Warnf("Leader election failed, falling back to local mode: %v", err)
		cm.StartCron()
	case <-time.After(5 * time.Second):
		// Leader election seems to be working, continue normally
	}

	return nil
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	if cronConfig.CronScheduleHeartbeat != "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from pod: %s", podName)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	if cronConfig.CronScheduleIngest != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleIngest, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupDropstack].Lock()
			defer jobLocks.locks[GroupDropstack].Unlock()
			cm.runIngest()
		})
		if err != nil {
			cm.log.Fatalf("Could not add ingest cron job: %v", err)
		}
		cm.jobIDs["ingest"] = id
		cm.log.Infof("Registered ingest job with schedule: %s", cronConfig.CronScheduleIngest)
	}

	if cronConfig.CronScheduleSweep != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleSweep, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupDropstack].Lock()
			defer jobLocks.locks[GroupDropstack].Unlock()
			cm.runSweep()
		})
		if err != nil {
			cm.log.Fatalf("Could not add sweep cron job: %v", err)
		}
		cm.jobIDs["sweep"] = id
		cm.log.Infof("Registered sweep job with schedule: %s", cronConfig.CronScheduleSweep)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	// Create a new cron with seconds field enabled and panic recovery
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

func (cm *CronManager) runIngest() {
	cm.log.Info("Running scheduled ingestion")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runIngest")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	summary, err := cm.ingest.Run(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Scheduled ingestion failed: %v", err)
		return
	}

	cm.log.Infof("Scheduled ingestion completed: %d accepted of %d fetched", summary.Accepted, summary.Fetched)
}

func (cm *CronManager) runSweep() {
	cm.log.Info("Running scheduled lifecycle sweep")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runSweep")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	summary, err := cm.sweep.Run(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Scheduled sweep failed: %v", err)
		return
	}

	cm.log.Infof("Scheduled sweep completed: %d updated, %d purged", summary.Updated, summary.PurgedDropped)
}

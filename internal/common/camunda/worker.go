// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type WorkerConfig struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// JobWorker is an open job subscription for one task type.
type JobWorker struct {
	worker   worker.JobWorker
	logger   Logger
	taskType string
}

// StartWorker opens a job worker for taskType that dispatches to handler.
func StartWorker(client zbc.Client, taskType string, cfg WorkerConfig, handler worker.JobHandler, log Logger) *JobWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(cfg.Timeout).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": cfg.MaxJobsActive,
		"timeout_ms":    cfg.Timeout.Milliseconds(),
	})

	return &JobWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *JobWorker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}

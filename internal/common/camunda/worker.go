package camunda

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"leadflow/internal/common/logger"
)

// JobHandler is implemented by every job worker in internal/workers.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Worker is an open job subscription for one task type.
type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType on client.
func NewWorker(
	client zbc.Client,
	taskType string,
	maxJobsActive int,
	timeout time.Duration,
	handler JobHandler,
	log logger.Logger,
) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Name(fmt.Sprintf("%s-worker", taskType)).
		Open()

	log.Info("Worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": maxJobsActive,
		"timeout":       timeout.String(),
	})

	return &Worker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *Worker) Stop(ctx context.Context) {
	w.logger.Info("Stopping worker", map[string]interface{}{"taskType": w.taskType})

	done := make(chan struct{})
	go func() {
		w.worker.Close()
		w.worker.AwaitClose()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("Worker stop timed out", map[string]interface{}{"taskType": w.taskType})
	}
}

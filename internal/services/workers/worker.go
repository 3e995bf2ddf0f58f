package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/jobs"
)

// JobProcessor defines the interface for processing different job types
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *models.Job) error
	CanProcess(jobType models.JobType) bool
}

// allJobTypes is the claimable universe; a worker only claims the subset
// its processors cover.
var allJobTypes = []models.JobType{
	models.JobTypeSpeakerClassification,
	models.JobTypeTranscriptPolish,
	models.JobTypeChapterAutoLabel,
	models.JobTypeSampleExtraction,
	models.JobTypeReprocessDiarization,
}

// Worker represents a background worker that processes jobs
type Worker struct {
	id           string
	jobService   jobs.Service
	hub          *review.Hub
	processors   []JobProcessor
	stopChan     chan struct{}
	wg           sync.WaitGroup
	pollInterval time.Duration
}

// NewWorker creates a new worker instance
func NewWorker(id string, jobService jobs.Service, hub *review.Hub, pollInterval time.Duration) *Worker {
	return &Worker{
		id:           id,
		jobService:   jobService,
		hub:          hub,
		processors:   make([]JobProcessor, 0),
		stopChan:     make(chan struct{}),
		pollInterval: pollInterval,
	}
}

// RegisterProcessor registers a job processor
func (w *Worker) RegisterProcessor(processor JobProcessor) {
	w.processors = append(w.processors, processor)
}

// Start starts the worker in a goroutine
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the worker gracefully
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log.Printf("Worker %s starting", w.id)
	defer log.Printf("Worker %s stopped", w.id)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			if err := w.processNextJob(ctx); err != nil {
				log.Printf("Worker %s: error processing job: %v", w.id, err)
			}
		}
	}
}

// processNextJob claims and processes the next available job
func (w *Worker) processNextJob(ctx context.Context) error {
	var supportedTypes []models.JobType
	typeMap := make(map[models.JobType]bool)

	for _, jobType := range allJobTypes {
		for _, p := range w.processors {
			if p.CanProcess(jobType) && !typeMap[jobType] {
				supportedTypes = append(supportedTypes, jobType)
				typeMap[jobType] = true
			}
		}
	}

	if len(supportedTypes) == 0 {
		return fmt.Errorf("no job processors registered")
	}

	job, err := w.jobService.ClaimNextJob(ctx, w.id, supportedTypes)
	if err != nil {
		// No jobs available is not an error
		return nil
	}
	if job == nil {
		return nil
	}

	log.Printf("Worker %s claimed job %d (type: %s)", w.id, job.ID, job.Type)

	var processor JobProcessor
	for _, p := range w.processors {
		if p.CanProcess(job.Type) {
			processor = p
			break
		}
	}

	if processor == nil {
		return fmt.Errorf("no processor found for job type %s", job.Type)
	}

	err = processor.ProcessJob(ctx, job)
	if err != nil {
		if structuredErr, ok := err.(*models.StructuredJobError); ok {
			failErr := w.jobService.FailJobWithDetails(ctx, job.ID, structuredErr.Type, structuredErr.Code, structuredErr.Message, structuredErr.Details)
			if failErr != nil {
				log.Printf("Worker %s: failed to mark job %d as failed: %v", w.id, job.ID, failErr)
			}
		} else {
			failErr := w.jobService.FailJob(ctx, job.ID, err)
			if failErr != nil {
				log.Printf("Worker %s: failed to mark job %d as failed: %v", w.id, job.ID, failErr)
			}
		}
		w.publishFailure(ctx, job, err)
		return fmt.Errorf("job processing failed: %w", err)
	}

	log.Printf("Worker %s completed job %d", w.id, job.ID)
	w.publishTerminal(job, nil)
	return nil
}

// publishFailure publishes a terminal Failed event only once the job is
// out of retries. A job the queue will reclaim is about to re-run and
// re-emit progress; settling trackers on it would be premature.
func (w *Worker) publishFailure(ctx context.Context, job *models.Job, jobErr error) {
	updated, err := w.jobService.GetJob(ctx, job.ID)
	if err == nil && updated.IsRetryable() {
		log.Printf("Worker %s: job %d will be retried (%d/%d), holding failure event",
			w.id, job.ID, updated.RetryCount, updated.MaxRetries)
		return
	}
	w.publishTerminal(job, jobErr)
}

// publishTerminal pushes the job's final state into the event hub so
// episode-bound trackers can settle
func (w *Worker) publishTerminal(job *models.Job, jobErr error) {
	if w.hub == nil {
		return
	}
	episodeID, ok := job.EpisodeID()
	if !ok {
		log.Printf("Worker %s: job %d has no episode in payload, skipping event", w.id, job.ID)
		return
	}

	event := review.JobEvent{
		EpisodeID: episodeID,
		JobType:   job.Type,
		Status:    models.JobStatusCompleted,
		Progress:  100,
	}
	if jobErr != nil {
		event.Status = models.JobStatusFailed
		event.Error = jobErr.Error()
		event.Progress = job.Progress
	}
	w.hub.Publish(event)
}

// publishProgress pushes an intermediate progress event for a job.
// Shared by the processors.
func publishProgress(hub *review.Hub, job *models.Job, progress int) {
	if hub == nil {
		return
	}
	episodeID, ok := job.EpisodeID()
	if !ok {
		return
	}
	hub.Publish(review.JobEvent{
		EpisodeID: episodeID,
		JobType:   job.Type,
		Status:    models.JobStatusProcessing,
		Progress:  progress,
	})
}

// WorkerPool manages multiple workers
type WorkerPool struct {
	workers    []*Worker
	jobService jobs.Service
	mu         sync.RWMutex
	started    bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(jobService jobs.Service, hub *review.Hub, workerCount int, pollInterval time.Duration) *WorkerPool {
	pool := &WorkerPool{
		jobService: jobService,
		workers:    make([]*Worker, workerCount),
	}

	for i := 0; i < workerCount; i++ {
		workerID := fmt.Sprintf("worker-%d", i+1)
		pool.workers[i] = NewWorker(workerID, jobService, hub, pollInterval)
	}

	return pool
}

// RegisterProcessor registers a processor with all workers
func (p *WorkerPool) RegisterProcessor(processor JobProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, worker := range p.workers {
		worker.RegisterProcessor(processor)
	}
}

// Start starts all workers
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	log.Printf("Starting worker pool with %d workers", len(p.workers))

	for _, worker := range p.workers {
		worker.Start(ctx)
	}

	p.started = true
	return nil
}

// Stop stops all workers gracefully
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	log.Printf("Stopping worker pool")
	for _, worker := range p.workers {
		worker.Stop()
	}
	p.started = false
}

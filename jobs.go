package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"chat-ocr/ocr"
	"chat-ocr/transcript"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JobStore manages capture jobs and their statuses
type JobStore struct {
	sync.RWMutex
	jobs map[string]*CaptureJob
}

var (
	logger = logrus.New()

	jobStore = &JobStore{
		jobs: make(map[string]*CaptureJob),
	}
	jobQueue = make(chan *CaptureJob, 100) // Buffered channel with capacity of 100 jobs

	// captureTimeout bounds OCR plus analysis of a single capture.
	captureTimeout = 2 * time.Minute
)

func init() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
}

func generateJobID() string {
	return uuid.New().String()
}

// captureLogger returns a logger carrying the job ID
func captureLogger(jobID string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"prefix": "CAPTURE_JOB",
		"job_id": jobID,
	})
}

func (store *JobStore) addJob(job *CaptureJob) {
	store.Lock()
	defer store.Unlock()
	store.jobs[job.ID] = job
	captureLogger(job.ID).WithField("bytes", len(job.Image)).Info("Job added")
}

// getJob returns a snapshot of the job so callers never race with the worker.
func (store *JobStore) getJob(jobID string) (CaptureJob, bool) {
	store.RLock()
	defer store.RUnlock()
	job, exists := store.jobs[jobID]
	if !exists {
		return CaptureJob{}, false
	}
	return *job, true
}

func (store *JobStore) GetAllJobs() []CaptureJob {
	store.RLock()
	defer store.RUnlock()

	jobs := make([]CaptureJob, 0, len(store.jobs))
	for _, job := range store.jobs {
		jobs = append(jobs, *job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	return jobs
}

func (store *JobStore) updateJobStatus(jobID, status, errMsg string) {
	store.Lock()
	defer store.Unlock()
	if job, exists := store.jobs[jobID]; exists {
		job.Status = status
		if errMsg != "" {
			job.Error = errMsg
		}
		job.UpdatedAt = time.Now()
		captureLogger(jobID).WithField("status", status).Info("Job status updated")
	}
}

// completeJob stores the analysis and releases the image bytes.
func (store *JobStore) completeJob(jobID string, analysis *transcript.OcrAnalysis) {
	store.Lock()
	defer store.Unlock()
	if job, exists := store.jobs[jobID]; exists {
		job.Status = jobStatusCompleted
		job.Analysis = analysis
		job.Image = nil
		job.UpdatedAt = time.Now()
		captureLogger(jobID).Info("Job completed")
	}
}

func startWorkerPool(app *App, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go func(workerID int) {
			logger.Infof("Worker %d started", workerID)
			for job := range jobQueue {
				logger.Infof("Worker %d processing job: %s", workerID, job.ID)
				processJob(app, job)
			}
		}(i)
	}
}

func processJob(app *App, job *CaptureJob) {
	jobStore.updateJobStatus(job.ID, jobStatusInProgress, "")

	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	analysis, err := app.processCapture(ctx, job)
	if err != nil {
		captureLogger(job.ID).WithError(err).Error("Capture processing failed")
		jobStore.updateJobStatus(job.ID, jobStatusFailed, err.Error())
		return
	}
	jobStore.completeJob(job.ID, analysis)
}

// processCapture runs OCR on the cropped image and feeds the recognized blocks
// to the engine. The status bar was already cropped away, so the capture
// carries no excluded band of its own.
func (app *App) processCapture(ctx context.Context, job *CaptureJob) (*transcript.OcrAnalysis, error) {
	if app.OCR == nil {
		return nil, fmt.Errorf("no OCR provider configured")
	}
	result, err := app.OCR.ProcessImage(ctx, job.Image)
	if err != nil {
		return nil, fmt.Errorf("error performing OCR for capture %s: %w", job.ID, err)
	}
	if result == nil {
		return nil, fmt.Errorf("OCR provider returned no result for capture %s", job.ID)
	}

	captureLogger(job.ID).WithFields(logrus.Fields{
		"blocks":       len(result.Blocks),
		"image_width":  result.ImageWidth,
		"image_height": result.ImageHeight,
	}).Debug("OCR finished")

	return app.Engine().Analyze(captureFromResult(result)), nil
}

func captureFromResult(result *ocr.Result) transcript.Capture {
	return transcript.Capture{
		Blocks:       result.Blocks,
		ScreenWidth:  result.ImageWidth,
		ScreenHeight: result.ImageHeight,
	}
}

package services

import (
	"context"
	"sync"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/models"
)

// BatchJob is one resume file queued for analysis.
type BatchJob struct {
	Path           string
	JobDescription string
}

// BatchResult pairs a job with its analysis or the error that stopped it.
type BatchResult struct {
	Path   string
	Result *models.AnalysisResult
	Err    error
}

// BatchRunner analyzes many resumes with a fixed number of workers. Each
// job is independent; one failure does not stop the others.
type BatchRunner interface {
	Run(ctx context.Context, jobs []BatchJob) <-chan BatchResult
}

type batchRunner struct {
	parser      PDFParserService
	analyzer    ResumeAnalyzer
	concurrency int
	log         logger.Logger
}

func NewBatchRunner(parser PDFParserService, analyzer ResumeAnalyzer, concurrency int, log logger.Logger) BatchRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &batchRunner{
		parser:      parser,
		analyzer:    analyzer,
		concurrency: concurrency,
		log:         log,
	}
}

// Run returns a channel that yields one result per job and is closed once
// every job has finished or ctx is cancelled.
func (b *batchRunner) Run(ctx context.Context, jobs []BatchJob) <-chan BatchResult {
	jobQueue := make(chan BatchJob)
	results := make(chan BatchResult, b.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go b.process(ctx, i+1, jobQueue, results, &wg)
	}

	go func() {
		defer close(jobQueue)
		for _, job := range jobs {
			select {
			case jobQueue <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (b *batchRunner) process(ctx context.Context, workerID int, jobs <-chan BatchJob, results chan<- BatchResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		log := b.log.WithFields(map[string]interface{}{"worker": workerID, "path": job.Path})
		log.Debug("processing resume", nil)

		res := BatchResult{Path: job.Path}
		text, err := b.parser.ExtractText(job.Path)
		if err == nil {
			res.Result, err = b.analyzer.Analyze(ctx, text, job.JobDescription)
		}
		res.Err = err

		if err != nil {
			log.WithError(err).Warn("resume failed", nil)
		}

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
}

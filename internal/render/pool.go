package render

import "sync"

// Job is one unit of frame work: a band of pixel rows, a raster tile or a
// run of terrain vertices. Jobs of one batch write disjoint memory.
type Job func()

// WorkerPool is a fixed set of goroutines shared by all renderers.
type WorkerPool struct {
	jobQueue chan Job
	workers  int
	wg       sync.WaitGroup

	// mu guards closed; submitters hold it shared while sending so the
	// queue is never closed under them.
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool and starts its workers
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	workers = max(workers, 1)

	pool := &WorkerPool{
		jobQueue: make(chan Job, max(queueSize, 0)),
		workers:  workers,
	}

	for range workers {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// SubmitJob queues a job without blocking.
// Returns false if the queue is full or the pool is shut down.
func (p *WorkerPool) SubmitJob(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking waits for queue space. Returns false if the pool is
// shut down.
func (p *WorkerPool) SubmitJobBlocking(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.jobQueue <- job
	return true
}

// Run executes a batch and returns once every job has finished. Jobs the
// pool cannot accept run on the calling goroutine, so a batch always
// completes.
func (p *WorkerPool) Run(jobs []Job) {
	var batch sync.WaitGroup
	for _, job := range jobs {
		batch.Add(1)
		wrapped := func() {
			defer batch.Done()
			job()
		}
		if !p.SubmitJobBlocking(wrapped) {
			wrapped()
		}
	}
	batch.Wait()
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for job := range p.jobQueue {
		job()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
// It is safe to call more than once.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobQueue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *WorkerPool) Workers() int { return p.workers }

// QueueLength returns the number of jobs waiting for a worker
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}

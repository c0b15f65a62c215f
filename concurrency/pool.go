package concurrency

import (
	"sync"
)

// WorkerPool runs side effects (alert playback) off the countdown goroutine
// with a bounded number of workers
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan func()
	wg         sync.WaitGroup
	started    bool
	stopped    bool
	onPanic    func(recovered interface{})
	mu         sync.RWMutex
}

// NewWorkerPool creates a new worker pool with the specified max workers
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1 // alerts are rare, one worker keeps them ordered
	}

	return &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan func(), maxWorkers*4),
	}
}

// SetPanicHandler registers a function called with the recovered value when a
// task panics. Without a handler the panic is swallowed.
func (p *WorkerPool) SetPanicHandler(f func(recovered interface{})) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPanic = f
}

// Start starts the worker pool
func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}

	p.started = true

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker drains the queue until it is closed by Stop
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for task := range p.taskQueue {
		p.run(task)
	}
}

func (p *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.mu.RLock()
			handler := p.onPanic
			p.mu.RUnlock()

			if handler != nil {
				handler(r)
			}
		}
	}()

	task()
}

// Submit submits a task to the worker pool.
// This will block if the queue is full. A pool that was never started runs
// the task synchronously; a stopped pool drops it and returns false.
func (p *WorkerPool) Submit(task func()) bool {
	p.mu.RLock()

	if p.stopped {
		p.mu.RUnlock()
		return false
	}

	if !p.started {
		p.mu.RUnlock()
		p.run(task)
		return true
	}

	// Holding the read lock keeps Stop from closing the queue under us
	defer p.mu.RUnlock()
	p.taskQueue <- task
	return true
}

// TrySubmit is Submit without blocking: it returns false when the queue is
// full or the pool is stopped
func (p *WorkerPool) TrySubmit(task func()) bool {
	p.mu.RLock()

	if p.stopped {
		p.mu.RUnlock()
		return false
	}

	if !p.started {
		p.mu.RUnlock()
		p.run(task)
		return true
	}

	defer p.mu.RUnlock()

	select {
	case p.taskQueue <- task:
		return true
	default:
		return false
	}
}

// Stop stops accepting tasks and waits for the queued ones to finish
func (p *WorkerPool) Stop() {
	p.mu.Lock()

	if p.stopped {
		p.mu.Unlock()
		return
	}

	p.stopped = true
	wasStarted := p.started
	p.started = false
	close(p.taskQueue)
	p.mu.Unlock()

	if wasStarted {
		p.wg.Wait()
	}
}

// QueueLength returns the current number of tasks in the queue
func (p *WorkerPool) QueueLength() int {
	return len(p.taskQueue)
}

// MaxWorkers returns the maximum number of workers in the pool
func (p *WorkerPool) MaxWorkers() int {
	return p.maxWorkers
}

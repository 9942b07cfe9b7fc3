package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		res := jobFunc(job)
		wp.results <- res
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker returned, then closes the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

type indexed[T any] struct {
	index int
	value T
}

// Map runs fn over jobs on at most numWorkers goroutines. results[i] is fn(jobs[i]).
func Map[T any, G any](numWorkers int, jobs []T, fn func(job T) G) []G {
	results := make([]G, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	wp := NewWorkerPool[indexed[T], indexed[G]](min(numWorkers, len(jobs)), len(jobs))
	wp.Start(func(job indexed[T]) indexed[G] {
		return indexed[G]{index: job.index, value: fn(job.value)}
	})

	for i, job := range jobs {
		wp.AddJob(indexed[T]{index: i, value: job})
	}
	wp.Close()
	wp.Wait()

	for res := range wp.CollectResults() {
		results[res.index] = res.value
	}
	return results
}

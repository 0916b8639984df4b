package workers

import (
	"log"
	"sync"

	"github.com/snapmag/studio-backend/studio"
)

// RehydrationJob asks for one resumed photo item's original bytes to be
// restored from the object store. OnDone, if set, runs after the attempt with
// whether a substitution happened (typically to persist the updated
// reference).
type RehydrationJob struct {
	Item   *studio.PhotoItem
	OnDone func(item *studio.PhotoItem, swapped bool)
}

// Rehydrator runs rehydration in the background so a resumed gallery renders
// immediately on its low-fidelity proxies while full-resolution originals are
// swapped in as they arrive (fire-and-replace, never fire-and-block).
type Rehydrator struct {
	JobQueue chan RehydrationJob
	Svc      *studio.Service
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewRehydrator(svc *studio.Service, queueSize, numWorkers int) *Rehydrator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	r := &Rehydrator{
		JobQueue: make(chan RehydrationJob, queueSize),
		Svc:      svc,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}
	r.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go r.worker(i)
	}
	log.Printf("started %d rehydration worker(s) with queue size %d", numWorkers, queueSize)
	return r
}

func (r *Rehydrator) worker(id int) {
	defer r.Wg.Done()
	log.Printf("rehydration worker %d started", id)
	for {
		select {
		case job, ok := <-r.JobQueue:
			if !ok {
				log.Printf("rehydration worker %d stopping: job queue closed", id)
				return
			}
			swapped := r.Svc.Rehydrate(job.Item)
			if job.OnDone != nil {
				job.OnDone(job.Item, swapped)
			}
			r.Mutex.Lock()
			delete(r.Pending, job.Item.ID)
			r.Mutex.Unlock()

		case <-r.StopChan:
			log.Printf("rehydration worker %d stopping: stop signal received", id)
			return
		}
	}
}

// QueueJob enqueues a rehydration attempt, deduplicating by item id. returns
// false when the item is already pending or the queue is full; a full queue
// just means the item keeps its low-fidelity bytes for now.
func (r *Rehydrator) QueueJob(job RehydrationJob) bool {
	if !studio.NeedsRehydration(job.Item) {
		return false
	}

	r.Mutex.Lock()
	if r.Pending[job.Item.ID] {
		r.Mutex.Unlock()
		return false
	}
	r.Pending[job.Item.ID] = true
	r.Mutex.Unlock()

	select {
	case r.JobQueue <- job:
		return true
	default:
		r.Mutex.Lock()
		delete(r.Pending, job.Item.ID)
		r.Mutex.Unlock()
		log.Printf("rehydration queue full, dropping job for %s", job.Item.ID)
		return false
	}
}

// Stop signals all workers and waits for them to exit
func (r *Rehydrator) Stop() {
	close(r.StopChan)
	r.Wg.Wait()
}

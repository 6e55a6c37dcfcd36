package scheduler

import (
	"container/heap"
	"sync"

	"asset-forge/core/models"
)

// JobQueue is a FIFO queue of pending jobs. Submission order is encoded as
// a monotonic sequence number, so ordering is total even when jobs share a
// creation timestamp.
type JobQueue struct {
	jobs []*queuedJob
	seq  uint64
	mu   sync.Mutex
}

// queuedJob wraps a job with its submission sequence number
type queuedJob struct {
	job   *models.Job
	seq   uint64
	index int // for heap.Interface
}

// NewJobQueue creates a new job queue
func NewJobQueue() *JobQueue {
	jq := &JobQueue{jobs: make([]*queuedJob, 0)}
	heap.Init(jq)
	return jq
}

// Enqueue adds a job to the back of the queue
func (jq *JobQueue) Enqueue(job *models.Job) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	jq.seq++
	heap.Push(jq, &queuedJob{job: job, seq: jq.seq})
}

// PopJob removes and returns the oldest pending job, or nil when empty
func (jq *JobQueue) PopJob() *models.Job {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if jq.Len() == 0 {
		return nil
	}
	item := heap.Pop(jq).(*queuedJob)
	return item.job
}

// Size returns the number of queued jobs
func (jq *JobQueue) Size() int {
	jq.mu.Lock()
	defer jq.mu.Unlock()
	return jq.Len()
}

// Len implements heap.Interface
func (jq *JobQueue) Len() int {
	return len(jq.jobs)
}

// Less orders jobs by submission sequence
func (jq *JobQueue) Less(i, j int) bool {
	return jq.jobs[i].seq < jq.jobs[j].seq
}

// Swap swaps two jobs
func (jq *JobQueue) Swap(i, j int) {
	jq.jobs[i], jq.jobs[j] = jq.jobs[j], jq.jobs[i]
	jq.jobs[i].index = i
	jq.jobs[j].index = j
}

// Push implements heap.Interface
func (jq *JobQueue) Push(x interface{}) {
	item := x.(*queuedJob)
	item.index = len(jq.jobs)
	jq.jobs = append(jq.jobs, item)
}

// Pop implements heap.Interface
func (jq *JobQueue) Pop() interface{} {
	old := jq.jobs
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	jq.jobs = old[0 : n-1]
	return item
}

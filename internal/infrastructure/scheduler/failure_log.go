package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FailedJob is a snapshot of a job that exhausted its retries
type FailedJob struct {
	JobID      uuid.UUID `json:"job_id"`
	Type       JobType   `json:"type"`
	Date       time.Time `json:"date"`
	Error      string    `json:"error"`
	RetryCount int       `json:"retry_count"`
	FailedAt   time.Time `json:"failed_at"`
}

// FailureLog is a bounded, in-memory record of permanently failed jobs.
// When full, the oldest record is dropped to make room.
type FailureLog struct {
	mu       sync.RWMutex
	capacity int
	records  []FailedJob
}

// NewFailureLog creates a failure log holding at most capacity records
func NewFailureLog(capacity int) *FailureLog {
	if capacity <= 0 {
		capacity = 500
	}
	return &FailureLog{
		capacity: capacity,
		records:  make([]FailedJob, 0, capacity),
	}
}

// Record stores a snapshot of the failed job
func (l *FailureLog) Record(job *Job) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) >= l.capacity {
		copy(l.records, l.records[1:])
		l.records = l.records[:len(l.records)-1]
	}
	l.records = append(l.records, FailedJob{
		JobID:      job.ID,
		Type:       job.Type,
		Date:       job.Date,
		Error:      job.Error,
		RetryCount: job.RetryCount,
		FailedAt:   time.Now(),
	})
}

// All returns the failed jobs, newest last
func (l *FailureLog) All() []FailedJob {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]FailedJob, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded failures
func (l *FailureLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

package services

import (
	"sync"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driving"
)

// runStatus is the shared progress state of one audit run. The producer and
// consumer update it from their own goroutines; snapshots are safe to take
// at any time.
type runStatus struct {
	mu     sync.Mutex
	status driving.AuditStatus
}

func newRunStatus() *runStatus {
	return &runStatus{}
}

func (s *runStatus) start(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = driving.AuditStatus{RunID: runID, Running: true}
}

func (s *runStatus) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
}

func (s *runStatus) addFetched(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.ReposFetched += n
}

func (s *runStatus) addProcessed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.ReposProcessed += n
}

func (s *runStatus) addCodeownersFound(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.CodeownersFound += n
}

func (s *runStatus) addErrors(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.ErrorCount += n
}

func (s *runStatus) snapshot() driving.AuditStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

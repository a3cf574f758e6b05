package main

import (
	"sync"

	"bitbucket.org/atlanticstays/talkguest_backend/etl"
)

const (
	fileTypeGuests       = "guests"
	fileTypeReservations = "reservations"
	fileTypeInvoices     = "invoices"
)

type uploadedFile struct {
	Filename string
	Table    etl.Table
}

// dataStore holds everything the service knows between requests: the parsed
// upload tables and the latest pipeline result. Process-local only, guarded
// by a mutex; a restart wipes it.
type dataStore struct {
	mu     sync.RWMutex
	files  map[string]*uploadedFile
	result *etl.Result
	state  etl.State
}

func newDataStore() *dataStore {
	return &dataStore{
		files: make(map[string]*uploadedFile),
		state: etl.StateNotStarted,
	}
}

func (s *dataStore) PutFile(fileType string, f *uploadedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileType] = f
	// A fresh upload invalidates any previously computed reports.
	s.result = nil
	s.state = etl.StateNotStarted
}

func (s *dataStore) File(fileType string) (*uploadedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileType]
	return f, ok
}

func (s *dataStore) DeleteFile(fileType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fileType]; !ok {
		return false
	}
	delete(s.files, fileType)
	s.result = nil
	s.state = etl.StateNotStarted
	return true
}

func (s *dataStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]*uploadedFile)
	s.result = nil
	s.state = etl.StateNotStarted
}

// ReadyToProcess reports whether both mandatory tables are uploaded.
func (s *dataStore) ReadyToProcess() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, hasGuests := s.files[fileTypeGuests]
	_, hasReservations := s.files[fileTypeReservations]
	return hasGuests && hasReservations
}

func (s *dataStore) SetResult(result *etl.Result, state etl.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.state = state
}

func (s *dataStore) Result() (*etl.Result, etl.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.state
}

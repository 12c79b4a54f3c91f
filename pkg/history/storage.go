package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultStorageFileName = ".ape-swap-history.json"
)

// Status of a recorded purchase
type Status string

const (
	StatusApproved Status = "approved" // Transfer broadcast and accepted by the backend
	StatusFailed   Status = "failed"   // Transfer or backend report failed
)

// Record is one purchase attempt
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	TxHash       string    `json:"tx_hash,omitempty"`
	SourceAmount string    `json:"source_amount"`
	TargetAmount string    `json:"target_amount"`
	Network      string    `json:"network"`
	Status       Status    `json:"status"`
	Message      string    `json:"message,omitempty"`
}

// Storage persists purchase records in a JSON file
type Storage struct {
	filePath string
	mu       sync.RWMutex
	records  []*Record
}

type fileFormat struct {
	Records []*Record `json:"records"`
}

// NewStorage opens the history at filePath, defaulting to the home directory
func NewStorage(filePath string) (*Storage, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	storage := &Storage{filePath: filePath}

	// A missing file is created on first save
	if err := storage.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return storage, nil
}

func (s *Storage) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	s.records = f.Records
	return nil
}

// saveLocked writes the records atomically. Caller holds mu.
func (s *Storage) saveLocked() error {
	data, err := json.MarshalIndent(fileFormat{Records: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Add assigns an ID and timestamp if missing and persists the record
func (s *Storage) Add(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	s.records = append(s.records, record)
	return s.saveLocked()
}

// Get retrieves a record by ID or transaction hash
func (s *Storage) Get(key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == key || (r.TxHash != "" && r.TxHash == key) {
			return r, nil
		}
	}

	return nil, fmt.Errorf("record '%s' not found", key)
}

// List returns records newest first, at most limit when limit > 0
func (s *Storage) List(limit int) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Record, len(s.records))
	copy(records, s.records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

// Count returns the number of records
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// GetFilePath returns the storage file path
func (s *Storage) GetFilePath() string {
	return s.filePath
}

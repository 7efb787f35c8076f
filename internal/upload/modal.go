package upload

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	apperrors "lumen/internal/errors"
	"lumen/internal/logger"
	"lumen/internal/models"
)

// DefaultCloseDelay is how long the modal lingers after a successful upload.
const DefaultCloseDelay = 2 * time.Second

// Uploader sends a receipt or invoice to the backend.
type Uploader interface {
	UploadFile(ctx context.Context, name string, r io.Reader) (*models.UploadResult, error)
}

// Notifier surfaces upload outcomes.
type Notifier interface {
	Success(message string) string
	Error(message string) string
}

// File is a selected file awaiting upload.
type File struct {
	Name string
	Data []byte
}

// State is the read view of the modal.
type State struct {
	Open      bool   `json:"open"`
	FileName  string `json:"file_name,omitempty"`
	Uploading bool   `json:"uploading"`
	Succeeded bool   `json:"succeeded"`
}

// Modal drives the select, submit and auto-close flow of the upload modal.
type Modal struct {
	mu         sync.Mutex
	coord      *Coordinator
	uploader   Uploader
	notifier   Notifier
	closeDelay time.Duration
	file       *File
	uploading  bool
	succeeded  bool
	closeTimer *time.Timer
}

// NewModal creates a modal bound to the shared coordinator.
func NewModal(coord *Coordinator, uploader Uploader, notifier Notifier, closeDelay time.Duration) *Modal {
	return &Modal{
		coord:      coord,
		uploader:   uploader,
		notifier:   notifier,
		closeDelay: closeDelay,
	}
}

// Select stages f for upload, replacing any earlier selection.
func (m *Modal) Select(f File) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.file = &f
	m.succeeded = false
}

// Submit uploads the selected file. On success the modal closes itself
// after the close delay; on failure it stays open with the file selected.
func (m *Modal) Submit(ctx context.Context) (*models.UploadResult, error) {
	m.mu.Lock()
	if m.file == nil {
		m.mu.Unlock()
		return nil, apperrors.ErrNoFileSelected
	}
	if m.uploading {
		m.mu.Unlock()
		return nil, apperrors.ErrUploadBusy
	}
	m.uploading = true
	file := *m.file
	m.mu.Unlock()

	result, err := m.uploader.UploadFile(ctx, file.Name, bytes.NewReader(file.Data))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploading = false

	if err != nil {
		logger.Get().Warnw("upload failed", "file", file.Name, "error", err)
		m.notifier.Error(apperrors.Message(err))
		return nil, err
	}

	m.succeeded = true
	message := "File uploaded successfully!"
	if result.TransactionID != nil {
		message += " Transaction created."
	}
	m.notifier.Success(message)

	if m.closeTimer != nil {
		m.closeTimer.Stop()
	}
	m.closeTimer = time.AfterFunc(m.closeDelay, m.finish)
	return result, nil
}

// Dismiss closes the modal immediately and clears the selection.
func (m *Modal) Dismiss() {
	m.finish()
}

// State returns the current modal state.
func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{Open: m.coord.IsOpen(), Uploading: m.uploading, Succeeded: m.succeeded}
	if m.file != nil {
		s.FileName = m.file.Name
	}
	return s
}

// Close stops a pending auto-close.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closeTimer != nil {
		m.closeTimer.Stop()
		m.closeTimer = nil
	}
}

func (m *Modal) finish() {
	m.mu.Lock()
	if m.closeTimer != nil {
		m.closeTimer.Stop()
		m.closeTimer = nil
	}
	m.file = nil
	m.succeeded = false
	m.mu.Unlock()

	m.coord.Close()
}

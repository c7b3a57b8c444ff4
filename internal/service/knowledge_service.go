package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/jobs"
)

const uploadJobType = "knowledge_upload"

type knowledgeRepository interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error)
	Documents(ctx context.Context) ([]models.KnowledgeDocument, error)
	DeleteDocument(ctx context.Context, filename string) (*models.MessageResponse, error)
	Status(ctx context.Context) (*models.KnowledgeStatus, error)
}

// KnowledgeConfig bounds what may be uploaded and how uploads are retried. KeepFinished caps how
// many succeeded or failed tickets stay pollable; the oldest finished ones are dropped first.
type KnowledgeConfig struct {
	MaxUploadBytes    int64
	AllowedExtensions []string
	Workers           int
	Retries           int
	RetryDelay        time.Duration
	KeepFinished      int
}

// extensionMIMEs lists the detected content types accepted for each extension. A detected type
// matches when it or one of its parents is listed.
var extensionMIMEs = map[string][]string{
	".pdf":  {"application/pdf"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".md":   {"text/plain"},
	".txt":  {"text/plain"},
	".json": {"application/json", "text/plain"},
}

type uploadPayload struct {
	Filename string
	Content  []byte
}

// KnowledgeService validates documents and uploads them to the knowledge service in the
// background, tracking each upload with a ticket the renderer can poll.
type KnowledgeService struct {
	repo    knowledgeRepository
	cfg     KnowledgeConfig
	queue   *jobs.Queue[uploadPayload]
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	tickets  map[string]*models.UploadTicket
	finished []string
	allowed  map[string]bool
}

// NewKnowledgeService constructs the service. Call Start before uploading.
func NewKnowledgeService(repo knowledgeRepository, cfg KnowledgeConfig, metrics *MetricsService, logger *zap.Logger) *KnowledgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = []string{".md", ".pdf", ".docx", ".txt", ".json"}
	}
	if cfg.KeepFinished <= 0 {
		cfg.KeepFinished = 100
	}
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	s := &KnowledgeService{
		repo:    repo,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		tickets: make(map[string]*models.UploadTicket),
		allowed: allowed,
	}
	s.queue = jobs.NewQueue("knowledge-uploads", s.process, jobs.QueueConfig[uploadPayload]{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnGiveUp:   s.giveUp,
	})
	return s
}

// Start launches the upload workers.
func (s *KnowledgeService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the upload workers to exit.
func (s *KnowledgeService) Stop() {
	s.queue.Stop()
}

// Upload checks the document and queues it. The returned ticket is in the queued state.
func (s *KnowledgeService) Upload(_ context.Context, filename string, content io.Reader) (*models.UploadTicket, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile, "a file name is required")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowed[ext] {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile,
			fmt.Sprintf("unsupported file type %q; allowed: %s", ext, strings.Join(s.cfg.AllowedExtensions, ", ")))
	}

	data, err := io.ReadAll(io.LimitReader(content, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge,
			fmt.Sprintf("file is larger than %d MB", s.cfg.MaxUploadBytes>>20))
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile, "file is empty")
	}

	detected := mimetype.Detect(data)
	if !contentMatches(ext, detected) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile,
			fmt.Sprintf("file content (%s) does not match the %s extension", detected.String(), ext))
	}

	now := s.now()
	ticket := &models.UploadTicket{
		ID:        uuid.NewString(),
		Filename:  filename,
		Size:      int64(len(data)),
		MIMEType:  detected.String(),
		State:     models.UploadQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.tickets[ticket.ID] = ticket
	s.mu.Unlock()

	job := jobs.Job[uploadPayload]{ID: ticket.ID, Type: uploadJobType, Payload: uploadPayload{Filename: filename, Content: data}}
	if err := s.queue.Enqueue(job); err != nil {
		s.finish(ticket.ID, models.UploadFailed, nil, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "upload queue unavailable")
	}
	s.logger.Info("knowledge upload queued", zap.String("ticket_id", ticket.ID), zap.String("filename", filename), zap.Int64("size", ticket.Size))
	return s.Ticket(ticket.ID)
}

// Ticket returns a copy of one upload ticket.
func (s *KnowledgeService) Ticket(id string) (*models.UploadTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "upload not found")
	}
	copied := *ticket
	return &copied, nil
}

// Tickets returns every upload, newest first.
func (s *KnowledgeService) Tickets() []models.UploadTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UploadTicket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// QueueStats reports upload queue occupancy.
func (s *KnowledgeService) QueueStats() jobs.Stats {
	return s.queue.Stats()
}

// Documents lists stored documents.
func (s *KnowledgeService) Documents(ctx context.Context) ([]models.KnowledgeDocument, error) {
	return s.repo.Documents(ctx)
}

// DeleteDocument removes a stored document.
func (s *KnowledgeService) DeleteDocument(ctx context.Context, filename string) (*models.MessageResponse, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "filename is required")
	}
	return s.repo.DeleteDocument(ctx, filename)
}

// Status reports the knowledge base backing store.
func (s *KnowledgeService) Status(ctx context.Context) (*models.KnowledgeStatus, error) {
	return s.repo.Status(ctx)
}

// process uploads one document. Client-side refusals (4xx) fail the ticket at once; network and
// server failures are returned so the queue retries them.
func (s *KnowledgeService) process(ctx context.Context, job jobs.Job[uploadPayload]) error {
	s.update(job.ID, func(t *models.UploadTicket) {
		t.State = models.UploadRunning
		t.Attempts = job.Attempt + 1
	})
	result, err := s.repo.Upload(ctx, job.Payload.Filename, bytes.NewReader(job.Payload.Content))
	if err == nil {
		s.finish(job.ID, models.UploadSucceeded, result, nil)
		return nil
	}
	if !appErrors.HasCode(err, appErrors.CodeUpstream) {
		s.finish(job.ID, models.UploadFailed, nil, err)
		return nil
	}
	s.update(job.ID, func(t *models.UploadTicket) {
		t.State = models.UploadQueued
		t.Error = appErrors.Message(err)
	})
	return err
}

func (s *KnowledgeService) giveUp(job jobs.Job[uploadPayload], err error) {
	s.finish(job.ID, models.UploadFailed, nil, err)
}

func (s *KnowledgeService) finish(id string, state models.UploadState, result *models.UploadResult, err error) {
	s.update(id, func(t *models.UploadTicket) {
		t.State = state
		t.Result = result
		t.Error = ""
		if err != nil {
			t.Error = appErrors.Message(err)
		}
	})
	s.retire(id)
	s.metrics.RecordUpload(state)
	if err != nil {
		s.logger.Warn("knowledge upload failed", zap.String("ticket_id", id), zap.Error(err))
		return
	}
	s.logger.Info("knowledge upload finished", zap.String("ticket_id", id))
}

// retire records id as finished and forgets the oldest finished tickets beyond KeepFinished.
func (s *KnowledgeService) retire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return
	}
	s.finished = append(s.finished, id)
	for len(s.finished) > s.cfg.KeepFinished {
		delete(s.tickets, s.finished[0])
		s.finished = s.finished[1:]
	}
}

func (s *KnowledgeService) update(id string, mutate func(*models.UploadTicket)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tickets[id]; ok {
		mutate(t)
		t.UpdatedAt = s.now()
	}
}

func contentMatches(ext string, detected *mimetype.MIME) bool {
	accepted, known := extensionMIMEs[ext]
	if !known {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, want := range accepted {
			if m.Is(want) {
				return true
			}
		}
	}
	return false
}

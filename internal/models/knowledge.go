package models

import "time"

// KnowledgeDocument is a file held by the knowledge service.
type KnowledgeDocument struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Exists   bool   `json:"exists"`
	Size     int64  `json:"size"`
	Modified string `json:"modified,omitempty"`
}

// KnowledgeStatus describes the knowledge base backing store.
type KnowledgeStatus struct {
	Exists        bool   `json:"exists"`
	Type          string `json:"type"`
	Path          string `json:"path"`
	DocumentCount int    `json:"document_count"`
}

// UploadResult is returned by the knowledge service once a document is ingested.
type UploadResult struct {
	Message          string `json:"message"`
	FilePath         string `json:"file_path"`
	FileSize         int64  `json:"file_size"`
	ProcessingStatus string `json:"processing_status"`
	AgnoOptimized    bool   `json:"agno_optimized"`
}

// UploadState is the lifecycle of a queued document upload.
type UploadState string

const (
	UploadQueued    UploadState = "queued"
	UploadRunning   UploadState = "running"
	UploadSucceeded UploadState = "succeeded"
	UploadFailed    UploadState = "failed"
)

// UploadTicket tracks a background upload.
type UploadTicket struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	Size      int64         `json:"size"`
	MIMEType  string        `json:"mime_type"`
	State     UploadState   `json:"state"`
	Attempts  int           `json:"attempts"`
	Error     string        `json:"error,omitempty"`
	Result    *UploadResult `json:"result,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

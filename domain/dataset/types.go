package dataset

import (
	"io"
	"time"

	"goviz/domain/core"
)

// DatasetStatus represents the processing state of a dataset
type DatasetStatus string

const (
	StatusProcessing DatasetStatus = "processing"
	StatusReady      DatasetStatus = "ready"
	StatusFailed     DatasetStatus = "failed"
)

// Dataset is an uploaded file registered for summarizing and charting
type Dataset struct {
	ID core.ID `json:"id" db:"id"`

	// File information
	OriginalFilename string `json:"original_filename" db:"original_filename"`
	FilePath         string `json:"-" db:"file_path"`
	FileSize         int64  `json:"file_size" db:"file_size"`
	Format           string `json:"format" db:"format"`
	MimeType         string `json:"mime_type" db:"mime_type"`

	// Dataset statistics
	RecordCount int     `json:"record_count" db:"record_count"`
	FieldCount  int     `json:"field_count" db:"field_count"`
	MissingRate float64 `json:"missing_rate" db:"missing_rate"`
	DataKind    string  `json:"data_kind" db:"data_kind"`

	// Processing state
	Status       DatasetStatus `json:"status" db:"status"`
	ErrorMessage string        `json:"error_message,omitempty" db:"error_message"`

	Metadata DatasetMetadata `json:"metadata" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DatasetMetadata contains the per-field description of the dataset
type DatasetMetadata struct {
	Fields []FieldInfo `json:"fields"`
}

// FieldInfo describes a single column of the dataset
type FieldInfo struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	MissingCount int    `json:"missing_count"`
}

// DatasetUpload represents an uploaded file before processing
type DatasetUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// NewDataset creates a new dataset with default values
func NewDataset(originalFilename string) *Dataset {
	now := time.Now().UTC()
	return &Dataset{
		ID:               core.NewID(),
		OriginalFilename: originalFilename,
		Status:           StatusProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsReady returns true if the dataset is ready for use
func (d *Dataset) IsReady() bool {
	return d.Status == StatusReady
}

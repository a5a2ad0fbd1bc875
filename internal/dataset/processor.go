// Package dataset manages uploaded datasets: it validates and parses
// uploads, keeps the files in a FileStorage, registers them in a
// DatasetRepository and caches the parsed tables.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"goviz/adapters/ingest"
	"goviz/domain/core"
	"goviz/domain/dataset"
	"goviz/domain/table"
	"goviz/internal"
	"goviz/internal/errors"
	"goviz/internal/summary"
	"goviz/ports"
)

// StorageConfig holds upload limits and cache sizing
type StorageConfig struct {
	MaxFileSize       int64    // Maximum file size in bytes
	AllowedExtensions []string // Allowed extensions without the dot
	CacheSize         int      // Number of parsed tables kept in memory
}

// DefaultStorageConfig returns sensible defaults
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		MaxFileSize:       16 * 1024 * 1024, // 16MB
		AllowedExtensions: []string{"csv", "json", "xlsx"},
		CacheSize:         16,
	}
}

// Processor handles dataset uploads and lookups
type Processor struct {
	repository ports.DatasetRepository
	storage    FileStorage
	cache      *tableCache
	config     *StorageConfig
	logger     *internal.Logger
}

// NewProcessor creates a new dataset processor
func NewProcessor(repository ports.DatasetRepository, storage FileStorage, config *StorageConfig) *Processor {
	if config == nil {
		config = DefaultStorageConfig()
	}
	return &Processor{
		repository: repository,
		storage:    storage,
		cache:      newTableCache(config.CacheSize),
		config:     config,
		logger:     internal.DefaultLogger.WithComponent("DatasetProcessor"),
	}
}

// ProcessUpload validates, parses and registers an uploaded file. The
// returned table is the parsed content.
func (p *Processor) ProcessUpload(ctx context.Context, upload *dataset.DatasetUpload) (*dataset.Dataset, *table.Table, error) {
	p.logger.Info("Processing upload %s", upload.Filename)

	format, err := p.validateUpload(upload)
	if err != nil {
		return nil, nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, p.config.MaxFileSize+1))
	if err != nil {
		return nil, nil, errors.InvalidInput(fmt.Sprintf("failed to read upload: %v", err))
	}
	if int64(len(data)) > p.config.MaxFileSize {
		return nil, nil, errors.TooLarge(int64(len(data)), p.config.MaxFileSize)
	}
	if len(data) == 0 {
		return nil, nil, errors.InvalidInput("file is empty")
	}

	mtype := mimetype.Detect(data)
	if err := validateContent(format, mtype); err != nil {
		return nil, nil, err
	}

	t, err := ingest.Parse(data, format)
	if err != nil {
		return nil, nil, errors.Unprocessable("failed to parse file", err)
	}

	ds := dataset.NewDataset(upload.Filename)
	ds.Format = string(format)
	ds.MimeType = mtype.String()
	ds.FileSize = int64(len(data))
	describe(ds, t)

	ds.FilePath, err = p.storage.Store(ctx, bytes.NewReader(data), upload.Filename)
	if err != nil {
		return nil, nil, errors.StorageError("failed to store file", err)
	}

	ds.Status = dataset.StatusReady
	if err := p.repository.Create(ctx, ds); err != nil {
		if delErr := p.storage.Delete(ctx, ds.FilePath); delErr != nil {
			p.logger.Warn("Failed to remove %s after registry error: %v", ds.FilePath, delErr)
		}
		return nil, nil, errors.DatabaseError("failed to register dataset", err)
	}

	p.cache.put(ds.ID, t)
	p.logger.Info("Dataset %s ready (%d rows, %d columns)", ds.ID, ds.RecordCount, ds.FieldCount)
	return ds, t, nil
}

// validateUpload checks the file name and declared size, returning the
// format implied by the extension.
func (p *Processor) validateUpload(upload *dataset.DatasetUpload) (ingest.Format, error) {
	if upload == nil || upload.Content == nil {
		return "", errors.InvalidInput("no file provided")
	}
	if strings.TrimSpace(upload.Filename) == "" {
		return "", errors.InvalidInput("no file selected")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(upload.Filename)), ".")
	if !p.isAllowedExtension(ext) {
		return "", errors.UnsupportedFormat(ext)
	}
	format, err := ingest.FormatFromFilename(upload.Filename)
	if err != nil {
		return "", errors.UnsupportedFormat(ext)
	}

	if upload.Size > p.config.MaxFileSize {
		return "", errors.TooLarge(upload.Size, p.config.MaxFileSize)
	}
	return format, nil
}

func (p *Processor) isAllowedExtension(ext string) bool {
	for _, allowed := range p.config.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// validateContent rejects files whose content contradicts their extension:
// workbooks must be zip containers and text formats must not be.
func validateContent(format ingest.Format, mtype *mimetype.MIME) error {
	isZip := false
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			isZip = true
			break
		}
	}
	if format == ingest.FormatXLSX && !isZip {
		return errors.InvalidInput(fmt.Sprintf("file content (%s) is not an Excel workbook", mtype.String()))
	}
	if format != ingest.FormatXLSX && isZip {
		return errors.InvalidInput(fmt.Sprintf("file content (%s) does not match extension .%s", mtype.String(), format))
	}
	return nil
}

// describe fills the dataset statistics from the parsed table.
func describe(ds *dataset.Dataset, t *table.Table) {
	s := summary.Summarize(t)
	ds.RecordCount = s.RowCount
	ds.FieldCount = s.ColumnCount
	ds.DataKind = string(s.DataKind)

	missing := 0
	fields := make([]dataset.FieldInfo, len(s.Columns))
	for i, col := range s.Columns {
		missing += col.MissingCount
		fields[i] = dataset.FieldInfo{
			Name:         col.Name,
			DataType:     string(col.Type),
			MissingCount: col.MissingCount,
		}
	}
	ds.Metadata.Fields = fields
	if cells := s.RowCount * s.ColumnCount; cells > 0 {
		ds.MissingRate = float64(missing) / float64(cells)
	}
}

// Get returns the registry entry for id
func (p *Processor) Get(ctx context.Context, id core.ID) (*dataset.Dataset, error) {
	return p.repository.GetByID(ctx, id)
}

// List returns registered datasets newest first
func (p *Processor) List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error) {
	datasets, err := p.repository.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("failed to list datasets", err)
	}
	return datasets, nil
}

// Table returns the parsed table of dataset id, loading it from storage
// when it is not cached.
func (p *Processor) Table(ctx context.Context, id core.ID) (*table.Table, error) {
	if t, ok := p.cache.get(id); ok {
		return t, nil
	}

	ds, err := p.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rc, err := p.storage.Open(ctx, ds.FilePath)
	if err != nil {
		return nil, errors.StorageError("failed to open dataset file", err)
	}
	defer rc.Close()

	t, err := ingest.Read(rc, ingest.Format(ds.Format))
	if err != nil {
		return nil, errors.Unprocessable("failed to parse stored dataset", err)
	}
	p.logger.Debug("Loaded dataset %s in %.2fms", id, float64(time.Since(start).Microseconds())/1000)

	p.cache.put(id, t)
	return t, nil
}

// Delete removes the dataset from the registry, storage and cache
func (p *Processor) Delete(ctx context.Context, id core.ID) error {
	ds, err := p.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.repository.Delete(ctx, id); err != nil {
		return err
	}
	p.cache.remove(id)
	if err := p.storage.Delete(ctx, ds.FilePath); err != nil {
		p.logger.Warn("Failed to delete file for dataset %s: %v", id, err)
	}
	p.logger.Info("Deleted dataset %s", id)
	return nil
}

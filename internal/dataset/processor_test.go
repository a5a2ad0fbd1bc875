package dataset

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goviz/domain/core"
	domainDataset "goviz/domain/dataset"
	"goviz/domain/table"
	"goviz/internal/errors"
)

// MockDatasetRepository records registry calls
type MockDatasetRepository struct {
	mock.Mock
}

func (m *MockDatasetRepository) Create(ctx context.Context, ds *domainDataset.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockDatasetRepository) GetByID(ctx context.Context, id core.ID) (*domainDataset.Dataset, error) {
	args := m.Called(ctx, id)
	ds, _ := args.Get(0).(*domainDataset.Dataset)
	return ds, args.Error(1)
}

func (m *MockDatasetRepository) List(ctx context.Context, limit, offset int) ([]*domainDataset.Dataset, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*domainDataset.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) Update(ctx context.Context, ds *domainDataset.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockDatasetRepository) Delete(ctx context.Context, id core.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const gradesCSV = "student,subject,grade\nAnn,Math,4\nBob,Math,5\nAnn,Physics,\n"

func newTestProcessor(t *testing.T, cacheSize int) (*Processor, string) {
	t.Helper()
	dir := t.TempDir()
	config := DefaultStorageConfig()
	config.CacheSize = cacheSize
	config.MaxFileSize = 1024
	return NewProcessor(NewMemoryRepository(), NewLocalFileStorage(dir), config), dir
}

func upload(name, content string) *domainDataset.DatasetUpload {
	return &domainDataset.DatasetUpload{
		Filename: name,
		Size:     int64(len(content)),
		Content:  strings.NewReader(content),
	}
}

func TestProcessUpload_CSV(t *testing.T) {
	p, dir := newTestProcessor(t, 4)
	ctx := context.Background()

	ds, tbl, err := p.ProcessUpload(ctx, upload("grades.csv", gradesCSV))

	require.NoError(t, err)
	assert.Equal(t, domainDataset.StatusReady, ds.Status)
	assert.Equal(t, "csv", ds.Format)
	assert.Equal(t, 3, ds.RecordCount)
	assert.Equal(t, 3, ds.FieldCount)
	assert.InDelta(t, 1.0/9.0, ds.MissingRate, 1e-9)
	assert.Equal(t, "tabular", ds.DataKind)
	require.Len(t, ds.Metadata.Fields, 3)
	assert.Equal(t, string(table.Integer), ds.Metadata.Fields[2].DataType)
	assert.Equal(t, 3, tbl.NumRows())

	assert.Equal(t, dir, filepath.Dir(ds.FilePath))
	_, err = os.Stat(ds.FilePath)
	assert.NoError(t, err)

	stored, err := p.Get(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.ID, stored.ID)

	cached, err := p.Table(ctx, ds.ID)
	require.NoError(t, err)
	assert.Same(t, tbl, cached)
}

func TestProcessUpload_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		upload *domainDataset.DatasetUpload
		code   string
	}{
		{"no file", &domainDataset.DatasetUpload{Filename: "a.csv"}, errors.CodeInvalidInput},
		{"no name", upload("", gradesCSV), errors.CodeInvalidInput},
		{"extension", upload("grades.txt", gradesCSV), errors.CodeUnsupportedFormat},
		{"declared size", &domainDataset.DatasetUpload{Filename: "a.csv", Size: 4096, Content: strings.NewReader("a")}, errors.CodeTooLarge},
		{"actual size", &domainDataset.DatasetUpload{Filename: "a.csv", Content: strings.NewReader(strings.Repeat("a", 2048))}, errors.CodeTooLarge},
		{"empty", upload("grades.csv", ""), errors.CodeInvalidInput},
		{"workbook that is not a zip", upload("grades.xlsx", gradesCSV), errors.CodeInvalidInput},
		{"bad json", upload("grades.json", `{"a":`), errors.CodeUnprocessable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, dir := newTestProcessor(t, 4)

			_, _, err := p.ProcessUpload(context.Background(), tt.upload)

			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries)
		})
	}
}

func TestProcessUpload_RegistryFailureRemovesFile(t *testing.T) {
	repo := new(MockDatasetRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(stderrors.New("connection refused"))
	dir := t.TempDir()
	p := NewProcessor(repo, NewLocalFileStorage(dir), nil)

	_, _, err := p.ProcessUpload(context.Background(), upload("grades.csv", gradesCSV))

	require.Error(t, err)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
	repo.AssertExpectations(t)
}

func TestTable_ReloadsAfterEviction(t *testing.T) {
	p, _ := newTestProcessor(t, 1)
	ctx := context.Background()

	first, firstTable, err := p.ProcessUpload(ctx, upload("first.csv", gradesCSV))
	require.NoError(t, err)
	_, _, err = p.ProcessUpload(ctx, upload("second.json", `[{"a": 1}]`))
	require.NoError(t, err)

	reloaded, err := p.Table(ctx, first.ID)

	require.NoError(t, err)
	assert.NotSame(t, firstTable, reloaded)
	assert.Equal(t, firstTable.Records(), reloaded.Records())
	assert.Equal(t, 1, p.cache.size())
}

func TestTable_UnknownDataset(t *testing.T) {
	p, _ := newTestProcessor(t, 1)

	_, err := p.Table(context.Background(), core.NewID())

	assert.True(t, core.IsNotFoundError(err))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestDelete(t *testing.T) {
	p, _ := newTestProcessor(t, 4)
	ctx := context.Background()
	ds, _, err := p.ProcessUpload(ctx, upload("grades.csv", gradesCSV))
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, ds.ID))

	_, err = os.Stat(ds.FilePath)
	assert.True(t, os.IsNotExist(err))
	_, err = p.Table(ctx, ds.ID)
	assert.True(t, core.IsNotFoundError(err))
	assert.True(t, core.IsNotFoundError(p.Delete(ctx, ds.ID)))
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []core.ID
	for i := 0; i < 3; i++ {
		ds := domainDataset.NewDataset("f.csv")
		ds.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, ds))
		ids = append(ids, ds.ID)
	}

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	empty, err := repo.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryRepository_UpdateUnknown(t *testing.T) {
	repo := NewMemoryRepository()

	err := repo.Update(context.Background(), domainDataset.NewDataset("f.csv"))

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTableCache_EvictsOldestFirst(t *testing.T) {
	c := newTableCache(2)
	a, b, d := core.NewID(), core.NewID(), core.NewID()
	tbl := table.MustNew(table.MustColumn("x", table.Integer, 1))

	c.put(a, tbl)
	c.put(b, tbl)
	c.put(a, tbl)
	c.put(d, tbl)

	_, ok := c.get(a)
	assert.False(t, ok)
	_, ok = c.get(b)
	assert.True(t, ok)
	_, ok = c.get(d)
	assert.True(t, ok)

	c.remove(b)
	assert.Equal(t, 1, c.size())
}

func TestUniqueName(t *testing.T) {
	name := uniqueName("../../etc/grades.csv")

	assert.True(t, strings.HasPrefix(name, "grades_"))
	assert.Equal(t, ".csv", filepath.Ext(name))
	assert.NotContains(t, name, "/")
	assert.NotEqual(t, name, uniqueName("../../etc/grades.csv"))
}

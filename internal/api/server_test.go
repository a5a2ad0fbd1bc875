package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goviz/domain/chart"
	"goviz/internal/dataset"
	"goviz/internal/viz"
)

const gradesCSV = "student,subject,grade,hours\nAnn,Math,4,10\nBob,Math,5,12\nAnn,Physics,3,7\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config := dataset.DefaultStorageConfig()
	processor := dataset.NewProcessor(
		dataset.NewMemoryRepository(),
		dataset.NewLocalFileStorage(t.TempDir()),
		config,
	)
	return NewServer(processor, viz.NewBuilder(), Config{MaxUploadBytes: config.MaxFileSize})
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// upload registers gradesCSV and returns its id
func upload(t *testing.T, s *Server) string {
	t.Helper()
	w := do(s, uploadRequest(t, "grades.csv", gradesCSV))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Dataset struct {
			ID          string `json:"id"`
			RecordCount int    `json:"record_count"`
			FieldCount  int    `json:"field_count"`
		} `json:"dataset"`
		Summary struct {
			RowCount    int `json:"row_count"`
			ColumnCount int `json:"column_count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Dataset.RecordCount)
	assert.Equal(t, 4, resp.Dataset.FieldCount)
	assert.Equal(t, 3, resp.Summary.RowCount)
	assert.Equal(t, 4, resp.Summary.ColumnCount)
	require.NotEmpty(t, resp.Dataset.ID)
	return resp.Dataset.ID
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error, resp.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUpload_Rejections(t *testing.T) {
	s := newTestServer(t)

	w := do(s, uploadRequest(t, "notes.txt", "hello"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	_, code := decodeError(t, w)
	assert.Equal(t, "UNSUPPORTED_FORMAT", code)

	w = do(s, uploadRequest(t, "empty.csv", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = do(s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, code = decodeError(t, w)
	assert.Equal(t, "INVALID_INPUT", code)
}

func TestListGetDelete(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Datasets []struct {
			ID string `json:"id"`
		} `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Datasets, 1)
	assert.Equal(t, id, list.Datasets[0].ID)

	w = do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"original_filename":"grades.csv"`)
	assert.NotContains(t, w.Body.String(), "file_path")

	w = do(s, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, code := decodeError(t, w)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestList_InvalidPaging(t *testing.T) {
	s := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidID(t *testing.T) {
	s := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/not-a-uuid/data", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestData(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/data", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Columns []string         `json:"columns"`
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"student", "subject", "grade", "hours"}, resp.Columns)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "Bob", resp.Records[1]["student"])
	assert.Equal(t, 5.0, resp.Records[1]["grade"])
}

func TestSummary_Formats(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)
	base := "/api/datasets/" + id + "/summary"

	w := do(s, httptest.NewRequest(http.MethodGet, base, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"row_count":3`)

	w = do(s, httptest.NewRequest(http.MethodGet, base+"?format=markdown", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "# grades.csv")

	w = do(s, httptest.NewRequest(http.MethodGet, base+"?format=html", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<table>")

	w = do(s, httptest.NewRequest(http.MethodGet, base+"?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func decodeSpec(t *testing.T, w *httptest.ResponseRecorder) chart.Spec {
	t.Helper()
	var spec chart.Spec
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spec), w.Body.String())
	return spec
}

func TestChart_JSON(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	body := `{"kind":"bar","x_column":"subject","y_column":"grade"}`
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/chart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(s, req)
	require.Equal(t, http.StatusOK, w.Code)

	spec := decodeSpec(t, w)
	require.False(t, spec.IsError(), spec.Error)
	require.Len(t, spec.Traces, 1)
	assert.Equal(t, []any{"Math", "Physics"}, spec.Traces[0].X)
	assert.Equal(t, []any{4.5, 3.0}, spec.Traces[0].Y)
}

func TestChart_Form(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	form := url.Values{}
	form.Set("viz_type", "pie")
	form.Set("x_column", "subject")
	form.Set("color_column", chart.NoGrouping)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/chart", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(s, req)
	require.Equal(t, http.StatusOK, w.Code)

	spec := decodeSpec(t, w)
	require.False(t, spec.IsError(), spec.Error)
	require.Len(t, spec.Traces, 1)
	assert.Equal(t, chart.KindPie, spec.Traces[0].Kind)
}

func TestChart_FailuresStillSucceed(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown column", `{"kind":"bar","x_column":"age","y_column":"grade"}`, "age"},
		{"heatmap without values", `{"kind":"heatmap","x_column":"student","y_column":"subject"}`, "all three parameters"},
		{"malformed body", `{"kind":`, "invalid chart request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/chart", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := do(s, req)
			require.Equal(t, http.StatusOK, w.Code)

			spec := decodeSpec(t, w)
			assert.True(t, spec.IsError())
			assert.Contains(t, spec.Error, tt.want)
			assert.Empty(t, spec.Traces)
		})
	}
}

func TestCharts(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	body := `[{"kind":"bar","x_column":"subject","y_column":"grade"},{"kind":"histogram","x_column":"grade"},{"kind":"box"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/charts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Charts []chart.Spec `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Charts, 3)
	assert.False(t, resp.Charts[0].IsError())
	assert.False(t, resp.Charts[1].IsError())
	assert.True(t, resp.Charts[2].IsError())

	req = httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/charts", strings.NewReader(`{"kind":"bar"}`))
	req.Header.Set("Content-Type", "application/json")
	w = do(s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardAndCorrelation(t *testing.T) {
	s := newTestServer(t)
	id := upload(t, s)

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var dashboard chart.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashboard))
	assert.Len(t, dashboard.Panels, 4)

	w = do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/correlation", nil))
	require.Equal(t, http.StatusOK, w.Code)
	spec := decodeSpec(t, w)
	require.Len(t, spec.Traces, 1)
	assert.Equal(t, []any{"grade", "hours"}, spec.Traces[0].X)
	require.Len(t, spec.Traces[0].Z, 2)
	require.NotNil(t, spec.Traces[0].Z[0][0])
	assert.InDelta(t, 1.0, *spec.Traces[0].Z[0][0], 1e-9)
}

func TestDashboard_NoCategoricalColumn(t *testing.T) {
	s := newTestServer(t)
	w := do(s, uploadRequest(t, "numbers.csv", "a,b\n1,2\n3,4\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Dataset struct {
			ID string `json:"id"`
		} `json:"dataset"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+resp.Dataset.ID+"/dashboard", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	_, code := decodeError(t, w)
	assert.Equal(t, "UNPROCESSABLE", code)
}

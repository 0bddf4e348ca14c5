package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/JSSP85/SolarApp-sub002/internal/dto"
	"github.com/JSSP85/SolarApp-sub002/internal/service"
	pkgerrors "github.com/JSSP85/SolarApp-sub002/pkg/errors"
	"github.com/JSSP85/SolarApp-sub002/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock NCService ──

type mockNCService struct {
	createResult  *dto.NCResponse
	createErr     error
	getResult     *dto.NCResponse
	getErr        error
	listResult    []dto.NCResponse
	listTotal     int64
	listErr       error
	updateResult  *dto.NCResponse
	updateErr     error
	statusResult  *dto.NCResponse
	statusErr     error
	bulkResult    *dto.BulkStatusResponse
	bulkErr       error
	entryResult   *dto.NCResponse
	entryErr      error
	deleteErr     error
	metricsResult *dto.MetricsResponse
	metricsErr    error
	mailtoResult  *dto.MailtoResponse
	mailtoErr     error
}

func (m *mockNCService) Create(_ context.Context, _ *dto.CreateNCRequest, _ string) (*dto.NCResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockNCService) GetByID(_ context.Context, _ string) (*dto.NCResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockNCService) GetByNumber(_ context.Context, _ string) (*dto.NCResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockNCService) List(_ context.Context, _ *dto.NCListRequest) ([]dto.NCResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockNCService) Update(_ context.Context, _ string, _ *dto.UpdateNCRequest) (*dto.NCResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockNCService) UpdateStatus(_ context.Context, _ string, _ *dto.UpdateStatusRequest) (*dto.NCResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockNCService) BulkUpdateStatus(_ context.Context, _ *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error) {
	return m.bulkResult, m.bulkErr
}
func (m *mockNCService) AddTimelineEntry(_ context.Context, _ string, _ *dto.AddTimelineEntryRequest) (*dto.NCResponse, error) {
	return m.entryResult, m.entryErr
}
func (m *mockNCService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockNCService) Metrics(_ context.Context) (*dto.MetricsResponse, error) {
	return m.metricsResult, m.metricsErr
}
func (m *mockNCService) Stats(_ context.Context) (*dto.MetricsResponse, error) {
	return m.metricsResult, m.metricsErr
}
func (m *mockNCService) MailtoLink(_ context.Context, _, _ string) (*dto.MailtoResponse, error) {
	return m.mailtoResult, m.mailtoErr
}

// ── helpers ──

func jsonBody(v interface{}) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

// setAuth injects the context values normally set by the JWT middleware.
func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the envelope: %v", err)
	}
	return resp
}

// ── CreateNC ──

func TestNCHandler_CreateNC_Success(t *testing.T) {
	mock := &mockNCService{
		createResult: &dto.NCResponse{NCID: "nc-001", Number: "RNC-001", Status: "open"},
	}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/ncs", jsonBody(dto.CreateNCRequest{
		Priority:    "major",
		Project:     "Solar Park Varese",
		Description: "Coating below tolerance",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/ncs", func(c *gin.Context) {
		setAuth(c)
		h.CreateNC(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != 0 {
		t.Errorf("expected business code 0, got %d", resp.Code)
	}
}

func TestNCHandler_CreateNC_BadJSON(t *testing.T) {
	h := NewNCHandler(&mockNCService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/ncs", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/ncs", func(c *gin.Context) {
		setAuth(c)
		h.CreateNC(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestNCHandler_CreateNC_ValidationError(t *testing.T) {
	mock := &mockNCService{
		createErr: &service.ValidationError{Fields: map[string]string{"priority": "must be one of critical, major, minor, low"}},
	}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/ncs", jsonBody(dto.CreateNCRequest{
		Priority:    "major",
		Project:     "Solar Park Varese",
		Description: "Coating below tolerance",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/ncs", func(c *gin.Context) {
		setAuth(c)
		h.CreateNC(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != 12002 {
		t.Errorf("expected business code 12002, got %d", resp.Code)
	}
	if resp.Details == "" {
		t.Error("expected field details in the response")
	}
}

// ── GetNC ──

func TestNCHandler_GetNC_NotFound(t *testing.T) {
	mock := &mockNCService{getErr: service.ErrNCNotFound}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ncs/nc-404", nil)

	r := gin.New()
	r.GET("/ncs/:id", h.GetNC)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != 12001 {
		t.Errorf("expected business code 12001, got %d", resp.Code)
	}
}

// ── ListNCs ──

func TestNCHandler_ListNCs_Paginated(t *testing.T) {
	mock := &mockNCService{
		listResult: []dto.NCResponse{{NCID: "nc-001"}, {NCID: "nc-002"}},
		listTotal:  7,
	}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ncs?page=1&page_size=2", nil)

	r := gin.New()
	r.GET("/ncs", h.ListNCs)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data response.PageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode page data: %v", err)
	}
	if envelope.Data.Pagination.Total != 7 {
		t.Errorf("expected total=7, got %d", envelope.Data.Pagination.Total)
	}
	if envelope.Data.Pagination.TotalPages != 4 {
		t.Errorf("expected total_pages=4, got %d", envelope.Data.Pagination.TotalPages)
	}
}

// ── UpdateNCStatus ──

func TestNCHandler_UpdateNCStatus_InvalidStatusRejectedByBinding(t *testing.T) {
	h := NewNCHandler(&mockNCService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/ncs/nc-001/status", jsonBody(dto.UpdateStatusRequest{Status: "done"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/ncs/:id/status", h.UpdateNCStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestNCHandler_UpdateNCStatus_Conflict(t *testing.T) {
	mock := &mockNCService{statusErr: pkgerrors.ErrOptimisticLock}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/ncs/nc-001/status", jsonBody(dto.UpdateStatusRequest{Status: "closed"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/ncs/:id/status", h.UpdateNCStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

// ── BulkUpdateStatus ──

func TestNCHandler_BulkUpdateStatus_ReportsPartialFailures(t *testing.T) {
	mock := &mockNCService{
		bulkResult: &dto.BulkStatusResponse{
			Updated: []string{"3f1e9a1a-0000-0000-0000-000000000001"},
			Failed:  map[string]string{"3f1e9a1a-0000-0000-0000-000000000002": "non-conformity not found"},
		},
	}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/ncs/status", jsonBody(dto.BulkStatusRequest{
		IDs:    []string{"3f1e9a1a-0000-0000-0000-000000000001", "3f1e9a1a-0000-0000-0000-000000000002"},
		Status: "resolved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/ncs/status", h.BulkUpdateStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data dto.BulkStatusResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode bulk result: %v", err)
	}
	if len(envelope.Data.Updated) != 1 || len(envelope.Data.Failed) != 1 {
		t.Errorf("unexpected bulk result %+v", envelope.Data)
	}
}

// ── GetMailtoLink ──

func TestNCHandler_GetMailtoLink_RequiresAddress(t *testing.T) {
	h := NewNCHandler(&mockNCService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ncs/nc-001/mailto", nil)

	r := gin.New()
	r.GET("/ncs/:id/mailto", h.GetMailtoLink)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without an address, got %d", w.Code)
	}
}

func TestNCHandler_GetMailtoLink_Success(t *testing.T) {
	mock := &mockNCService{
		mailtoResult: &dto.MailtoResponse{MailtoURL: "mailto:quality@example.com?subject=RNC-001"},
	}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ncs/nc-001/mailto?address=quality@example.com", nil)

	r := gin.New()
	r.GET("/ncs/:id/mailto", h.GetMailtoLink)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

// ── DeleteNC ──

func TestNCHandler_DeleteNC_NotFound(t *testing.T) {
	mock := &mockNCService{deleteErr: service.ErrNCNotFound}
	h := NewNCHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/ncs/nc-404", nil)

	r := gin.New()
	r.DELETE("/ncs/:id", h.DeleteNC)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
	"github.com/horizonenergysouth/horizon-crm/internal/usecase"
)

func withLeadID(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func dashboardLeads() []entity.Lead {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []entity.Lead{
		{Name: "alice", Email: "alice@example.com", Status: entity.StatusNew, CreatedAt: base.Add(2 * time.Hour)},
		{Name: "Bob", Email: "bob@example.com", Status: entity.StatusContacted, CreatedAt: base.Add(time.Hour)},
		{Name: "carol", Email: "carol@example.com", Status: entity.StatusQualified, CreatedAt: base},
	}
}

func newAdminHandler(repo *MockLeadRepository) *AdminHandler {
	return NewAdminHandler(repo, usecase.NewUpdateLeadUseCase(repo))
}

func TestListLeadsDefaultsNewestFirst(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("FindAll", mock.Anything).Return(dashboardLeads(), nil)

	handler := newAdminHandler(mockRepo)

	req := httptest.NewRequest("GET", "/api/admin/leads", nil)
	w := httptest.NewRecorder()

	handler.HandleListLeads(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response usecase.TriageOutput
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, 3, response.TotalCount)
	assert.Equal(t, 3, response.FilteredCount)
	assert.Equal(t, "alice", response.Leads[0].Name)
	assert.Equal(t, "carol", response.Leads[2].Name)
}

func TestListLeadsFilterSearchSort(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("FindAll", mock.Anything).Return(dashboardLeads(), nil)

	handler := newAdminHandler(mockRepo)

	req := httptest.NewRequest("GET", "/api/admin/leads?status=contacted&q=bob&sort=name&dir=asc", nil)
	w := httptest.NewRecorder()

	handler.HandleListLeads(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response usecase.TriageOutput
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, 1, response.FilteredCount)
	assert.Equal(t, 3, response.TotalCount)
	assert.Equal(t, "Bob", response.Leads[0].Name)
}

func TestListLeadsStoreFailure(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("FindAll", mock.Anything).Return(nil, assert.AnError)

	handler := newAdminHandler(mockRepo)

	req := httptest.NewRequest("GET", "/api/admin/leads", nil)
	w := httptest.NewRecorder()

	handler.HandleListLeads(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStatsHandler(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("FindAll", mock.Anything).Return(dashboardLeads(), nil)

	handler := newAdminHandler(mockRepo)

	req := httptest.NewRequest("GET", "/api/admin/leads/stats", nil)
	w := httptest.NewRecorder()

	handler.HandleStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response usecase.StatsOutput
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, 3, response.Total)
	assert.Equal(t, 1, response.New)
	assert.Equal(t, 1, response.Qualified)
	assert.Equal(t, 0, response.Completed)
}

func TestSetStatusHandler(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusContacted).Return(nil)

	handler := newAdminHandler(mockRepo)

	body, _ := json.Marshal(map[string]string{"status": "contacted"})
	req := httptest.NewRequest("PUT", "/api/admin/leads/lead-1/status", bytes.NewReader(body))
	req = withLeadID(req, map[string]string{"id": "lead-1"})
	w := httptest.NewRecorder()

	handler.HandleSetStatus(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertCalled(t, "UpdateStatus", mock.Anything, "lead-1", entity.StatusContacted)
}

func TestSetStatusHandlerRejectsUnknownStatus(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	handler := newAdminHandler(mockRepo)

	body, _ := json.Marshal(map[string]string{"status": "archived"})
	req := httptest.NewRequest("PUT", "/api/admin/leads/lead-1/status", bytes.NewReader(body))
	req = withLeadID(req, map[string]string{"id": "lead-1"})
	w := httptest.NewRecorder()

	handler.HandleSetStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "INVALID_STATUS", errResponse["error"])
}

func TestSetStatusHandlerLeadNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("UpdateStatus", mock.Anything, "missing", entity.StatusLost).Return(entity.ErrLeadNotFound)

	handler := newAdminHandler(mockRepo)

	body, _ := json.Marshal(map[string]string{"status": "lost"})
	req := httptest.NewRequest("PUT", "/api/admin/leads/missing/status", bytes.NewReader(body))
	req = withLeadID(req, map[string]string{"id": "missing"})
	w := httptest.NewRecorder()

	handler.HandleSetStatus(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "LEAD_NOT_FOUND", errResponse["error"])
}

func TestAddNoteHandler(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("AddNote", mock.Anything, "lead-1", mock.Anything).Return(nil)

	handler := newAdminHandler(mockRepo)

	body, _ := json.Marshal(map[string]string{"text": "Left a voicemail"})
	req := httptest.NewRequest("POST", "/api/admin/leads/lead-1/notes", bytes.NewReader(body))
	req = withLeadID(req, map[string]string{"id": "lead-1"})
	w := httptest.NewRecorder()

	handler.HandleAddNote(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var note entity.Note
	json.NewDecoder(w.Body).Decode(&note)
	assert.Equal(t, "Left a voicemail", note.Text)
	assert.NotEmpty(t, note.ID)
}

func TestAddNoteHandlerRejectsBlankText(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	handler := newAdminHandler(mockRepo)

	body, _ := json.Marshal(map[string]string{"text": "   "})
	req := httptest.NewRequest("POST", "/api/admin/leads/lead-1/notes", bytes.NewReader(body))
	req = withLeadID(req, map[string]string{"id": "lead-1"})
	w := httptest.NewRecorder()

	handler.HandleAddNote(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "AddNote")
}

func TestDeleteNoteHandler(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("DeleteNote", mock.Anything, "lead-1", "note-9").Return(nil)

	handler := newAdminHandler(mockRepo)

	req := httptest.NewRequest("DELETE", "/api/admin/leads/lead-1/notes/note-9", nil)
	req = withLeadID(req, map[string]string{"id": "lead-1", "noteId": "note-9"})
	w := httptest.NewRecorder()

	handler.HandleDeleteNote(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertCalled(t, "DeleteNote", mock.Anything, "lead-1", "note-9")
}

func TestToggleActionItemHandler(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("SetActionItemCompleted", mock.Anything, "lead-1", "item-3", true).Return(nil)

	handler := newAdminHandler(mockRepo)

	body, _ := json.Marshal(map[string]bool{"completed": true})
	req := httptest.NewRequest("PUT", "/api/admin/leads/lead-1/action-items/item-3", bytes.NewReader(body))
	req = withLeadID(req, map[string]string{"id": "lead-1", "itemId": "item-3"})
	w := httptest.NewRecorder()

	handler.HandleToggleActionItem(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertCalled(t, "SetActionItemCompleted", mock.Anything, "lead-1", "item-3", true)
}

func TestDeleteActionItemHandler(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("DeleteActionItem", mock.Anything, "lead-1", "item-3").Return(nil)

	handler := newAdminHandler(mockRepo)

	req := httptest.NewRequest("DELETE", "/api/admin/leads/lead-1/action-items/item-3", nil)
	req = withLeadID(req, map[string]string{"id": "lead-1", "itemId": "item-3"})
	w := httptest.NewRecorder()

	handler.HandleDeleteActionItem(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/models"
)

func newSourcingMux(rfq *mockRFQService, ss *mockSingleSourceService, cons *mockConsolidationService) *http.ServeMux {
	mux := http.NewServeMux()
	NewSourcingHandler(rfq, ss, cons, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestRFQCandidates_OK(t *testing.T) {
	mux := newSourcingMux(&mockRFQService{}, &mockSingleSourceService{}, &mockConsolidationService{})

	body := `{"partId": "P1", "qty": 500, "objective": "cost-first", "needBy": "2026-10-01"}`
	req := httptest.NewRequest(http.MethodPost, "/agent/rfq-candidates", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.RFQResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "P1", result.PartID)
	assert.Equal(t, 500, result.Qty)
	assert.Equal(t, models.ObjectiveCostFirst, result.Objective)
}

func TestRFQCandidates_MissingPartID(t *testing.T) {
	mux := newSourcingMux(&mockRFQService{}, &mockSingleSourceService{}, &mockConsolidationService{})

	req := httptest.NewRequest(http.MethodPost, "/agent/rfq-candidates", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRFQCandidates_BadNeedBy(t *testing.T) {
	mux := newSourcingMux(&mockRFQService{}, &mockSingleSourceService{}, &mockConsolidationService{})

	body := `{"partId": "P1", "needBy": "next tuesday"}`
	req := httptest.NewRequest(http.MethodPost, "/agent/rfq-candidates", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestSingleSourceParts_DefaultThreshold(t *testing.T) {
	mux := newSourcingMux(&mockRFQService{}, &mockSingleSourceService{}, &mockConsolidationService{})

	req := httptest.NewRequest(http.MethodPost, "/agent/single-source-parts", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report models.SingleSourceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Threshold)
}

func TestConsolidatePO_NoDemandMapsTo404(t *testing.T) {
	cons := &mockConsolidationService{err: apperrors.ErrNoDemand}
	mux := newSourcingMux(&mockRFQService{}, &mockSingleSourceService{}, cons)

	req := httptest.NewRequest(http.MethodPost, "/agent/consolidate-po", strings.NewReader(`{"partId": "P1"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestConsolidatePO_OK(t *testing.T) {
	cons := &mockConsolidationService{plan: &models.ConsolidationPlan{
		PartID: "P1", TotalDemand: 310, ConsolidatedQty: 450, SupplierID: "S1",
	}}
	mux := newSourcingMux(&mockRFQService{}, &mockSingleSourceService{}, cons)

	req := httptest.NewRequest(http.MethodPost, "/agent/consolidate-po", strings.NewReader(`{"partId": "P1"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var plan models.ConsolidationPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 450, plan.ConsolidatedQty)
}

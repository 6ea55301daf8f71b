package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/metalerp/pkg/application/dto"
	"github.com/vsinha/metalerp/pkg/application/services"
	"github.com/vsinha/metalerp/pkg/domain/entities"
	"github.com/vsinha/metalerp/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/metalerp/pkg/infrastructure/testing"
)

type stubAdvisor struct{}

func (stubAdvisor) SuggestMaterials(context.Context, []entities.ProjectItem) []entities.MaterialSuggestion {
	return nil
}

func (stubAdvisor) AnalyzeWorkLogs(context.Context, []entities.JobRecord) string {
	return "sem anomalias"
}

func newTestRouter(t *testing.T) (*gin.Engine, *services.LedgerService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	repo, store := testhelpers.NewDocumentRepository(testhelpers.BuildFabricationLedger())
	opts := services.Options{
		Now:    testhelpers.FixedClock(testhelpers.FixtureTime),
		NewID:  testhelpers.SequentialIDs("id"),
		Events: events.NewInMemoryEventStore(),
	}

	ledger, err := services.NewLedgerService(ctx, repo, opts)
	require.NoError(t, err)
	timesheet, err := services.NewTimesheetService(ctx, repo, testhelpers.FixtureTime.Location(), opts)
	require.NoError(t, err)

	deps := Deps{
		Store:     store,
		Ledger:    ledger,
		Timesheet: timesheet,
		Backups:   services.NewBackupService(store, ledger, timesheet, opts),
		Reports:   services.NewReportService(ledger, opts),
		Advisor:   services.NewAdvisorService(stubAdvisor{}, ledger, timesheet),
		Now:       opts.Now,
	}
	return New(Options{AllowedOrigins: []string{"*"}}, deps), ledger
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProjects_CreateAndList(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/projects", `{"opNumber":"OP-2000","client":"Metalúrgica Sul","items":[{"description":"Mezanino","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created entities.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, entities.StatusCommercial, created.Status)

	w = do(r, http.MethodGet, "/api/projects?view=commercial", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []entities.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, created.ID, listed[0].ID)

	w = do(r, http.MethodGet, "/api/projects?view=warehouse", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_CreateValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/projects", `{"opNumber":"OP-2000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Client")

	w = do(r, http.MethodPost, "/api/projects", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_DeleteNeedsConfirmation(t *testing.T) {
	r, ledger := newTestRouter(t)

	w := do(r, http.MethodDelete, "/api/projects/p-com", "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"detail":"this action requires confirm=true","applied":false}`, w.Body.String())
	_, err := ledger.Project("p-com")
	assert.NoError(t, err)

	w = do(r, http.MethodDelete, "/api/projects/p-com?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, err = ledger.Project("p-com")
	assert.ErrorIs(t, err, services.ErrProjectNotFound)
}

func TestProjects_Transitions(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/projects/p-com/send-to-engineering", "")
	require.Equal(t, http.StatusOK, w.Code)
	var outcome dto.TransitionOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.True(t, outcome.Applied)
	assert.Equal(t, entities.StatusEngineering, outcome.To)

	w = do(r, http.MethodPost, "/api/projects/p-pcp/finalize-pcp", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/projects/p-pcp/finalize-pcp?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, entities.StatusPurchasing, outcome.To)

	w = do(r, http.MethodPost, "/api/projects/missing/send-to-engineering", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaterials_StockAndRequest(t *testing.T) {
	r, ledger := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/projects/p-pcp/materials/s1/stock", `{"qtyInStock":"1,5"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var item entities.MaterialItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "1.5", item.QtyInStock.String())
	assert.False(t, item.InStock)

	w = do(r, http.MethodPut, "/api/projects/p-pcp/materials/s1/stock", `{"qtyInStock":1.5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "1.5", item.QtyInStock.String())

	w = do(r, http.MethodPut, "/api/projects/p-pcp/materials/s1/stock", `{"qtyInStock":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.True(t, item.QtyInStock.IsZero())

	w = do(r, http.MethodPost, "/api/projects/p-pcp/materials/request-purchase", `{"ids":["b1","s1"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"applied":true`)

	p, err := ledger.Project("p-pcp")
	require.NoError(t, err)
	assert.Equal(t, entities.PurchaseRequested, p.Materials[0].PurchaseStatus)

	w = do(r, http.MethodPut, "/api/projects/p-pcp/materials/zz/stock", `{"qtyInStock":"1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaterials_Import(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"type": "COMERCIAL_PART", "text": "3\tParafuso M16\tAço"})
	w := do(r, http.MethodPost, "/api/projects/p-com/materials/import", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":1`)

	w = do(r, http.MethodPost, "/api/projects/p-com/materials/import", `{"type":"TUBO","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchasing_QueueAndStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/purchasing", "")
	require.Equal(t, http.StatusOK, w.Code)
	var queue []dto.PurchasingProject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &queue))
	require.NotEmpty(t, queue)

	w = do(r, http.MethodGet, "/api/purchasing?status=LOST", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/purchasing/status", `{"ids":["b2"],"status":"ordered","deliveryForecast":"2025-12-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"updated":1,"applied":true}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/purchasing/items", `{"ids":["b2"]}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReport_Formats(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/projects/p-pcp/report?kind=PENDING_ONLY", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Tubo Quadrado 50x50")

	w = do(r, http.MethodGet, "/api/projects/p-pcp/report?format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = do(r, http.MethodGet, "/api/projects/p-pcp/report?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/projects/p-com/report", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProduction_StatusSplitAndLabel(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/projects/p-prod/production/status", `{"itemId":"b3","status":"DONE"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/projects/p-prod/progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "100")

	w = do(r, http.MethodPost, "/api/projects/p-prod/production/b3/split", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/projects/p-prod/production/b3/split?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"applied":true`)

	w = do(r, http.MethodGet, "/api/projects/p-prod/materials/b4/label.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestProcesses(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/processes", `{"name":"Galvanização","color":"#123456"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/processes", `{"name":"Galvanização"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodDelete, "/api/processes/nothing?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimesheet_JobLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	job := `{"funcionario":"Ana","op":"OP-1004","cliente":"Cliente OP-1004","maquina":"Serra","serviceType":"Corte"}`
	w := do(r, http.MethodPost, "/api/timesheet/jobs", job)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/timesheet/employees", `{"name":"Ana"}`).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/timesheet/machines", `{"name":"Serra"}`).Code)

	w = do(r, http.MethodPost, "/api/timesheet/jobs", job)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var started entities.ActiveJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	w = do(r, http.MethodPost, "/api/timesheet/jobs/"+started.ID+"/stop", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/timesheet/records?employee=Ana", "")
	require.Equal(t, http.StatusOK, w.Code)
	var records []entities.JobRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	w = do(r, http.MethodGet, "/api/timesheet/records/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Ana")

	w = do(r, http.MethodPost, "/api/timesheet/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sem anomalias")

	w = do(r, http.MethodPost, "/api/timesheet/jobs/unknown/stop", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBackup_ExportRestoreReset(t *testing.T) {
	r, ledger := newTestRouter(t)

	// the fixture ledger only reaches the store once something is saved
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/projects/p-com/send-to-engineering", "").Code)

	w := do(r, http.MethodGet, "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "metalerp_backup_")
	exported := w.Body.String()

	w = do(r, http.MethodPost, "/api/backup/restore?confirm=true", `{"projects":"[]"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/reset", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, ledger.Projects(), 4)

	w = do(r, http.MethodPost, "/api/reset?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ledger.Projects())

	w = do(r, http.MethodPost, "/api/backup/restore?confirm=true", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, ledger.Projects(), 4)
}

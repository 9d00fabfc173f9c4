package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/covdata"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/webhook"
	"github.com/LambdaTest/neuron/testutils"
	"github.com/LambdaTest/neuron/testutils/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sha = "6113728f27ae82c7b1a177c8d03f9e96e0adf246"

func TestRouter_Handler(t *testing.T) {
	logger, err := testutils.GetLogger()
	require.NoError(t, err)

	errorOutput := "eslint exited 2"
	tests := []struct {
		name             string
		httpRequest      *http.Request
		setup            func(checkRun *mocks.CheckRunService, coverage *mocks.CoverageService)
		wantResponseCode int
		wantBody         string
	}{
		{
			name:             "health",
			httpRequest:      httptest.NewRequest(http.MethodGet, "/health", nil),
			wantResponseCode: http.StatusOK,
			wantBody:         http.StatusText(http.StatusOK),
		},
		{
			name:        "run",
			httpRequest: httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/check_set/run", nil),
			setup: func(checkRun *mocks.CheckRunService, _ *mocks.CoverageService) {
				checkRun.On("Run", mock.Anything, int64(7), sha).Return(nil)
			},
			wantResponseCode: http.StatusAccepted,
			wantBody:         http.StatusText(http.StatusAccepted),
		},
		{
			name:        "run on a busy commit",
			httpRequest: httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/check_set/run", nil),
			setup: func(checkRun *mocks.CheckRunService, _ *mocks.CoverageService) {
				checkRun.On("Run", mock.Anything, int64(7), sha).Return(errs.ErrLockBusy)
			},
			wantResponseCode: http.StatusConflict,
			wantBody:         `{"message":"lock is held by another owner"}`,
		},
		{
			name:             "invalid repo id",
			httpRequest:      httptest.NewRequest(http.MethodPost, "/repos/seven/commits/"+sha+"/check_set/run", nil),
			wantResponseCode: http.StatusBadRequest,
			wantBody:         `{"message":"repo_id must be an integer"}`,
		},
		{
			name:        "wrap up",
			httpRequest: httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/check_set/wrap_up", nil),
			setup: func(checkRun *mocks.CheckRunService, _ *mocks.CoverageService) {
				checkRun.On("WrapUp", mock.Anything, int64(7), sha).Return(&core.CheckSet{ID: 3, CommitID: 2, Status: core.CheckSetProcessed}, nil)
			},
			wantResponseCode: http.StatusOK,
			wantBody:         `{"id":3,"commit_id":2,"status":"processed","canceling":false,"updated_at":"0001-01-01T00:00:00Z"}`,
		},
		{
			name:        "pickup without check set",
			httpRequest: httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/check_set/pickup", nil),
			setup: func(checkRun *mocks.CheckRunService, _ *mocks.CoverageService) {
				checkRun.On("Pickup", mock.Anything, int64(7), sha).Return(nil, errs.ErrCheckSetNotFound)
			},
			wantResponseCode: http.StatusNotFound,
			wantBody:         `{"message":"check set not found"}`,
		},
		{
			name: "plugin patch",
			httpRequest: httptest.NewRequest(http.MethodPatch, "/repos/7/commits/"+sha+"/plugins/sider/eslint",
				bytes.NewBufferString(`{"status":"errored","error_output":"eslint exited 2"}`)),
			setup: func(checkRun *mocks.CheckRunService, _ *mocks.CoverageService) {
				checkRun.On("ApplyStatusPatch", mock.Anything, int64(7), sha, "sider/eslint",
					&core.StatusPatch{Status: "errored", ErrorOutput: &errorOutput}).
					Return(&core.Check{ID: 5, PluginName: "sider/eslint", Status: core.CheckErrored, ErrorOutput: errorOutput}, nil)
			},
			wantResponseCode: http.StatusOK,
			wantBody:         `{"id":5,"check_set_id":0,"plugin_name":"sider/eslint","plugin":"","status":"errored","error_output":"eslint exited 2"}`,
		},
		{
			name: "plugin patch with unknown status",
			httpRequest: httptest.NewRequest(http.MethodPatch, "/repos/7/commits/"+sha+"/plugins/sider/eslint",
				bytes.NewBufferString(`{"status":"done"}`)),
			setup: func(checkRun *mocks.CheckRunService, _ *mocks.CoverageService) {
				checkRun.On("ApplyStatusPatch", mock.Anything, int64(7), sha, "sider/eslint", mock.Anything).
					Return(nil, errs.ErrUnknownStatus("done"))
			},
			wantResponseCode: http.StatusUnprocessableEntity,
			wantBody:         `{"message":"status: unknown status \"done\""}`,
		},
		{
			name:             "plugin patch without status",
			httpRequest:      httptest.NewRequest(http.MethodPatch, "/repos/7/commits/"+sha+"/plugins/sider/eslint", bytes.NewBufferString(`{}`)),
			wantResponseCode: http.StatusBadRequest,
		},
		{
			name: "coverage ingestion",
			httpRequest: httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/coverage",
				bytes.NewBufferString(`{"files":{"main.go":"1\u001e\u0015"}}`)),
			setup: func(_ *mocks.CheckRunService, coverage *mocks.CoverageService) {
				coverage.On("Ingest", mock.Anything, int64(7), sha, map[string][]byte{"main.go": []byte("1\x1e\x15")}).
					Return(&core.CoverageInfo{ID: 1, CommitID: 2, Status: core.CoverageProcessed, LinesTotal: 2, LinesCovered: 1, PercentCovered: 50}, nil)
			},
			wantResponseCode: http.StatusOK,
			wantBody:         `{"id":1,"commit_id":2,"status":"processed","lines_total":2,"lines_covered":1,"percent_covered":50}`,
		},
		{
			name:             "coverage ingestion without files",
			httpRequest:      httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/coverage", bytes.NewBufferString(`{}`)),
			wantResponseCode: http.StatusBadRequest,
		},
		{
			name:        "coverage blocks",
			httpRequest: httptest.NewRequest(http.MethodGet, "/repos/7/commits/"+sha+"/coverage/blocks?path=main.go", nil),
			setup: func(_ *mocks.CheckRunService, coverage *mocks.CoverageService) {
				coverage.On("Blocks", mock.Anything, int64(7), sha, "main.go").
					Return([]covdata.Block{{Kind: covdata.KindCovered, StartLine: 1, EndLine: 1}, {Kind: covdata.KindMissed, StartLine: 2, EndLine: 2}}, nil)
			},
			wantResponseCode: http.StatusOK,
			wantBody:         `{"path":"main.go","blocks":[{"kind":"covered","start_line":1,"end_line":1},{"kind":"missed","start_line":2,"end_line":2}]}`,
		},
		{
			name:             "coverage blocks without path",
			httpRequest:      httptest.NewRequest(http.MethodGet, "/repos/7/commits/"+sha+"/coverage/blocks", nil),
			wantResponseCode: http.StatusBadRequest,
			wantBody:         `{"message":"path is required"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRun := new(mocks.CheckRunService)
			coverage := new(mocks.CoverageService)
			if tt.setup != nil {
				tt.setup(checkRun, coverage)
			}
			dispatcher := webhook.NewDispatcher("", webhook.Table{}, logger)
			newRouter := NewRouter(logger, checkRun, coverage, dispatcher, nil)

			resp := httptest.NewRecorder()
			gin.SetMode(gin.TestMode)
			newRouter.Handler().ServeHTTP(resp, tt.httpRequest)

			assert.Equal(t, tt.wantResponseCode, resp.Code)
			if tt.wantBody != "" {
				if resp.Header().Get("Content-Type") == gin.MIMEPlain {
					assert.Equal(t, tt.wantBody, resp.Body.String())
				} else {
					assert.JSONEq(t, tt.wantBody, resp.Body.String())
				}
			}
			checkRun.AssertExpectations(t)
			coverage.AssertExpectations(t)
		})
	}
}

func TestRouter_RecoveredPanicIsLoggedAsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := testutils.NewLogRecorder()
	checkRun := new(mocks.CheckRunService)
	checkRun.On("Run", mock.Anything, int64(7), sha).Run(func(mock.Arguments) {
		panic("store exploded")
	})
	dispatcher := webhook.NewDispatcher("", webhook.Table{}, logs)
	handler := NewRouter(logs, checkRun, new(mocks.CoverageService), dispatcher, nil).Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/repos/7/commits/"+sha+"/check_set/run", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var recovered bool
	for _, e := range logs.Entries() {
		if e.Level == lumber.Error && strings.Contains(e.Message, "store exploded") {
			recovered = true
		}
	}
	assert.True(t, recovered)
}

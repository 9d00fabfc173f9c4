package gitprovider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/testutils"
	"github.com/google/go-github/v69/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL
	return client
}

var testCommit = &core.Commit{
	ID:         1,
	Sha:        "6113728f27ae82c7b1a177c8d03f9e96e0adf246",
	Repository: core.Repository{ID: 1296269, Org: "octocat", Name: "hello-world"},
}

func TestContentFetcher_FetchFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/contents/.tas.yml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testCommit.Sha, r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"name":     ".tas.yml",
			"path":     ".tas.yml",
			"content":  base64.StdEncoding.EncodeToString([]byte("version: 1\n")),
		})
	})
	mux.HandleFunc("/repos/octocat/hello-world/contents/missing.yml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/repos/octocat/hello-world/contents/broken.yml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})
	mux.HandleFunc("/repos/octocat/hello-world/contents/src", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"type":"file","name":"main.go","path":"src/main.go"}]`)
	})

	logger, err := testutils.GetLogger()
	require.NoError(t, err)
	fetcher := NewContentFetcher(newTestClient(t, mux), logger)

	tests := []struct {
		name    string
		path    string
		want    []byte
		wantErr error
		anyErr  bool
	}{
		{name: "file", path: ".tas.yml", want: []byte("version: 1\n")},
		{name: "missing file", path: "missing.yml", wantErr: errs.ErrNotFound},
		{name: "directory", path: "src", wantErr: errs.ErrNotFound},
		{name: "server error", path: "broken.yml", anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fetcher.FetchFile(context.Background(), testCommit, tt.path)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, errs.ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStatusSink_Report(t *testing.T) {
	var received github.RepoStatus
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/statuses/"+testCommit.Sha, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"state":"success"}`)
	})
	sink := NewStatusSink(newTestClient(t, mux))

	err := sink.Report(context.Background(), testCommit, &core.CommitStatus{
		State:       core.StateSuccess,
		Context:     "tas/checks",
		Description: "Looking good!",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", received.GetState())
	assert.Equal(t, "tas/checks", received.GetContext())
	assert.Equal(t, "Looking good!", received.GetDescription())
	assert.Nil(t, received.TargetURL)
}

func TestStatusSink_ReportFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/hello-world/statuses/"+testCommit.Sha, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Validation Failed"}`)
	})
	sink := NewStatusSink(newTestClient(t, mux))

	err := sink.Report(context.Background(), testCommit, &core.CommitStatus{State: core.StateFailure, Context: "tas/coverage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR::STATUS::REPORT")
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.GitHub
		wantErr bool
		wantURL string
	}{
		{name: "token", cfg: config.GitHub{Token: "secret"}, wantURL: "https://api.github.com/"},
		{name: "enterprise", cfg: config.GitHub{Token: "secret", BaseURL: "https://ghe.example.com/api/v3"}, wantURL: "https://ghe.example.com/api/v3/"},
		{name: "app with invalid key", cfg: config.GitHub{AppID: 1, InstallationID: 2, PrivateKey: "not a key"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, client.BaseURL.String())
		})
	}
}

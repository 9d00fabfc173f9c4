package manifest

import (
	"errors"
	"testing"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	logger, err := testutils.GetLogger()
	require.NoError(t, err)
	p, err := NewParser(logger)
	require.NoError(t, err)

	tests := []struct {
		name     string
		content  string
		wantKind string
		check    func(t *testing.T, m *core.Manifest)
	}{
		{
			name: "full manifest",
			content: `
version: 1
coverage:
  min_percent: 80.5
exclude:
  - "vendor/**"
checks:
  - plugin: localhost:5000/sider/eslint:1.0
    envs:
      NODE_ENV: test
    mounts:
      - source: secrets:npmrc
        target: /home/user/.npmrc
      - source: secrets:token
        kind: env
        target: NPM_TOKEN
  - plugin: rubocop
`,
			check: func(t *testing.T, m *core.Manifest) {
				require.Len(t, m.Checks, 2)
				assert.Equal(t, "1", m.Version)
				assert.Equal(t, 80.5, *m.Coverage.MinPercent)
				assert.Equal(t, map[string]string{"NODE_ENV": "test"}, m.Checks[0].Envs)
				assert.Equal(t, core.MountFile, m.Checks[0].Mounts[0].Kind)
				assert.Equal(t, core.MountEnv, m.Checks[0].Mounts[1].Kind)
			},
		},
		{
			name:    "empty checks",
			content: "checks: []\n",
			check: func(t *testing.T, m *core.Manifest) {
				assert.Empty(t, m.Checks)
				assert.Nil(t, m.Coverage)
				assert.Equal(t, "1", m.Version)
			},
		},
		{
			name:    "empty document",
			content: "",
			check: func(t *testing.T, m *core.Manifest) {
				assert.Empty(t, m.Checks)
			},
		},
		{
			name:    "minor version accepted",
			content: "version: \"1.2\"\nchecks: []\n",
			check: func(t *testing.T, m *core.Manifest) {
				assert.Equal(t, "1.2", m.Version)
			},
		},
		{
			name:     "syntax error",
			content:  "checks: [\n",
			wantKind: errs.ManifestSyntax,
		},
		{
			name:     "unsupported version",
			content:  "version: 2\n",
			wantKind: errs.ManifestVersion,
		},
		{
			name:     "unparsable version",
			content:  "version: next\n",
			wantKind: errs.ManifestVersion,
		},
		{
			name:     "mount source outside secrets",
			content:  "checks:\n  - plugin: eslint\n    mounts:\n      - source: /etc/passwd\n        target: /tmp/x\n",
			wantKind: errs.ManifestInvalidMount,
		},
		{
			name:     "bare secrets prefix",
			content:  "checks:\n  - plugin: eslint\n    mounts:\n      - source: \"secrets:\"\n        target: /tmp/x\n",
			wantKind: errs.ManifestInvalidMount,
		},
		{
			name:     "missing plugin",
			content:  "checks:\n  - envs:\n      A: b\n",
			wantKind: errs.ManifestInvalidField,
		},
		{
			name:     "threshold out of range",
			content:  "coverage:\n  min_percent: 120\n",
			wantKind: errs.ManifestInvalidField,
		},
		{
			name:     "unknown mount kind",
			content:  "checks:\n  - plugin: eslint\n    mounts:\n      - source: secrets:a\n        kind: volume\n        target: /a\n",
			wantKind: errs.ManifestInvalidField,
		},
		{
			name:     "malformed exclude pattern",
			content:  "exclude:\n  - \"src/[\"\n",
			wantKind: errs.ManifestInvalidField,
		},
		{
			name:     "duplicate plugin names",
			content:  "checks:\n  - plugin: sider/eslint:1\n  - plugin: ghcr.io/sider/eslint:2\n",
			wantKind: errs.ManifestDuplicate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse([]byte(tt.content))
			if tt.wantKind != "" {
				var merr *errs.InvalidManifestError
				require.True(t, errors.As(err, &merr), "Parse() error = %v", err)
				assert.Equal(t, tt.wantKind, merr.Kind)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"default", "checks: []", 1, false},
		{"integer", "version: 1", 1, false},
		{"dotted", "version: 1.4", 1, false},
		{"major two", "version: \"2.0\"", 2, false},
		{"garbage", "version: x", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetVersion([]byte(tt.content))
			if (err != nil) != tt.wantErr {
				t.Errorf("GetVersion() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("GetVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "valid bolt config",
			config:  Config{Backend: BackendBolt, DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite without DataDir returns ErrDataDirEmpty",
			config:  Config{Backend: BackendSQLite},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "memory does not need a DataDir",
			config:  Config{Backend: BackendMemory},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKnownBackendsValidate(t *testing.T) {
	for _, name := range KnownBackends() {
		assert.NoError(t, Config{Backend: name, DataDir: t.TempDir()}.Validate(), name)
	}
}

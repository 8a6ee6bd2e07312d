package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{"export ok", ExportRequest{Path: "/srv/share", Client: "10.0.0.0/24", Options: DefaultExportOptions}, false},
		{"export wildcard client", ExportRequest{Path: "/srv/share", Client: "*"}, false},
		{"export relative path", ExportRequest{Path: "srv/share", Client: "*"}, true},
		{"export missing client", ExportRequest{Path: "/srv/share"}, true},
		{"export client with parens", ExportRequest{Path: "/srv/share", Client: "host(rw)"}, true},
		{"unexport all", UnexportRequest{Path: "/srv/share"}, false},
		{"mount ok", MountRequest{Server: "10.0.0.1", Remote: "/srv/share", MountPoint: "/mnt/share"}, false},
		{"mount server with colon", MountRequest{Server: "10.0.0.1:", Remote: "/srv", MountPoint: "/mnt"}, true},
		{"mount relative target", MountRequest{Server: "nas", Remote: "/srv", MountPoint: "mnt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var se *ShareError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, ErrInvalid, se.Code)
		})
	}
}

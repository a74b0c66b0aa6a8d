package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/api"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		flag    string
		want    api.ExportFormat
		wantErr bool
	}{
		{name: "csv extension", path: "out.csv", want: api.ExportCSV},
		{name: "pdf extension uppercased", path: "Report.PDF", want: api.ExportPDF},
		{name: "flag wins over extension", path: "out.csv", flag: "pdf", want: api.ExportPDF},
		{name: "no extension", path: "out", wantErr: true},
		{name: "unsupported extension", path: "out.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exportCmd()
			if tt.flag != "" {
				require.NoError(t, cmd.Flags().Set("format", tt.flag))
			}

			got, err := resolveFormat(cmd, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlainText(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{
			name: "utf-8",
			data: []byte("Go developer, Zürich\r\nRemote"),
			want: "Go developer, Zürich\nRemote",
		},
		{
			name: "utf-8 with bom",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Data analyst")...),
			want: "Data analyst",
		},
		{
			name: "utf-16le with bom",
			data: []byte{0xFF, 0xFE, 'S', 0, 'Q', 0, 'L', 0},
			want: "SQL",
		},
		{
			name: "utf-16be with bom",
			data: []byte{0xFE, 0xFF, 0, 'A', 0, 'W', 0, 'S'},
			want: "AWS",
		},
		{
			name: "windows-1252",
			data: []byte("Caf\xe9 manager, r\xe9sum\xe9"),
			want: "Café manager, résumé",
		},
		{
			name:    "binary",
			data:    []byte("PK\x03\x04\x14\x00\x06\x00binary"),
			wantErr: errBinaryContent,
		},
		{
			name:    "whitespace only",
			data:    []byte(" \n\t \r\n"),
			wantErr: errNoText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePlainText(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary("name,role\nAna,Engineer\n"))
	assert.False(t, isBinary("col1\tcol2\fnext page"))
	assert.True(t, isBinary("abc\x01\x02\x03def"))
	assert.False(t, isBinary(""))
}

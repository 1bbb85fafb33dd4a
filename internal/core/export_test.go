package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeField(t *testing.T) {
	tests := []struct {
		in     string
		always bool
		want   string
	}{
		{"KE", false, "KE"},
		{"KE", true, `"KE"`},
		{"", true, `""`},
		{"", false, ""},
		{"Seoul, Gimpo", false, `"Seoul, Gimpo"`},
		{`The "Big" Apple`, false, `"The ""Big"" Apple"`},
		{`say "hi"`, true, `"say ""hi"""`},
		{"line\nbreak", false, "\"line\nbreak\""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeField(tt.in, tt.always), "%q always=%v", tt.in, tt.always)
	}
}

func TestEncodeCSV(t *testing.T) {
	columns := []ColumnSpec{{Header: "code"}, {Header: "name", Quoted: true}}

	t.Run("header only", func(t *testing.T) {
		got := EncodeCSV(columns, []string{"Code", "Name"}, nil)
		assert.Equal(t, "\ufeffCode,Name", string(got))
	})

	t.Run("rows joined without trailing newline", func(t *testing.T) {
		got := EncodeCSV(columns, []string{"Code", "Name"}, [][]string{
			{"KE", "Korean Air"},
			{"OZ", `Asiana "OZ"`},
		})
		assert.Equal(t, "\ufeffCode,Name\nKE,\"Korean Air\"\nOZ,\"Asiana \"\"OZ\"\"\"", string(got))
	})

	t.Run("bom bytes", func(t *testing.T) {
		got := EncodeCSV(columns, []string{"a", "b"}, nil)
		assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, got[:3])
	})
}

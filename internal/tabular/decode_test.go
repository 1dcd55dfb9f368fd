package tabular_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-csv2pdf/internal/tabular"
)

// ---------------------------------------------------------------------------
// TestDecode - Encodings, byte order mark, invalid input
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
		wantErr  error
	}{
		{
			name:     "default utf-8",
			data:     []byte("a,b\ncafé,1\n"),
			encoding: "",
			want:     "a,b\ncafé,1\n",
		},
		{
			name:     "byte order mark removed",
			data:     []byte("\xef\xbb\xbfa,b\n"),
			encoding: "utf-8",
			want:     "a,b\n",
		},
		{
			name:     "iso-8859-15 euro sign",
			data:     []byte("caf\xe9 \xa4"),
			encoding: "iso-8859-15",
			want:     "café €",
		},
		{
			name:     "latin1 label",
			data:     []byte("\xe9t\xe9"),
			encoding: "latin1",
			want:     "été",
		},
		{
			name:     "invalid utf-8",
			data:     []byte("a,\xff\n"),
			encoding: "utf-8",
			wantErr:  tabular.ErrDecode,
		},
		{
			name:     "unknown encoding",
			data:     []byte("a,b\n"),
			encoding: "klingon",
			wantErr:  tabular.ErrUnknownEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tabular.Decode(tt.data, tt.encoding)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

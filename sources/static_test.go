package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuiltinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r, time.Second)
	return r
}

func TestStaticSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	onDisk := filepath.Join(dir, "logo.bin")
	require.NoError(t, os.WriteFile(onDisk, []byte{0xde, 0xad}, 0o644))

	tests := []struct {
		name    string
		cfg     string
		want    []byte
		wantErr bool
	}{
		{"Inline", `{"type":"inline","content":"food food"}`, []byte("food food"), false},
		{"InlineEmpty", `{"type":"inline"}`, []byte{}, false},
		{"Base64", `{"type":"base64","data":"aGVsbG8="}`, []byte("hello"), false},
		{"Base64Invalid", `{"type":"base64","data":"!!"}`, nil, true},
		{"File", `{"type":"file","path":"` + filepath.ToSlash(onDisk) + `"}`, []byte{0xde, 0xad}, false},
		{"FileMissing", `{"type":"file","path":"` + filepath.ToSlash(filepath.Join(dir, "none")) + `"}`, nil, true},
		{"FileNoPath", `{"type":"file"}`, nil, true},
	}

	r := newBuiltinRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := r.Resolve(context.Background(), []byte(tt.cfg))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestFileSource_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&FileSource{Path: "whatever"}).Content(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

package filesystem

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/hierfs/internal/mocks"
)

func TestReadableFile_Read(t *testing.T) {
	t.Parallel()

	owner := NewRegularUser("alice", "")
	other := NewRegularUser("bob", "")
	admin := NewAdministrator("root", "")
	twin := NewRegularUser("alice", "")

	f := owner.CreateTextFile("notes.txt", "secret plans")

	tests := []struct {
		name      string
		requester *Principal
		wantErr   error
	}{
		{"Owner", owner, nil},
		{"Administrator", admin, nil},
		{"OtherUser", other, ErrAccessDenied},
		{"SameNameDifferentIdentity", twin, ErrAccessDenied},
		{"NilRequester", nil, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := f.Read(tt.requester)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, data)
				assert.False(t, f.CanRead(tt.requester))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "secret plans", string(data))
			assert.True(t, f.CanRead(tt.requester))
		})
	}
}

func TestReadableFile_ReadReturnsCopy(t *testing.T) {
	t.Parallel()

	owner := NewRegularUser("alice", "")
	f := owner.CreateTextFile("a.txt", "abc")

	data, err := f.Read(owner)
	require.NoError(t, err)
	data[0] = 'X'

	again, err := f.ReadText(owner)
	require.NoError(t, err)
	assert.Equal(t, "abc", again)
}

func TestReadableFile_SizeKiB(t *testing.T) {
	t.Parallel()

	owner := NewRegularUser("alice", "")

	tests := []struct {
		name    string
		size    int
		wantKiB float64
	}{
		{"Empty", 0, 0},
		{"OneByte", 1, 1.0 / 1024},
		{"Half", 512, 0.5},
		{"Exact", 2048, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := owner.CreateBinaryFile("b", make([]byte, tt.size))
			assert.Equal(t, tt.size, f.Size())
			assert.InDelta(t, tt.wantKiB, f.SizeKiB(), 1e-12)
		})
	}
}

func TestReadableFile_SetContent(t *testing.T) {
	t.Parallel()

	owner := NewRegularUser("alice", "")
	f := owner.CreateTextFile("a.txt", "")
	assert.Zero(t, f.SizeKiB())

	f.SetText(string(make([]byte, 1024)))
	assert.InDelta(t, 1.0, f.SizeKiB(), 1e-12)

	// ownership survives a content change
	assert.Equal(t, owner.ID(), f.Owner())

	src := []byte("shared")
	f.SetContent(src)
	src[0] = 'X'
	got, err := f.ReadText(owner)
	require.NoError(t, err)
	assert.Equal(t, "shared", got)
}

func TestTextualFile_CountOccurrences(t *testing.T) {
	t.Parallel()

	owner := NewRegularUser("alice", "")

	tests := []struct {
		name    string
		content string
		needle  string
		want    int
	}{
		{"CaseInsensitive", "Banana banana BANANA", "banana", 3},
		{"NeedleUppercase", "banana", "BAN", 1},
		{"NonOverlapping", "aaaa", "aa", 2},
		{"Absent", "apple", "pear", 0},
		{"EmptyNeedle", "anything", "", 0},
		{"EmptyContent", "", "a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := owner.CreateTextFile("t.txt", tt.content)
			assert.Equal(t, tt.want, f.CountOccurrences(tt.needle))
		})
	}
}

func TestTextualFile_ReadTextDenied(t *testing.T) {
	t.Parallel()

	f := NewRegularUser("alice", "").CreateTextFile("t.txt", "x")
	text, err := f.ReadText(NewRegularUser("bob", ""))
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, text)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBinaryFile_GetDimensions(t *testing.T) {
	t.Parallel()

	owner := NewRegularUser("alice", "")

	t.Run("DefaultDecoder", func(t *testing.T) {
		t.Parallel()

		f := owner.CreateBinaryFile("img.png", encodePNG(t, 640, 480))
		w, h, err := f.GetDimensions()
		require.NoError(t, err)
		assert.Equal(t, 640, w)
		assert.Equal(t, 480, h)
	})

	t.Run("NotAnImage", func(t *testing.T) {
		t.Parallel()

		f := owner.CreateBinaryFile("blob.bin", []byte("plain bytes"))
		_, _, err := f.GetDimensions()
		assert.Error(t, err)
	})

	t.Run("CustomDecoder", func(t *testing.T) {
		t.Parallel()

		content := []byte{1, 2, 3}
		decoder := &mocks.MockDimensionDecoder{}
		decoder.On("Dimensions", content).Return(3, 1, nil).Once()

		f := owner.CreateBinaryFile("raw", content)
		f.SetDimensionDecoder(decoder)

		w, h, err := f.GetDimensions()
		require.NoError(t, err)
		assert.Equal(t, 3, w)
		assert.Equal(t, 1, h)
		decoder.AssertExpectations(t)
	})

	t.Run("DecoderError", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		decoder := &mocks.MockDimensionDecoder{}
		decoder.On("Dimensions", mock.Anything).Return(0, 0, boom)

		f := owner.CreateBinaryFile("raw", nil)
		f.SetDimensionDecoder(decoder)

		_, _, err := f.GetDimensions()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("ResetToDefault", func(t *testing.T) {
		t.Parallel()

		decoder := &mocks.MockDimensionDecoder{}
		f := owner.CreateBinaryFile("img.png", encodePNG(t, 2, 5))
		f.SetDimensionDecoder(decoder)
		f.SetDimensionDecoder(nil)

		w, h, err := f.GetDimensions()
		require.NoError(t, err)
		assert.Equal(t, []int{2, 5}, []int{w, h})
		decoder.AssertNotCalled(t, "Dimensions", mock.Anything)
	})
}

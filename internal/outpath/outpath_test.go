package outpath

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a fixed time and advances by step on every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "rabocard_1700000000_ynab.csv", FileName(time.Unix(1700000000, 0)))
}

func TestResolve_GeneratedNextToFirstInput(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	r := New(clock)

	got, err := r.Resolve("", []string{filepath.Join(dir, "a.csv"), "/elsewhere/b.csv"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rabocard_1700000000_ynab.csv"), got)
}

func TestResolve_GeneratedNamesDifferOneSecondApart(t *testing.T) {
	dir := t.TempDir()
	r := New(&fakeClock{now: time.Unix(1700000000, 0), step: time.Second})
	inputs := []string{filepath.Join(dir, "a.csv")}

	first, err := r.Resolve("", inputs)
	require.NoError(t, err)
	second, err := r.Resolve("", inputs)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestResolve_Requested(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.csv")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"new file", filepath.Join(dir, "out.csv"), nil},
		{"existing file", existing, ErrOutputExists},
		{"directory", dir, ErrOutputIsDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(nil).Resolve(tt.path, []string{"in.csv"})
			assert.Equal(t, tt.path, got)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_GeneratedNameTaken(t *testing.T) {
	dir := t.TempDir()
	now := time.Unix(1700000000, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(now)), nil, 0o644))

	_, err := New(&fakeClock{now: now}).Resolve("", []string{filepath.Join(dir, "a.csv")})
	assert.ErrorIs(t, err, ErrOutputExists)
}

func TestResolve_NoInputs(t *testing.T) {
	_, err := New(nil).Resolve("", nil)
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestResolve_StatFailure(t *testing.T) {
	denied := errors.New("permission denied")
	r := &Resolver{
		clock: SystemClock{},
		stat:  func(string) (fs.FileInfo, error) { return nil, denied },
	}

	_, err := r.Resolve("out.csv", nil)
	assert.ErrorIs(t, err, denied)
}

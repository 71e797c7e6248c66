package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagePoolReuse(t *testing.T) {
	rect := image.Rect(0, 0, 16, 8)
	img := GetImage(rect)
	require.NotNil(t, img)
	assert.Equal(t, rect, img.Rect)
	PutImage(img)

	other := GetImage(image.Rect(0, 0, 4, 4))
	assert.Equal(t, image.Rect(0, 0, 4, 4), other.Rect)
	PutImage(nil)
}

func TestImagePoolKeysBySize(t *testing.T) {
	pool := NewImagePool()

	img := pool.Get(image.Pt(6, 3))
	assert.Equal(t, image.Rect(0, 0, 6, 3), img.Rect)
	pool.Put(img)

	// смещённый прямоугольник того же размера даёт буфер с началом в (0,0)
	shifted := GetImage(image.Rect(10, 20, 16, 23))
	assert.Equal(t, image.Rect(0, 0, 6, 3), shifted.Rect)
	PutImage(shifted)

	// подызображение не попадает в пул: его Pix делится с родителем
	parent := image.NewNRGBA(image.Rect(0, 0, 12, 3))
	sub := parent.SubImage(image.Rect(0, 0, 6, 3)).(*image.NRGBA)
	pool.Put(sub)
	for i := 0; i < 4; i++ {
		got := pool.Get(image.Pt(6, 3))
		assert.Equal(t, 24, got.Stride)
	}
}

func TestFindLatestAnimation(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.json", "b.JSON", "c.json", "notes.txt"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}

	latest, err := FindLatestAnimation(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.json"), latest)

	_, err = FindLatestAnimation(t.TempDir())
	assert.Error(t, err)
}

func TestCollectStats(t *testing.T) {
	s, err := CollectStats()
	if err != nil {
		t.Skipf("host stats unavailable: %v", err)
	}
	assert.Greater(t, s.LogicalCPUs, 0)
	assert.NotEmpty(t, s.String())
}

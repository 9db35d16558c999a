package batch

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainview/internal/camera"
	"trainview/internal/geometry"
	"trainview/internal/monitoring"
	"trainview/internal/motion"
	"trainview/internal/scene"
	"trainview/internal/session"
	"trainview/internal/spline"
	"trainview/internal/surface"
	"trainview/internal/texture"
	"trainview/internal/timeutil"
	"trainview/internal/trace"
)

func muteLogs(t *testing.T) {
	t.Helper()
	orig := monitoring.Logf
	t.Cleanup(func() { monitoring.Logf = orig })
	monitoring.SetLogger(nil)
}

func simulate(t *testing.T, frames int, rec *trace.Recorder) []session.Snapshot {
	t.Helper()
	muteLogs(t)
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	s := session.New(nil, spline.Cardinal, geometry.DefaultOptions(), clock)
	in := motion.Input{Direction: 1, Running: true, SliderSpeed: 2, ArcLengthPacing: true}
	return Simulate(s, clock, in, frames, 30, rec)
}

func TestSimulate(t *testing.T) {
	var rec trace.Recorder
	snaps := simulate(t, 6, &rec)
	require.Len(t, snaps, 6)
	assert.Equal(t, 6, rec.Len())

	for i, sn := range snaps {
		assert.Equal(t, i, sn.Index)
		assert.InDelta(t, float64(i+1)/30, sn.Time.Seconds(), 1e-6)
		if i > 0 {
			assert.Greater(t, sn.TrainU, snaps[i-1].TrainU)
		}
	}
	assert.Empty(t, Simulate(nil, nil, motion.Input{}, 0, 30, nil))
}

func testConfig(t *testing.T) Config {
	return Config{
		OutputDir:   t.TempDir(),
		TexResolver: texture.NewCache(nil),
		Scene:       scene.Options{Camera: camera.World, Surface: surface.Castle, Shadows: true},
		RenderSize:  24,
		Supersample: 2,
		Workers:     2,
		KeepFrames:  true,
	}
}

func TestRun(t *testing.T) {
	snaps := simulate(t, 3, nil)
	cfg := testConfig(t)

	results := Run(cfg, snaps)
	require.Len(t, results, 3)
	for i, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, i, r.Index)
		require.NotNil(t, r.Frame)
		assert.Equal(t, 24, r.Frame.Bounds().Dx())

		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, r.Image))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("RIFF")))
		assert.Equal(t, []byte("WEBP"), data[8:12])
	}

	sheet := filepath.Join(cfg.OutputDir, "sheet.webp")
	require.NoError(t, SaveSheet(sheet, results, 2, 16))
	_, err := os.Stat(sheet)
	assert.NoError(t, err)
}

func TestRunReportsWriteErrors(t *testing.T) {
	snaps := simulate(t, 1, nil)
	cfg := testConfig(t)
	blocker := filepath.Join(cfg.OutputDir, "frames")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	results := Run(cfg, snaps)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.NotEmpty(t, results[0].Error)
}

func TestSaveSheetWithoutFrames(t *testing.T) {
	err := SaveSheet(filepath.Join(t.TempDir(), "s.webp"), []Result{{Index: 0}}, 2, 16)
	assert.Error(t, err)
}

func TestManifest(t *testing.T) {
	snaps := simulate(t, 2, nil)
	results := []Result{
		{Index: 0, Image: FrameName(0), Success: true},
		{Index: 1, Image: FrameName(1), Error: "disk full"},
	}
	m := NewManifest(Manifest{Spline: "cardinal", FPS: 30, ArcLength: true}, snaps, results)
	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err)
	assert.Equal(t, len(snaps[1].Geometry.Sleepers), m.Sleepers)
	require.Len(t, m.Frames, 2)
	assert.Equal(t, "frames/0000.webp", m.Frames[0].Image)
	assert.Equal(t, "disk full", m.Frames[1].Error)
	assert.Equal(t, snaps[1].Train.Pos, m.Frames[1].Position)
	assert.Equal(t, snaps[1].Segment(), m.Frames[1].Segment)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, m))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Manifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.RunID, back.RunID)
	assert.Equal(t, m.Frames[0].TrainU, back.Frames[0].TrainU)
	assert.True(t, back.ArcLength)
}

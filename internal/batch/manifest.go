package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"trainview/internal/mathutil"
	"trainview/internal/session"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Created   time.Time       `json:"created"`
	Spline    string          `json:"spline"`
	Camera    string          `json:"camera"`
	Surface   string          `json:"surface"`
	Light     string          `json:"light"`
	FPS       int             `json:"fps"`
	ArcLength bool            `json:"arc_length"`
	Sleepers  int             `json:"sleepers"`
	Frames    []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index    int           `json:"index"`
	Time     float64       `json:"time"`
	TrainU   float64       `json:"train_u"`
	Segment  int           `json:"segment"`
	Position mathutil.Vec3 `json:"position"`
	Forward  mathutil.Vec3 `json:"forward"`
	Image    string        `json:"image,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// NewManifest fills in the run ID, creation time and one entry per
// snapshot. Results are matched to snapshots by index; results may be nil.
func NewManifest(header Manifest, snaps []session.Snapshot, results []Result) Manifest {
	m := header
	m.RunID = uuid.NewString()
	m.Created = time.Now().UTC()
	if len(snaps) > 0 {
		m.Sleepers = len(snaps[len(snaps)-1].Geometry.Sleepers)
	}

	byIndex := make(map[int]Result, len(results))
	for _, r := range results {
		byIndex[r.Index] = r
	}

	m.Frames = make([]ManifestEntry, len(snaps))
	for i, sn := range snaps {
		e := ManifestEntry{
			Index:    sn.Index,
			Time:     sn.Time.Seconds(),
			TrainU:   sn.TrainU,
			Segment:  sn.Segment(),
			Position: sn.Train.Pos,
			Forward:  sn.Train.Forward,
		}
		if r, ok := byIndex[sn.Index]; ok {
			if r.Success {
				e.Image = filepath.ToSlash(r.Image)
			} else {
				e.Error = r.Error
			}
		}
		m.Frames[i] = e
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

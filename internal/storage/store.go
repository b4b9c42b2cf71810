package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/world"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	snapshotFile = "snapshot.json"
	levelFile    = "level.yaml"
)

var frameHeader = []string{"time", "objects", "in_goal", "energy", "max_speed", "deformation", "strokes", "progress"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Level     int     `json:"level"`
	LevelName string  `json:"level_name"`
	Mode      string  `json:"mode"`
	Seed      uint64  `json:"seed"`
	Dt        float64 `json:"dt"`
	Duration  float64 `json:"duration"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Outcome     string             `json:"outcome"`
	Score       int                `json:"score"`
	Stars       int                `json:"stars"`
	Steps       int                `json:"steps"`
	StrokesUsed int                `json:"strokes_used"`
	Metrics     map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("level%02d_%s", info.Level, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		RunInfo:     info,
		Outcome:     result.Outcome.String(),
		Score:       result.Score,
		Stars:       result.Stars,
		Steps:       result.StepsTaken,
		StrokesUsed: result.StrokesUsed,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, snapshotFile), result.Final); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.FormatFloat(fr.Time, 'f', 6, 64),
			strconv.Itoa(fr.Objects),
			strconv.Itoa(fr.InGoal),
			strconv.FormatFloat(fr.Energy, 'f', 6, 64),
			strconv.FormatFloat(fr.MaxSpeed, 'f', 6, 64),
			strconv.FormatFloat(fr.Deformation, 'f', 6, 64),
			strconv.Itoa(fr.Strokes),
			strconv.FormatFloat(fr.Progress, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every saved run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSnapshot(runID string) (*world.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		return nil, err
	}

	var snap world.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveLevel keeps the played level next to the run so renders can redraw
// its obstacles.
func (s *Store) SaveLevel(runID string, l *level.Level) error {
	return level.Save(filepath.Join(s.baseDir, runID, levelFile), l)
}

func (s *Store) LoadLevel(runID string) (*level.Level, error) {
	return level.Load(filepath.Join(s.baseDir, runID, levelFile))
}

// LoadFrames reads frames.csv back. Rows that fail to parse are skipped.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}
		f, err := parseFrame(record)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func parseFrame(rec []string) (sim.Frame, error) {
	var (
		f    sim.Frame
		errs []error
	)
	float := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}
	integer := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}

	f.Time = float(rec[0])
	f.Objects = integer(rec[1])
	f.InGoal = integer(rec[2])
	f.Energy = float(rec[3])
	f.MaxSpeed = float(rec[4])
	f.Deformation = float(rec[5])
	f.Strokes = integer(rec[6])
	f.Progress = float(rec[7])
	return f, errors.Join(errs...)
}

// Series extracts one named column from frames, for plotting.
func Series(frames []sim.Frame, column string) ([]float64, error) {
	pick := map[string]func(sim.Frame) float64{
		"objects":     func(f sim.Frame) float64 { return float64(f.Objects) },
		"in_goal":     func(f sim.Frame) float64 { return float64(f.InGoal) },
		"energy":      func(f sim.Frame) float64 { return f.Energy },
		"max_speed":   func(f sim.Frame) float64 { return f.MaxSpeed },
		"deformation": func(f sim.Frame) float64 { return f.Deformation },
		"strokes":     func(f sim.Frame) float64 { return float64(f.Strokes) },
		"progress":    func(f sim.Frame) float64 { return f.Progress },
	}[column]
	if pick == nil {
		return nil, fmt.Errorf("unknown column %q (want one of %v)", column, frameHeader[1:])
	}

	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out, nil
}

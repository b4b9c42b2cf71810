package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/world"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times: []float64{0, 0.5},
		Frames: []sim.Frame{
			{Time: 0, Objects: 0},
			{Time: 0.5, Objects: 2, InGoal: 1, Energy: 99.5, MaxSpeed: 120.25, Strokes: 1, Progress: 0.5},
		},
		Metrics: map[string]float64{
			"total_energy": 1.5,
		},
		Outcome:     sim.Completed,
		Score:       420,
		Stars:       2,
		StepsTaken:  30,
		StrokesUsed: 1,
		Final: world.Snapshot{
			Steps:   30,
			Objects: []world.ObjectState{{ID: 1, Kind: "ball"}},
		},
	}
}

var info = RunInfo{Level: 3, LevelName: "Level 3", Mode: "easy", Seed: 42, Dt: 1.0 / 60, Duration: 10}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(info, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "level03_") {
		t.Errorf("expected level-prefixed run id, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Level != 3 || meta.Mode != "easy" {
		t.Errorf("expected level 3 easy, got %d %s", meta.Level, meta.Mode)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Outcome != "completed" || meta.Score != 420 || meta.Stars != 2 {
		t.Errorf("expected completed/420/2, got %s/%d/%d", meta.Outcome, meta.Score, meta.Stars)
	}
	if meta.Metrics["total_energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["total_energy"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1] != testResult().Frames[1] {
		t.Errorf("expected %+v, got %+v", testResult().Frames[1], frames[1])
	}

	snap, err := st.LoadSnapshot(runID)
	if err != nil {
		t.Fatalf("load snapshot failed: %v", err)
	}
	if snap.Steps != 30 || len(snap.Objects) != 1 {
		t.Errorf("expected snapshot with 30 steps and 1 object, got %+v", snap)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for range 2 {
		if _, err := st.Save(info, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) == 2 && runs[0].ID == runs[1].ID {
		t.Error("expected distinct run ids")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(info, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, framesFile, snapshotFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadFramesSkipsBadRows(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "manual")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	csv := strings.Join(frameHeader, ",") + "\n" +
		"0.1,1,0,50,10,0,0,0\n" +
		"oops,1,0,50,10,0,0,0\n" +
		"0.2,1,0\n"
	if err := os.WriteFile(filepath.Join(runDir, framesFile), []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	frames, err := New(tmpDir).LoadFrames("manual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 1 || frames[0].Energy != 50 {
		t.Errorf("expected one good frame, got %+v", frames)
	}
}

func TestSeries(t *testing.T) {
	frames := testResult().Frames

	got, err := Series(frames, "objects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1] != 2 {
		t.Errorf("expected [0 2], got %v", got)
	}

	if _, err := Series(frames, "colour"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, info, testResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Level != 3 || got.Steps != 30 || len(got.Frames) != 2 {
		t.Errorf("unexpected export %+v", got)
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, info, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
}

func TestLoadExport(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	runID, err := store.Save(info, testResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.LoadExport(runID)
	if err != nil {
		t.Fatalf("load export: %v", err)
	}
	if got.Outcome != "completed" || got.Score != 420 || len(got.Frames) != 2 || got.Final.Steps != 30 {
		t.Errorf("unexpected export %+v", got)
	}

	if _, err := store.LoadExport("missing"); err == nil {
		t.Error("expected error for a missing run")
	}
}

func TestSaveLevel(t *testing.T) {
	store := New(t.TempDir())
	runID, err := store.Save(info, testResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	want := level.Generate(12, level.Hard)
	if err := store.SaveLevel(runID, want); err != nil {
		t.Fatalf("save level: %v", err)
	}
	got, err := store.LoadLevel(runID)
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	if got.ID != want.ID || len(got.Obstacles) != len(want.Obstacles) {
		t.Errorf("expected level %d with %d obstacles, got %d with %d", want.ID, len(want.Obstacles), got.ID, len(got.Obstacles))
	}
}

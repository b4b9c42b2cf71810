package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/world"
)

type ExportData struct {
	RunInfo
	Outcome string             `json:"outcome"`
	Score   int                `json:"score"`
	Stars   int                `json:"stars"`
	Steps   int                `json:"steps"`
	Frames  []sim.Frame        `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
	Final   world.Snapshot     `json:"final"`
}

func NewExportData(info RunInfo, result *sim.Result) ExportData {
	return ExportData{
		RunInfo: info,
		Outcome: result.Outcome.String(),
		Score:   result.Score,
		Stars:   result.Stars,
		Steps:   result.StepsTaken,
		Frames:  result.Frames,
		Metrics: result.Metrics,
		Final:   result.Final,
	}
}

// LoadExport assembles the export of a stored run.
func (s *Store) LoadExport(runID string) (ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return ExportData{}, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return ExportData{}, err
	}
	snap, err := s.LoadSnapshot(runID)
	if err != nil {
		return ExportData{}, err
	}
	return ExportData{
		RunInfo: meta.RunInfo,
		Outcome: meta.Outcome,
		Score:   meta.Score,
		Stars:   meta.Stars,
		Steps:   meta.Steps,
		Frames:  frames,
		Metrics: meta.Metrics,
		Final:   *snap,
	}, nil
}

func (d ExportData) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	return NewExportData(info, result).Write(w)
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, info, result)
}

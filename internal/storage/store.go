package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/citsigol/internal/bifurc"
)

// Store persists sampled diagrams under a base directory, one
// subdirectory per run with metadata.json and points.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string    `json:"id"`
	Map              string    `json:"map"`
	Mode             string    `json:"mode"`
	Timestamp        time.Time `json:"timestamp"`
	RMin             float64   `json:"r_min"`
	RMax             float64   `json:"r_max"`
	XMin             float64   `json:"x_min"`
	XMax             float64   `json:"x_max"`
	Cols             int       `json:"cols"`
	Rows             int       `json:"rows"`
	BurnIn           int       `json:"burn_in"`
	Samples          int       `json:"samples"`
	Depth            int       `json:"depth"`
	Points           int       `json:"points"`
	PrecisionLimited bool      `json:"precision_limited"`
}

func (s *Store) Save(mapName string, mode string, cfg bifurc.Config, res *bifurc.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s_%d", mapName, mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	w := res.Window
	meta := RunMetadata{
		ID:               runID,
		Map:              mapName,
		Mode:             mode,
		Timestamp:        time.Now(),
		RMin:             w.RMin,
		RMax:             w.RMax,
		XMin:             w.XMin,
		XMax:             w.XMax,
		Cols:             w.Cols,
		Rows:             w.Rows,
		BurnIn:           cfg.BurnIn,
		Samples:          cfg.Samples,
		Depth:            res.Depth,
		Points:           len(res.Points),
		PrecisionLimited: res.PrecisionLimited,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "points.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	cw := csv.NewWriter(csvFile)
	defer cw.Flush()

	if err := cw.Write([]string{"r", "x", "depth"}); err != nil {
		return "", err
	}

	for _, p := range res.Points {
		row := []string{
			strconv.FormatFloat(p.R, 'g', 17, 64),
			strconv.FormatFloat(p.X, 'g', 17, 64),
			strconv.Itoa(p.Depth),
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPoints reads a run's point rows back into memory. Malformed rows
// are skipped.
func (s *Store) LoadPoints(runID string) ([]bifurc.Point, error) {
	csvPath := filepath.Join(s.baseDir, runID, "points.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []bifurc.Point{}, nil
	}

	points := make([]bifurc.Point, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]

		r, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		x, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		depth, err := strconv.Atoi(record[2])
		if err != nil {
			continue
		}

		points = append(points, bifurc.Point{R: r, X: x, Depth: depth})
	}

	return points, nil
}

// LoadResult reconstructs a full result from a stored run.
func (s *Store) LoadResult(runID string) (*bifurc.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	points, err := s.LoadPoints(runID)
	if err != nil {
		return nil, err
	}
	return &bifurc.Result{
		Window: bifurc.Window{
			RMin: meta.RMin,
			RMax: meta.RMax,
			XMin: meta.XMin,
			XMax: meta.XMax,
			Cols: meta.Cols,
			Rows: meta.Rows,
		},
		Points:           points,
		Depth:            meta.Depth,
		PrecisionLimited: meta.PrecisionLimited,
	}, nil
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/citsigol/internal/bifurc"
)

type DiagramData struct {
	Map              string         `json:"map"`
	Mode             string         `json:"mode"`
	RMin             float64        `json:"r_min"`
	RMax             float64        `json:"r_max"`
	XMin             float64        `json:"x_min"`
	XMax             float64        `json:"x_max"`
	Depth            int            `json:"depth"`
	PrecisionLimited bool           `json:"precision_limited"`
	Points           []bifurc.Point `json:"points"`
}

// WriteJSON emits a sampled diagram as indented JSON.
func WriteJSON(w io.Writer, mapName, mode string, res *bifurc.Result) error {
	win := res.Window
	data := DiagramData{
		Map:              mapName,
		Mode:             mode,
		RMin:             win.RMin,
		RMax:             win.RMax,
		XMin:             win.XMin,
		XMax:             win.XMax,
		Depth:            res.Depth,
		PrecisionLimited: res.PrecisionLimited,
		Points:           res.Points,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV emits a sampled diagram as r,x,depth rows with a header.
func WriteCSV(w io.Writer, res *bifurc.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"r", "x", "depth"}); err != nil {
		return err
	}

	for _, p := range res.Points {
		row := []string{
			strconv.FormatFloat(p.R, 'g', 17, 64),
			strconv.FormatFloat(p.X, 'g', 17, 64),
			strconv.Itoa(p.Depth),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

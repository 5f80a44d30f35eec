// Package export writes analysis results to interchange formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/threadlens/threadlens/internal/model"
)

var csvColumns = []string{"comment_id", "sentiment", "confidence", "topics", "toxicity", "emotion", "summary"}

// WriteCSV writes one row per analysis with topics comma-joined in a single
// cell.
func WriteCSV(w io.Writer, analyses []model.CommentAnalysis) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	for _, a := range analyses {
		row := []string{
			a.CommentID,
			string(a.Sentiment),
			fmt.Sprintf("%.3f", a.Confidence),
			strings.Join(a.Topics, ","),
			string(a.Toxicity),
			string(a.Emotion),
			a.Summary,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "export: write CSV row for %s", a.CommentID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

// WriteCSVFile creates (or truncates) path and writes the analyses to it.
func WriteCSVFile(path string, analyses []model.CommentAnalysis) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	return WriteCSV(f, analyses)
}

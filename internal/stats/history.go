package stats

import (
	"fmt"
	"io"

	"github.com/RohanGottipati/typeflow/internal/model"
)

// RenderHistory prints a summary block and a per-session table for the
// stored records (newest first).
func RenderHistory(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}

	var totalWPM, totalAcc, totalConsistency float64
	bestWPM := 0.0
	for _, r := range records {
		totalWPM += r.WPM
		totalAcc += r.Accuracy
		totalConsistency += r.ConsistencyScore
		if r.WPM > bestWPM {
			bestWPM = r.WPM
		}
	}
	count := float64(len(records))
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.1f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.1f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", totalAcc/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Consistency: %.1f\n", totalConsistency/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"When", "Mode", "WPM", "Accuracy", "Backspaces", "Duration", "Persona"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.EndedAt.Format("2006-01-02 15:04"),
			string(r.Mode),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%d", r.Backspaces),
			fmt.Sprintf("%ds", r.TestDuration),
			r.Persona.Title,
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	// Oldest-to-newest WPM curve below the table.
	wpms := make([]float64, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		wpms = append(wpms, records[i].WPM)
	}
	if len(wpms) > 1 {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		if err := PlotWPMCurve(w, "WPM across sessions", wpms, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

// Package export writes finalized session records as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RohanGottipati/typeflow/internal/model"
)

// WriteJSON writes the record as indented JSON. Decoding the output
// reproduces the record exactly.
func WriteJSON(w io.Writer, record model.SessionRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return nil
}

// WriteCSV writes the record as a sectioned CSV document. Row order is
// deterministic: identical records produce identical bytes.
func WriteCSV(w io.Writer, record model.SessionRecord) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"metric", "value"},
		{"id", record.ID},
		{"startedAt", record.StartedAt.Format("2006-01-02T15:04:05.000Z07:00")},
		{"endedAt", record.EndedAt.Format("2006-01-02T15:04:05.000Z07:00")},
		{"mode", string(record.Mode)},
		{"wpm", formatFloat(record.WPM)},
		{"accuracy", formatFloat(record.Accuracy)},
		{"backspaces", strconv.Itoa(record.Backspaces)},
		{"totalCharacters", strconv.Itoa(record.TotalCharacters)},
		{"correctCharacters", strconv.Itoa(record.CorrectCharacters)},
		{"incorrectCharacters", strconv.Itoa(record.IncorrectCharacters)},
		{"testDuration", strconv.Itoa(record.TestDuration)},
		{"consistencyScore", formatFloat(record.ConsistencyScore)},
		{"reactionDelay", formatFloat(record.ReactionDelay)},
		{"persona", record.Persona.Title},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	if err := writeSection(cw, [][]string{{"second", "wpm"}}, wpmRows(record.WPMOverTime)); err != nil {
		return err
	}
	if err := writeSection(cw, [][]string{{"missedCharacter", "count"}}, missedRows(record.MissedCharacters)); err != nil {
		return err
	}
	if err := writeSection(cw, [][]string{{"errorHotspotSecond", "errors"}}, hotspotRows(record.TopErrorHotspots)); err != nil {
		return err
	}
	if err := writeSection(cw, [][]string{{"backspaceHotspotSecond", "backspaces"}}, hotspotRows(record.TopBackspaceHotspots)); err != nil {
		return err
	}

	var personaRows [][]string
	for _, trait := range record.Persona.Traits {
		personaRows = append(personaRows, []string{"trait", trait})
	}
	for _, insight := range record.PersonaInsights {
		personaRows = append(personaRows, []string{"insight", insight})
	}
	personaRows = append(personaRows, []string{"summary", record.Summary})
	if err := writeSection(cw, [][]string{{"persona", "text"}}, personaRows); err != nil {
		return err
	}

	var keystrokeRows [][]string
	for _, k := range record.KeystrokeLog {
		keystrokeRows = append(keystrokeRows, []string{
			formatFloat(k.Seconds), k.Char, k.Expected,
			strconv.FormatBool(k.Correct), strconv.Itoa(k.Position),
		})
	}
	if err := writeSection(cw, [][]string{{"seconds", "char", "expected", "correct", "position"}}, keystrokeRows); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// ToFile writes the record into dir as <id>.<format> and returns the
// full path. Format is "csv" or "json".
func ToFile(dir string, record model.SessionRecord, format string) (string, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "json" {
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, record.ID+"."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if format == "csv" {
		err = WriteCSV(f, record)
	} else {
		err = WriteJSON(f, record)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeSection(cw *csv.Writer, header, rows [][]string) error {
	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.WriteAll(header); err != nil {
		return err
	}
	return cw.WriteAll(rows)
}

func wpmRows(series []model.WPMSample) [][]string {
	rows := make([][]string, 0, len(series))
	for _, sample := range series {
		rows = append(rows, []string{strconv.Itoa(sample.Second), formatFloat(sample.WPM)})
	}
	return rows
}

// missedRows orders by count descending, then by character ascending.
func missedRows(missed map[string]int) [][]string {
	type entry struct {
		char  string
		count int
	}
	entries := make([]entry, 0, len(missed))
	for char, count := range missed {
		entries = append(entries, entry{char, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].char < entries[j].char
	})
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.char, strconv.Itoa(e.count)})
	}
	return rows
}

func hotspotRows(hotspots []model.Hotspot) [][]string {
	rows := make([][]string, 0, len(hotspots))
	for _, h := range hotspots {
		rows = append(rows, []string{strconv.Itoa(h.Second), strconv.Itoa(h.Count)})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// package formatter renders sets and chord charts as plain text, Markdown and CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/setlist"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// NoChords is printed for a song whose chart has no chords in any section.
const NoChords = "No chords found for this song."

// ChordSeparator joins the chords of one section.
const ChordSeparator = " - "

// Format names an export rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat maps user input to a [Format].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	case "", "txt":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use text, markdown, csv or json)", shared.ErrInvalidFlag, s)
	}
}

// SetExport is a set in performance order with the options used to print it.
type SetExport struct {
	Name   string        `json:"name"`
	Songs  []models.Song `json:"songs"`
	Offset chords.Offset `json:"offset"`
	// Chords appends each song's chart to text and Markdown output.
	Chords bool `json:"-"`
}

// Export renders e in format f.
func Export(e SetExport, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(e)
	case FormatMarkdown:
		return ExportToMarkdown(e)
	case FormatJSON:
		return json.MarshalIndent(e, "", "  ")
	case FormatText, "":
		return ExportToText(e)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts a set to CSV with columns: Position, ID, Title, Artist, Key, Capo, Energy, Popularity
func ExportToCSV(e SetExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Key", "Capo", "Energy", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range e.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			song.ID.String(),
			song.Title,
			song.Artist,
			string(song.Key),
			string(song.Capo),
			strconv.Itoa(song.Energy),
			strconv.FormatFloat(song.Popularity, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a set to a numbered Markdown list, optionally followed by chord charts.
func ExportToMarkdown(e SetExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title(e))
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(e.Songs))
	if e.Offset.Active() {
		fmt.Fprintf(&buf, "**Transpose**: %s\n", e.Offset)
	}
	buf.WriteString("\n## Set\n\n")

	for i, song := range e.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, song.Artist, song.Title, details(song))
	}

	if !e.Chords {
		return buf.Bytes(), nil
	}

	buf.WriteString("\n## Chords\n")
	for i, song := range e.Songs {
		fmt.Fprintf(&buf, "\n### %d. %s\n\n", i+1, song.Title)
		if song.HasChordLink() {
			fmt.Fprintf(&buf, "[Chords](%s)\n", song.ChordLink)
			continue
		}
		buf.WriteString("```\n")
		buf.WriteString(RenderChart(song, e.Offset))
		buf.WriteString("```\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a set to plain text, optionally followed by chord charts.
func ExportToText(e SetExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Set: %s\n", title(e))
	fmt.Fprintf(&buf, "Songs: %d\n", len(e.Songs))
	if e.Offset.Active() {
		fmt.Fprintf(&buf, "Transpose: %s\n", e.Offset)
	}
	buf.WriteString("\n")

	for i, song := range e.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, song.Artist, song.Title, details(song))
	}

	if e.Chords {
		for i, song := range e.Songs {
			fmt.Fprintf(&buf, "\n== %d. %s ==\n", i+1, song.Title)
			buf.WriteString(RenderChart(song, e.Offset))
		}
	}

	return buf.Bytes(), nil
}

// RenderChart prints a song's chart one section per line in fixed section order, shifted by offset.
//
// Songs that link out to their chords print the link instead.
func RenderChart(song models.Song, offset chords.Offset) string {
	if song.HasChordLink() {
		return fmt.Sprintf("Chords: %s\n", song.ChordLink)
	}

	chart := setlist.Chart(song, offset)
	if chart.Empty() {
		return NoChords + "\n"
	}

	var b strings.Builder
	for _, section := range models.SectionOrder {
		symbols := chart[section]
		if len(symbols) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", section.Label(), strings.Join(symbols, ChordSeparator))
	}
	return b.String()
}

// WriteExport renders e in format f and writes it to path.
//
// Defaults to {name}.{ext} in the working directory.
func WriteExport(e SetExport, f Format, path string) (string, error) {
	if path == "" {
		path = Filename(e.Name, f)
	}

	data, err := Export(e, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// Filename returns the file name an export of the set called name is written to by default.
func Filename(name string, f Format) string {
	base := strings.ReplaceAll(strings.ToLower(shared.NormalizeName(name)), " ", "_")
	if base == "" {
		base = "set"
	}

	ext := map[Format]string{FormatText: "txt", FormatMarkdown: "md", FormatCSV: "csv", FormatJSON: "json"}[f]
	if ext == "" {
		ext = "txt"
	}
	return base + "." + ext
}

func title(e SetExport) string {
	if e.Name == "" {
		return "Untitled set"
	}
	return e.Name
}

func details(song models.Song) string {
	var parts []string
	if song.Key != "" {
		parts = append(parts, "Key: "+string(song.Key))
	}
	if song.Capo != "" && song.Capo != "0" {
		parts = append(parts, "Capo: "+string(song.Capo))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

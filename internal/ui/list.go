package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/gigbuilder/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps a [models.Song] at a set position to implement [list.Item].
type songItem struct {
	position int
	song     models.Song
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist }
func (i songItem) Title() string       { return fmt.Sprintf("%d. %s", i.position, i.song.Title) }
func (i songItem) Description() string {
	parts := []string{i.song.Artist}
	if i.song.Key != "" {
		parts = append(parts, "Key "+string(i.song.Key))
	}
	if i.song.Capo != "" && i.song.Capo != "0" {
		parts = append(parts, "Capo "+string(i.song.Capo))
	}
	parts = append(parts, fmt.Sprintf("Energy %d", i.song.Energy))
	return strings.Join(parts, " • ")
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{position: i + 1, song: s}
	}
	return items
}

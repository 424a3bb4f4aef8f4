// Package ui implements the stage-mode terminal view using bubbletea's Elm architecture.
//
// Two views share one [Model]:
//  1. [SetView] : the working set in performance order
//  2. [ChartView] : the chord chart of the current song, transposed by the session offset
//
// Stage mode renders the chart large and framed for reading at a distance. It is a persisted preference restored when
// the view starts and written back whenever it is toggled.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, enter, esc, +/-, s, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui

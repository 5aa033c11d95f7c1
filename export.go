package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sketchflow/internal/diagram"
	"sketchflow/internal/export"
)

const defaultExportName = "sketchflow.png"

// exportFile writes doc to filename, as PNG or as box-drawing text
// depending on the extension. A name without an extension gets ".png".
func exportFile(filename string, doc diagram.Document) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
		filename += ext
	}
	var write func(*os.File) error
	switch ext {
	case ".png":
		write = func(f *os.File) error { return export.PNG(f, doc, export.Options{}) }
	case ".txt":
		write = func(f *os.File) error { return export.Text(f, doc, export.Options{}) }
	default:
		return "", fmt.Errorf("unsupported export format %q (use .png or .txt)", ext)
	}

	if len(doc) == 0 {
		return "", export.ErrEmpty
	}
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := write(file); err != nil {
		file.Close()
		os.Remove(filename)
		return "", fmt.Errorf("export %s: %w", filename, err)
	}
	return filename, file.Close()
}

// exportDiagram writes the open document into the save directory.
func (m *model) exportDiagram(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = defaultExportName
	}
	path, err := exportFile(m.cfg.SavePath(filename), m.store.Document())
	if err != nil {
		m.log.Error().Err(err).Str("file", filename).Msg("export failed")
		return "", err
	}
	m.log.Info().Str("file", path).Msg("exported")
	return path, nil
}

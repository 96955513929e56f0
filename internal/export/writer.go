package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/afterglow/glowcut/internal/editor"
)

// WriteEDL validates the target directory, renders the project as an
// EDL and writes it as <project>.edl under dir.
func WriteEDL(p editor.Project, frameRate float64, dir string) (*Result, error) {
	if err := ValidateOutputDir(dir); err != nil {
		return nil, err
	}

	count := EventCount(p)
	if count == 0 {
		return nil, fmt.Errorf("project has no clips to export")
	}

	base := SanitizeName(p.Name, 60)
	if base == "" {
		base = "untitled"
	}
	outputPath := filepath.Join(dir, base+".edl")

	content := GenerateEDL(p, frameRate)
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write EDL: %w", err)
	}

	return &Result{
		Status:     "ok",
		Format:     "edl",
		OutputPath: outputPath,
		EventCount: count,
	}, nil
}

package sam

import (
	"fmt"
	"os"
	"path/filepath"
)

// Checkpoint filenames per model variant.
var defaultCheckpoints = map[string]string{
	"vit_h": "models/sam_vit_h_4b8939.pth",
	"vit_l": "models/sam_vit_l_0b3195.pth",
	"vit_b": "models/sam_vit_b_01ec64.pth",
}

// ResolveCheckpoint locates the model checkpoint file for the given model
// type. An explicit path wins if it exists; otherwise the per-type default
// is searched relative to the working directory, under src/, and under
// ~/.colony-scan/models/. A miss is fatal for the caller: there is no model
// to load and no point starting a batch.
func ResolveCheckpoint(explicitPath, modelType string) (string, error) {
	if explicitPath != "" && fileExists(explicitPath) {
		return explicitPath, nil
	}

	def, ok := defaultCheckpoints[modelType]
	if !ok {
		return "", fmt.Errorf("unknown model type %q", modelType)
	}

	candidates := []string{def, filepath.Join("src", def)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".colony-scan", "models", filepath.Base(def)))
	}

	for _, p := range candidates {
		if fileExists(p) {
			return p, nil
		}
	}

	return "", fmt.Errorf("model checkpoint not found; download the %s model to %s", modelType, def)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

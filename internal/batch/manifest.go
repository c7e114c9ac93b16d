package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	Mesh      string `json:"mesh"`
	Image     string `json:"image,omitempty"`
	Triangles int    `json:"triangles"`
	Pixels    int    `json:"pixels_written"`
	Error     string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json describing every result.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:      r.Name,
			Mesh:      r.MeshPath,
			Image:     r.Image,
			Triangles: r.Triangles,
			Pixels:    r.Written,
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

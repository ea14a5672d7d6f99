package configfile

import (
	"encoding/json"
	"fmt"
	"os"

	"quote-engine/core/engine"
	"quote-engine/internal/errors"
)

// LoadRequest reads a quote request document from a JSON file.
// Absent fields keep their zero values; the engine applies its own defaults.
func LoadRequest(path string) (*engine.Request, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("failed to read request file %s", path), err)
	}

	var req engine.Request
	if err := json.Unmarshal(src, &req); err != nil {
		return nil, errors.Parsing(fmt.Sprintf("invalid request document %s", path), err)
	}
	return &req, nil
}

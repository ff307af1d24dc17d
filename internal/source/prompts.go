package source

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadPrompts reads the sheet-name -> default-query map from a JSON file.
// A missing file is not an error to the pipeline; callers decide whether to
// treat an empty map as fatal.
func LoadPrompts(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts %q: %w", path, err)
	}
	prompts := map[string]string{}
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse prompts %q: %w", path, err)
	}
	return prompts, nil
}

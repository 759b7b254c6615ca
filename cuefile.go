package chime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseCue parses a cue from .json or .yml data. A missing envelope defaults
// to DefaultEnvelope and a missing name to "cue".
func ParseCue(data []byte) (Cue, error) {
	var cue Cue
	if errJSON := json.Unmarshal(data, &cue); errJSON != nil {
		cue = Cue{}
		if errYaml := yaml.Unmarshal(data, &cue); errYaml != nil {
			return Cue{}, fmt.Errorf("the cue could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	if cue.Envelope == (Envelope{}) {
		cue.Envelope = DefaultEnvelope
	}
	if cue.Name == "" {
		cue.Name = "cue"
	}
	if err := cue.Validate(); err != nil {
		return Cue{}, err
	}
	return cue, nil
}

// LoadCue reads a cue file. Cues without a name are named after the file.
func LoadCue(filename string) (Cue, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Cue{}, fmt.Errorf("could not read file %v: %w", filename, err)
	}
	cue, err := ParseCue(data)
	if err != nil {
		return Cue{}, fmt.Errorf("could not parse file %v: %w", filename, err)
	}
	if cue.Name == "cue" {
		_, name := filepath.Split(filename)
		cue.Name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return cue, nil
}

// YAML marshals the cue in the format understood by ParseCue.
func (c Cue) YAML() ([]byte, error) {
	ret, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("could not marshal cue %q: %w", c.Name, err)
	}
	return ret, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
)

// Organization is one synchronization unit from the organizations file: an IQ
// organization id paired with the department name used to discover its
// repositories.
type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ChineseName string `json:"chineseName"`
}

// Eligible reports whether the entry carries both fields required to act on
// it. Entries that are not eligible must stay invisible to every downstream
// call.
func (o Organization) Eligible() bool {
	return o.ID != "" && o.ChineseName != ""
}

// LoadOrganizations reads the organizations file and returns the eligible
// entries in file order. Entries missing id or chineseName are skipped with a
// warning; a file with no usable entries is a configuration error.
func LoadOrganizations(path string) ([]Organization, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read organizations file %q: %w", path, err)
	}

	var all []Organization
	if unmarshalErr := json.Unmarshal(data, &all); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse organizations file %q: %w", path, unmarshalErr)
	}

	eligible := make([]Organization, 0, len(all))
	for _, org := range all {
		if !org.Eligible() {
			logger.Warnf("Skipping organization entry (name=%q, id=%q): missing id or chineseName", org.Name, org.ID)
			continue
		}
		eligible = append(eligible, org)
	}

	if len(eligible) == 0 {
		return nil, fmt.Errorf("organizations file %q has no usable entries", path)
	}

	return eligible, nil
}

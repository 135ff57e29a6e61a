package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// AccountInfo is the optional account.json a statements directory may carry,
// typically written by the bank export alongside the statement files.
type AccountInfo struct {
	Name      string
	Balance   float64
	AsOf      time.Time
	HasRecord bool
}

// DetectAccount reads <dataDir>/account.json. A missing or malformed file
// yields a zero AccountInfo with HasRecord=false.
func DetectAccount(dataDir string) AccountInfo {
	path := filepath.Join(dataDir, "account.json")
	data, err := os.ReadFile(path) //nolint:gosec // path is constructed from the configured data dir
	if err != nil {
		return AccountInfo{}
	}

	var raw struct {
		Name    string   `json:"name"`
		Balance *float64 `json:"balance"`
		AsOf    string   `json:"as_of"`
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw.Balance == nil {
		return AccountInfo{}
	}

	info := AccountInfo{Name: raw.Name, Balance: *raw.Balance, HasRecord: true}
	if t, err := time.Parse("2006-01-02", raw.AsOf); err == nil {
		info.AsOf = t
	}
	return info
}

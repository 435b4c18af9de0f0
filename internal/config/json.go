package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Parsed
// values are copied into the runtime Config.
type JsonConfig struct {
	DatabasePath   string `json:"database_path"`
	BackupDir      string `json:"backup_dir"`
	RecentlyEdited int    `json:"recently_edited"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flags; when neither is given, nothing
// is loaded. Read and unmarshal errors panic (caller should recover if
// desired). Zero-valued JSON fields leave the existing Config value alone.
func parseJson(cfg *Config) {
	file := flagx.JsonConfigFlags()
	if file == "" {
		return
	}

	data, err := os.ReadFile(file)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.BackupDir != "" {
		cfg.BackupDir = jc.BackupDir
	}
	if jc.RecentlyEdited > 0 {
		cfg.RecentlyEdited = jc.RecentlyEdited
	}
}

package internal

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the on-disk client configuration.
type Settings struct {
	ServerURL    string `yaml:"ServerURL"`
	Handle       string `yaml:"Handle"`
	EnableSounds bool   `yaml:"EnableSounds"`
}

func defaultSettings() *Settings {
	return &Settings{
		ServerURL:    "ws://localhost:8000/ws",
		Handle:       "neo",
		EnableSounds: true,
	}
}

// readSettings loads settings from cfgPath, falling back to defaults
// when the file does not exist.
func readSettings(cfgPath string) (*Settings, error) {
	fh, err := os.Open(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	defer func() {
		_ = fh.Close()
	}()

	prefs := defaultSettings()
	decoder := yaml.NewDecoder(fh)
	if err := decoder.Decode(prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *Settings) save(cfgPath string) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(cfgPath, out, 0666)
}

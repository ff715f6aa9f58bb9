// Package config handles exporter configuration loading and management.
package config

// AllDoodadSets is the doodad set filter value that exports every set.
const AllDoodadSets = -1

// Config holds all exporter settings.
type Config struct {
	Data     DataConfig    `yaml:"data"`
	Export   ExportConfig  `yaml:"export"`
	Textures TextureConfig `yaml:"textures"`
	Models   ModelConfig   `yaml:"models"`
	Logging  LoggingConfig `yaml:"logging"`
}

// DataConfig holds game data locations.
type DataConfig struct {
	Roots    []string `yaml:"roots"`    // Extracted client data directories, later roots win
	Listfile string   `yaml:"listfile"` // "id;path" listfile for file id lookups
}

// ExportConfig holds output settings.
type ExportConfig struct {
	OutDir              string `yaml:"out_dir"`
	DestinationOverride string `yaml:"destination_override"` // Flat output subdirectory, empty keeps the source layout
	DoodadSet           int    `yaml:"doodad_set"`           // AllDoodadSets or a single set index
}

// TextureConfig holds texture export settings.
type TextureConfig struct {
	MaxSize int `yaml:"max_size"` // Longest edge in pixels, 0 keeps the original size
}

// ModelConfig holds the external dependent model exporter command.
// {ref} is replaced with the file id or name, {outdir} with the output directory.
type ModelConfig struct {
	Command []string `yaml:"command"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Roots: []string{"data"},
		},
		Export: ExportConfig{
			OutDir:    "export",
			DoodadSet: AllDoodadSets,
		},
		Textures: TextureConfig{
			MaxSize: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

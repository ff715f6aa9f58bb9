package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagOut       = flag.String("out", "", "Output root directory")
	flagDest      = flag.String("dest", "", "Write all files into this subdirectory of the output root")
	flagDoodadSet = flag.String("doodadset", "", "Export only this doodad set index (\"all\" or -1 for every set)")
	flagData      = flag.String("data", "", "Comma-separated data root directories")
	flagListfile  = flag.String("listfile", "", "Path to the id;path listfile")
	flagLog       = flag.String("log", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags from args (usually os.Args[2:] after
// the subcommand). Call this early in a subcommand.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOut != "" {
		cfg.Export.OutDir = *flagOut
	}
	if *flagDest != "" {
		cfg.Export.DestinationOverride = *flagDest
	}
	if *flagDoodadSet != "" {
		set, err := parseDoodadSet(*flagDoodadSet)
		if err != nil {
			return err
		}
		cfg.Export.DoodadSet = set
	}
	if *flagData != "" {
		var roots []string
		for _, root := range strings.Split(*flagData, ",") {
			if root = strings.TrimSpace(root); root != "" {
				roots = append(roots, root)
			}
		}
		cfg.Data.Roots = roots
	}
	if *flagListfile != "" {
		cfg.Data.Listfile = *flagListfile
	}
	if *flagLog != "" {
		cfg.Logging.LogFile = *flagLog
	}
	return nil
}

func parseDoodadSet(s string) (int, error) {
	if strings.EqualFold(s, "all") {
		return AllDoodadSets, nil
	}
	set, err := strconv.Atoi(s)
	if err != nil || set < AllDoodadSets {
		return 0, fmt.Errorf("invalid doodad set %q: want a set index, -1 or \"all\"", s)
	}
	return set, nil
}

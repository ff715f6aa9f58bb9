// wmoexport converts World of Warcraft world models (WMO) into OBJ/MTL files
// with a model placement manifest.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Faultbox/wmoexport/internal/assets"
	"github.com/Faultbox/wmoexport/internal/config"
	"github.com/Faultbox/wmoexport/internal/export"
	"github.com/Faultbox/wmoexport/internal/logger"
	"github.com/Faultbox/wmoexport/internal/models"
	"github.com/Faultbox/wmoexport/internal/texture"
	"github.com/Faultbox/wmoexport/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		os.Exit(cmdExport(args))
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "texture", "tex":
		cmdTexture(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wmoexport - World of Warcraft WMO to OBJ exporter

Usage:
  wmoexport <command> [options]

Commands:
  export [flags] <file.wmo|fileid>...  Export WMOs to OBJ/MTL/CSV
  info [flags] <file.wmo|fileid>       Show WMO summary
  dump [flags] <file.wmo|fileid>       Dump the parsed root file
  texture <file.blp> [output.png]      Convert one BLP texture
  config [flags]                       Print the effective configuration

Flags:
  -config <path>     Config file (default ./wmoexport.yaml)
  -data <dirs>       Comma-separated data roots
  -listfile <path>   id;path listfile for file id lookups
  -out <dir>         Output root directory
  -dest <dir>        Write everything flat into this subdirectory
  -doodadset <n|all> Export only one doodad set
  -log <path>        Also log to this file
  -debug             Enable debug logging

Examples:
  wmoexport export -data ./wow -out ./export world/wmo/dungeon/test.wmo
  wmoexport export -listfile listfile.csv -dest flat -doodadset 0 108386
  wmoexport info world/wmo/dungeon/test.wmo`)
}

// loadConfig parses flags, loads config and initializes logging.
func loadConfig(args []string) *config.Config {
	if err := config.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// openData opens the configured data roots and listfile.
func openData(cfg *config.Config) *assets.Manager {
	mgr := assets.NewManager()
	for _, root := range cfg.Data.Roots {
		if err := mgr.AddRoot(root); err != nil {
			logger.Warn("Skipping data root", zap.String("root", root), zap.Error(err))
		}
	}

	if cfg.Data.Listfile != "" {
		listfile, err := assets.LoadListfile(cfg.Data.Listfile)
		if err != nil {
			logger.Error("Loading listfile failed", zap.Error(err))
			os.Exit(1)
		}
		mgr.SetListfile(listfile)
		logger.Info("Loaded listfile", zap.Int("entries", listfile.Len()))
	}

	return mgr
}

// loadWMO loads a WMO by file data id or client path.
func loadWMO(mgr *assets.Manager, ref string) (*formats.WMO, string, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		return mgr.LoadWMOByID(uint32(id))
	}
	wmo, err := mgr.LoadWMO(ref)
	return wmo, ref, err
}

func cmdExport(args []string) int {
	cfg := loadConfig(args)
	defer logger.Sync()
	mgr := openData(cfg)
	defer mgr.Close()

	refs := config.Args()
	if len(refs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: wmoexport export [flags] <file.wmo|fileid>...")
		return 1
	}

	var modelExporter export.ModelExporter
	if len(cfg.Models.Command) > 0 {
		modelExporter = models.NewCommandExporter(cfg.Models.Command, logger.Named("models"))
	} else {
		logger.Warn("No model command configured, only already exported doodads are placed")
	}

	exporter := export.New(export.Config{
		Logger:   logger.Named("export"),
		Models:   modelExporter,
		Textures: texture.NewExporter(mgr, cfg.Textures.MaxSize, logger.Named("texture")),
		Progress: export.ProgressFunc(func(percent int, stage string) {
			logger.Debug(stage, zap.Int("progress", percent))
		}),
	})

	opts := export.Options{
		OutDir:              cfg.Export.OutDir,
		DestinationOverride: cfg.Export.DestinationOverride,
		DoodadSet:           cfg.Export.DoodadSet,
	}

	failed := 0
	for _, ref := range refs {
		wmo, file, err := loadWMO(mgr, ref)
		if err != nil {
			logger.Error("Loading WMO failed", zap.String("ref", ref), zap.Error(err))
			failed++
			continue
		}

		res, err := exporter.ExportWMO(file, wmo, opts)
		if err != nil {
			logger.Error("Export failed", zap.String("file", file), zap.Error(err))
			failed++
			continue
		}

		fmt.Printf("Exported: %s (%d groups, %d vertices, %d placements)\n",
			res.Layout.OBJ, res.Groups, res.Vertices, res.Placements)
	}

	hits, misses, size := mgr.CacheStats()
	logger.Debug("Asset cache", zap.Int("hits", hits), zap.Int("misses", misses), zap.Int("bytes", size))

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d exports failed\n", failed, len(refs))
		return 1
	}
	return 0
}

func cmdInfo(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()
	mgr := openData(cfg)
	defer mgr.Close()

	if len(config.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: wmoexport info [flags] <file.wmo|fileid>")
		os.Exit(1)
	}

	wmo, file, err := loadWMO(mgr, config.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	modes := export.SelectModes(wmo)

	fmt.Printf("File:        %s\n", file)
	fmt.Printf("Version:     %d\n", wmo.Version)
	fmt.Printf("Groups:      %d\n", len(wmo.Groups))
	fmt.Printf("Vertices:    %d\n", wmo.GetTotalVertexCount())
	fmt.Printf("Batches:     %d\n", wmo.GetTotalBatchCount())
	fmt.Printf("Materials:   %d\n", len(wmo.Materials))
	fmt.Printf("Textures:    %s\n", modes.Textures)
	fmt.Printf("Doodads:     %d definitions, %s\n", len(wmo.DoodadDefinitions), modes.Doodads)
	fmt.Println()
	fmt.Println("Doodad sets:")
	for i, set := range wmo.DoodadSets {
		fmt.Printf("  %-3d %-24s %d doodads\n", i, export.SanitizeSetName(set.Name), set.NumDoodads)
	}

	fmt.Println()
	fmt.Println("Groups:")
	for i, g := range wmo.Groups {
		name, ok := wmo.GroupName(g.Header.NameOffset)
		if !ok {
			name = "(unnamed)"
		}
		fmt.Printf("  %-3d %-32s %6d verts %4d batches\n", i, strings.ReplaceAll(name, " ", "_"), len(g.Vertices), len(g.RenderBatches))
	}
}

func cmdDump(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()
	mgr := openData(cfg)
	defer mgr.Close()

	if len(config.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: wmoexport dump [flags] <file.wmo|fileid>")
		os.Exit(1)
	}

	wmo, _, err := loadWMO(mgr, config.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Group geometry is too large to be useful in a dump.
	wmo.Groups = nil

	dumper := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	dumper.Fdump(os.Stdout, wmo)
}

func cmdTexture(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()

	rest := config.Args()
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: wmoexport texture <file.blp> [output.png]")
		os.Exit(1)
	}

	src := rest[0]
	dest := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".png"
	if len(rest) > 1 {
		dest = rest[1]
	}

	if err := texture.ConvertFile(src, dest, cfg.Textures.MaxSize); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Converted: %s\n", dest)
}

func cmdConfig(args []string) {
	cfg := loadConfig(args)
	defer logger.Sync()

	if err := cfg.Write(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

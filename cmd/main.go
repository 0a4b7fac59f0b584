package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/hierfs/config"
	"github.com/brettbedarf/hierfs/internal/util"
	"github.com/brettbedarf/hierfs/server"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		verbose    int
		nodesDef   string
		umount     bool
		printTree  bool
		needle     string
		searchAs   string
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (.yaml, .yml or .json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&nodesDef, "nodes", "", "Path to nodes def file")
	flag.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flag.BoolVar(&umount, "umount", false,
		"Unmount the fs first if needed before mounting again. Useful for debuggers that don't exit properly.")
	flag.BoolVar(&umount, "u", false, "--umount (shorthand)")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.BoolVar(&printTree, "print", false, "Print the tree after loading")
	flag.BoolVar(&printTree, "p", false, "--print (shorthand)")
	flag.StringVar(&needle, "search", "", "Print the text files containing this string, case-insensitively")
	flag.StringVar(&searchAs, "as", "", "Principal the -search runs as")
	flag.Parse()

	verboseSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "verbose" || f.Name == "v" {
			verboseSet = true
		}
	})

	// Init config; the flag wins over the file
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", configPath, err)
			os.Exit(2)
		}
	}
	if verboseSet || configPath == "" {
		cfg.Merge(&config.ConfigOverride{LogLvl: &verbose})
	}

	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")

	mnt := flag.Arg(0)
	logger.Info().
		Str("config", configPath).
		Str("nodes", nodesDef).
		Str("mnt", mnt).
		Int("principals", len(cfg.Principals)).
		Msg("HierFS initializing")

	fs := server.New(cfg)

	// Load nodes
	if nodesDef != "" {
		res, err := fs.LoadNodes(context.Background(), nodesDef)
		if err != nil {
			logger.Fatal().Err(err).Str("nodes", nodesDef).Msg("Failed to load nodes file")
		}
		logger.Debug().
			Int("directories", res.Dirs).
			Int("files", res.Files).
			Int("failed", res.Failed).
			Msg("Nodes file loaded")
	} else {
		logger.Warn().Msg("No nodes file provided")
	}

	if needle != "" {
		requester, ok := fs.PrincipalByName(searchAs)
		if !ok {
			logger.Fatal().Str("as", searchAs).Msg("Search principal is not registered")
		}
		for _, hit := range fs.Search(requester, needle) {
			fmt.Printf("%s\t%d\n", hit.Path, hit.Count)
		}
	}

	// Without a mount point there is nothing to serve
	if printTree || mnt == "" {
		fmt.Println(fs.Render())
	}
	if mnt == "" {
		return
	}

	// Try unmount if requested
	if umount { // send cli command
		cmd := exec.Command("fusermount", "-u", mnt)
		// we ignore error here if not already mounted
		cmd.Run() // nolint:errcheck
	}

	// Serve
	if err := fs.Serve(mnt); err != nil {
		logger.Fatal().Err(err).Msg("Failed to mount filesystem")
	}

	// Setup signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	logger.Info().Str("mountpoint", mnt).Msg("Filesystem mounted successfully")

	// Wait for termination signal
	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting filesystem")

	// Unmount the filesystem
	if err := fs.Unmount(); err != nil {
		logger.Error().Err(err).Msg("Failed to unmount filesystem")
	} else {
		logger.Info().Msg("Filesystem unmounted successfully")
	}
}

package main

import (
	"fmt"
	"os"
	"strings"

	"algotrader/internal/cli"
	"algotrader/internal/config"
	"algotrader/internal/logging"
)

// configDirFromArgs pulls the --config value out of the raw argument list
// before cobra parses it, since the loaded config feeds command
// construction. Both "--config dir" and "--config=dir" forms are accepted;
// the last occurrence wins, matching flag semantics.
func configDirFromArgs(args []string) string {
	dir := ""
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			dir = args[i+1]
		} else if v, ok := strings.CutPrefix(arg, "--config="); ok {
			dir = v
		}
	}
	return dir
}

func main() {
	logger := logging.NewLogger()

	cfg, err := config.Load(configDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

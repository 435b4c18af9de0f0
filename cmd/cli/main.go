package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/cli"
	"github.com/dmitrijs2005/passvault/internal/config"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// configFlags are consumed by the config package and must not reach the
// subcommand dispatcher.
var configFlags = map[string]struct{}{
	"-d": {}, "-b": {}, "-r": {}, "-c": {}, "-config": {},
}

// commandArgs strips the global configuration flags (and their values)
// from the argument list, leaving the subcommand and its own flags.
func commandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := configFlags[name]; ok {
				continue
			}
		}
		if _, ok := configFlags[arg]; ok {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app, err := cli.NewApp(ctx, cfg, version, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		app.Close()
		log.Fatalf("%v", err)
	}
}

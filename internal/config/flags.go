package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the vault database file
//	-b string   directory backup files are written to
//	-r int      size of the recently-edited view
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the vault database file")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "directory backup files are written to")
	fs.IntVar(&cfg.RecentlyEdited, "r", cfg.RecentlyEdited, "size of the recently-edited view")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

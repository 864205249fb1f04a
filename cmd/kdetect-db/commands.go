package main

import (
	"fmt"

	"github.com/birdayz/kdetect/kdb"
	"github.com/birdayz/kdetect/kdb/pebble"
	"github.com/birdayz/kdetect/pkg/log"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type app struct {
	verbosity int
	log       logr.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{log: logr.Discard()}
	root := &cobra.Command{
		Use:          "kdetect-db",
		Short:        "Inspect and maintain detector database files",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.log = log.New(a.verbosity)
		},
	}
	root.PersistentFlags().IntVarP(&a.verbosity, "verbosity", "v", 0, "log verbosity")

	root.AddCommand(
		a.pathCommand(),
		a.infoCommand(),
		a.verifyCommand(),
		a.convertCommand(),
		a.freezeCommand(true),
		a.freezeCommand(false),
		a.exportCommand(),
		a.importCommand(),
	)
	return root
}

func (a *app) pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default database location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := kdb.DefaultDatabasePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>...",
		Short: "Print a summary of database files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs error
			for _, path := range args {
				db, err := kdb.ReadFile(path)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				d, err := db.ToDict()
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				format, _ := kdb.FormatFromPath(path)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n  format:     %s\n  version:    %s\n  frozen:     %t\n  situations: %d\n  detectors:  %d\n  plaquettes: %d\n",
					path, format, db.Version(), db.Frozen(), db.Len(), db.NumDetectors(), len(d.UniqPlaquettes))
			}
			return errs
		},
	}
}

func (a *app) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Check that database files can be loaded, without moving corrupt ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs error
			for _, path := range args {
				if _, err := kdb.ReadFile(path); err != nil {
					a.log.Error(err, "Verification failed", "path", path)
					errs = multierr.Append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			return errs
		},
	}
}

func (a *app) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a database, the output format being chosen by extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := kdb.FormatFromPath(args[1]); err != nil {
				return err
			}
			db, err := kdb.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := db.ToFile(args[1]); err != nil {
				return err
			}
			a.log.Info("Converted database", "from", args[0], "to", args[1], "situations", db.Len())
			return nil
		},
	}
}

func (a *app) freezeCommand(freeze bool) *cobra.Command {
	use, short := "freeze <file>...", "Forbid further additions to database files"
	if !freeze {
		use, short = "unfreeze <file>...", "Allow additions to database files again"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var errs error
			for _, path := range args {
				db, err := kdb.ReadFile(path)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				if freeze {
					db.Freeze()
				} else {
					db.Unfreeze()
				}
				if err := db.ToFile(path); err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				a.log.V(1).Info("Updated database", "path", path, "frozen", freeze)
			}
			return errs
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file> <pebble-dir>",
		Short: "Mirror a database file into a pebble store",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			db, err := kdb.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := pebble.Export(db, args[1]); err != nil {
				return err
			}
			a.log.Info("Exported database", "path", args[0], "store", args[1], "situations", db.Len())
			return nil
		},
	}
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <pebble-dir> <file>",
		Short: "Write the content of a pebble store to a database file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := kdb.FormatFromPath(args[1]); err != nil {
				return err
			}
			db, err := pebble.Import(args[0])
			if err != nil {
				return err
			}
			if err := db.ToFile(args[1]); err != nil {
				return err
			}
			a.log.Info("Imported database", "store", args[0], "path", args[1], "situations", db.Len())
			return nil
		},
	}
}

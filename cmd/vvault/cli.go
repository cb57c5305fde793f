package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(runner *ops.Runner) *cli.App {
	app := &cli.App{
		Name:    "vvault",
		Usage:   "Entity capsule sync and injection",
		Version: Version,
		Commands: []*cli.Command{
			syncCmd(runner),
			dedupeCmd(runner),
			injectCmd(runner),
			manifestCmd(runner),
			fetchCmd(runner),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// syncCmd creates the sync command.
func syncCmd(runner *ops.Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync transcript records into entity capsules (all entities unless --entity is given)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "Sync a single entity"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Compute the merge without writing anything"},
		},
		Action: func(c *cli.Context) error {
			if entity := c.String("entity"); entity != "" {
				output, err := runner.Sync(c.Context, ops.SyncInput{
					EntityID: entity,
					DryRun:   c.Bool("dry-run"),
				})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			output, err := runner.SyncAll(c.Context, c.Bool("dry-run"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// dedupeCmd creates the dedupe command.
func dedupeCmd(runner *ops.Runner) *cli.Command {
	return &cli.Command{
		Name:      "dedupe",
		Usage:     "Remove duplicate records for an entity, one copy per canonical path",
		ArgsUsage: "[entity]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "Entity id"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Report the removal plan without deleting anything"},
		},
		Action: func(c *cli.Context) error {
			output, err := runner.Dedupe(c.Context, ops.DedupeInput{
				EntityID: entityArg(c),
				DryRun:   c.Bool("dry-run"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// injectCmd creates the inject command.
func injectCmd(runner *ops.Runner) *cli.Command {
	return &cli.Command{
		Name:      "inject",
		Usage:     "Project an entity's capsule into a validated injection payload",
		ArgsUsage: "[entity]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "Entity id"},
			&cli.IntFlag{Name: "max-sessions", Usage: "Override the configured session window"},
		},
		Action: func(c *cli.Context) error {
			entity := entityArg(c)
			output, err := runner.Inject(c.Context, ops.InjectInput{
				EntityID:    entity,
				MaxSessions: c.Int("max-sessions"),
			})
			if err != nil {
				return outputError(err)
			}
			if !output.Validation.Valid {
				// Print the validation result, then fail the command so
				// scripts don't mistake a rejected payload for output.
				_ = outputJSON(output)
				return outputError(errors.NewValidationFailed(entity, output.Validation.Errors))
			}
			return outputJSON(output)
		},
	}
}

// manifestCmd creates the manifest command.
func manifestCmd(runner *ops.Runner) *cli.Command {
	return &cli.Command{
		Name:      "manifest",
		Usage:     "Classify an entity's records and print the index",
		ArgsUsage: "[entity]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "Entity id"},
		},
		Action: func(c *cli.Context) error {
			output, err := runner.Manifest(c.Context, ops.ManifestInput{
				EntityID: entityArg(c),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(runner *ops.Runner) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Print the stored capsule for an entity",
		ArgsUsage: "[entity]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entity", Aliases: []string{"e"}, Usage: "Entity id"},
		},
		Action: func(c *cli.Context) error {
			output, err := runner.Fetch(c.Context, ops.FetchInput{
				EntityID: entityArg(c),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// entityArg resolves the entity id from the positional argument or the
// --entity flag.
func entityArg(c *cli.Context) string {
	if c.NArg() > 0 {
		return c.Args().First()
	}
	return c.String("entity")
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vErr, ok := err.(*errors.VaultError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vErr.Code, vErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

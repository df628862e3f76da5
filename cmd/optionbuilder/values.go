package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	cli "github.com/urfave/cli/v3"

	opts "github.com/goliatone/go-optionbuilder"
	"github.com/goliatone/go-optionbuilder/schema"
)

func valuesCommand() *cli.Command {
	return &cli.Command{
		Name:  "values",
		Usage: "Reads and patches stored option values",
		Commands: []*cli.Command{
			{
				Name:         "get",
				Usage:        "Prints stored values (defaults filled), optionally one gjson PATH",
				ArgsUsage:    "[PATH]",
				OnUsageError: usageErrorHandler,
				Action:       runValuesGet,
			},
			{
				Name:         "set",
				Usage:        "Sets PATH to VALUE and saves the whole group through validation",
				ArgsUsage:    "PATH VALUE",
				OnUsageError: usageErrorHandler,
				Action:       runValuesSet,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "treat VALUE as raw JSON"},
				},
			},
		},
	}
}

func runValuesGet(ctx context.Context, cmd *cli.Command) error {
	m, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	values, err := m.Load(ctx)
	if err != nil {
		return err
	}
	path := cmd.Args().Get(0)
	if path == "" {
		return writeJSON(cmd.Root().Writer, values)
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	result := gjson.GetBytes(raw, path)
	if !result.Exists() {
		return fmt.Errorf("no value at %q", path)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, result.Raw)
	return err
}

// patchValues applies one sjson edit to values.
func patchValues(values schema.ValueSet, path, value string, raw bool) (schema.ValueSet, error) {
	doc, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	if raw {
		doc, err = sjson.SetRawBytes(doc, path, []byte(value))
	} else {
		doc, err = sjson.SetBytes(doc, path, value)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to set %q: %w", path, err)
	}
	out := schema.ValueSet{}
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func runValuesSet(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected PATH and VALUE")
	}
	m, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	values, err := m.Load(ctx)
	if err != nil {
		return err
	}
	patched, err := patchValues(values, cmd.Args().Get(0), cmd.Args().Get(1), cmd.Bool("raw"))
	if err != nil {
		return err
	}
	result, err := m.Save(ctx, opts.Submission{Values: patched})
	if err != nil {
		return err
	}
	return writeJSON(cmd.Root().Writer, saveOutput(EnvFromContext(ctx), result))
}

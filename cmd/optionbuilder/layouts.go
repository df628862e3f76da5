package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/goliatone/go-optionbuilder/layouts"
)

func layoutsCommand() *cli.Command {
	return &cli.Command{
		Name:  "layouts",
		Usage: "Manages named snapshots of the option group",
		Commands: []*cli.Command{
			{
				Name:         "list",
				Usage:        "Lists layouts, the active one marked with *",
				OnUsageError: usageErrorHandler,
				Action:       runLayoutsList,
			},
			{
				Name:         "create",
				Usage:        "Snapshots the stored values under NAME and activates it",
				ArgsUsage:    "NAME",
				OnUsageError: usageErrorHandler,
				Action:       runLayoutsCreate,
			},
			{
				Name:         "activate",
				Usage:        "Replaces the stored values with the snapshot of ID",
				ArgsUsage:    "ID",
				OnUsageError: usageErrorHandler,
				Action:       runLayoutsActivate,
			},
			{
				Name:         "delete",
				Usage:        "Deletes the layout ID",
				ArgsUsage:    "ID",
				OnUsageError: usageErrorHandler,
				Action:       runLayoutsDelete,
			},
		},
	}
}

func openLayouts(ctx context.Context, cmd *cli.Command) (*layouts.Manager, error) {
	m, err := openManager(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return m.Layouts(), nil
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	arg := cmd.Args().Get(0)
	if arg == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return arg, nil
}

func runLayoutsList(ctx context.Context, cmd *cli.Command) error {
	lm, err := openLayouts(ctx, cmd)
	if err != nil {
		return err
	}
	doc, _, err := lm.Document(ctx)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, id := range doc.Sorted() {
		marker := " "
		if id == doc.Active() {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, id)
	}
	return nil
}

func runLayoutsCreate(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "NAME")
	if err != nil {
		return err
	}
	lm, err := openLayouts(ctx, cmd)
	if err != nil {
		return err
	}
	id, err := lm.CreateLayout(ctx, name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, id)
	return err
}

func runLayoutsActivate(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "ID")
	if err != nil {
		return err
	}
	lm, err := openLayouts(ctx, cmd)
	if err != nil {
		return err
	}
	values, err := lm.Activate(ctx, id)
	if err != nil {
		return err
	}
	return writeJSON(cmd.Root().Writer, values)
}

func runLayoutsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "ID")
	if err != nil {
		return err
	}
	lm, err := openLayouts(ctx, cmd)
	if err != nil {
		return err
	}
	result, err := lm.DeleteLayout(ctx, id)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	switch {
	case result.Collapsed:
		fmt.Fprintln(w, "layouts removed")
	case result.Promoted != "":
		fmt.Fprintf(w, "active layout is now %s\n", result.Promoted)
	}
	return nil
}

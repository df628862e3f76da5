package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	opts "github.com/goliatone/go-optionbuilder"
	"github.com/goliatone/go-optionbuilder/schema"
	"github.com/goliatone/go-optionbuilder/schema/openapi"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Checks option group declarations",
		Commands: []*cli.Command{
			{
				Name:         "lint",
				Usage:        "Lints declarations structurally and semantically",
				ArgsUsage:    "FILE [FILE...]",
				OnUsageError: usageErrorHandler,
				Action:       runSchemaLint,
			},
			{
				Name:         "sanitize",
				Usage:        "Sanitizes a user-edited declaration document and prints it as JSON",
				ArgsUsage:    "FILE",
				OnUsageError: usageErrorHandler,
				Action:       runSchemaSanitize,
			},
			{
				Name:         "openapi",
				Usage:        "Prints the OpenAPI document describing a save of the option group",
				OnUsageError: usageErrorHandler,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "request `PATH` of the save operation (default /options/<group>)"},
					&cli.StringFlag{Name: "title", Usage: "document `TITLE` (default the group id)"},
					&cli.StringFlag{Name: "root-component", Usage: "publish the request body under components as `NAME`"},
				},
				Action: runSchemaOpenAPI,
			},
		},
	}
}

func runSchemaLint(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)
	files := cmd.Args().Slice()
	if len(files) == 0 && cmd.String("schema") != "" {
		files = []string{cmd.String("schema")}
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing to lint")
	}

	w := cmd.Root().Writer
	total := 0
	for _, file := range files {
		issues, err := schema.LintFile(file)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			fmt.Fprintf(w, "%s: %s\n", file, issue)
		}
		_, problems, err := schema.LoadFile(file)
		if err != nil {
			return err
		}
		for _, problem := range problems {
			fmt.Fprintf(w, "%s: %s: %s\n", file, problem.Path, problem.Reason)
		}
		total += len(issues) + len(problems)
		env.Log.Debug("Linted declaration", zap.String("file", file), zap.Int("issues", len(issues)+len(problems)))
	}
	if total > 0 {
		return fmt.Errorf("%d problem(s) found", total)
	}
	return nil
}

func runSchemaSanitize(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)
	file := cmd.Args().Get(0)
	if file == "" {
		return fmt.Errorf("declaration file is required")
	}
	format, err := schema.FormatFromPath(file)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read declaration: %w", err)
	}
	doc, err := schema.DecodeDocument(data, format)
	if err != nil {
		return err
	}
	v := opts.NewValidator(opts.WithLogger(env.Log), opts.WithTrust(opts.ParseTrust(env.Cfg.Trust)))
	return writeJSON(cmd.Root().Writer, v.ValidateSchemaDocument(doc))
}

func runSchemaOpenAPI(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)
	g, err := env.loadGroup(cmd.String("schema"))
	if err != nil {
		return err
	}
	doc, err := openapi.Generate(g,
		openapi.WithInfo(cmd.String("title"), cmd.Root().Version),
		openapi.WithOperation(cmd.String("path"), "", ""),
		openapi.WithRootComponent(cmd.String("root-component")),
	)
	if err != nil {
		return err
	}
	return writeJSON(cmd.Root().Writer, doc)
}

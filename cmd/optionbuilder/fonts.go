package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func fontsCommand() *cli.Command {
	return &cli.Command{
		Name:  "fonts",
		Usage: "Maintains the Google Fonts catalogue",
		Commands: []*cli.Command{
			{
				Name:         "refresh",
				Usage:        "Fetches the catalogue and replaces the cache",
				OnUsageError: usageErrorHandler,
				Action:       runFontsRefresh,
			},
			{
				Name:         "list",
				Usage:        "Lists cached font families, fetching when the cache expired",
				OnUsageError: usageErrorHandler,
				Action:       runFontsList,
			},
			{
				Name:         "url",
				Usage:        "Prints the stylesheet URL for the selected families",
				OnUsageError: usageErrorHandler,
				Action:       runFontsURL,
			},
		},
	}
}

func runFontsRefresh(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)
	svc, err := env.fonts()
	if err != nil {
		return err
	}
	catalog, err := svc.Refresh(ctx)
	if err != nil {
		return err
	}
	env.Log.Info("Font catalogue refreshed", zap.Int("fonts", len(catalog)))
	_, err = fmt.Fprintf(cmd.Root().Writer, "%d fonts\n", len(catalog))
	return err
}

func runFontsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := EnvFromContext(ctx).fonts()
	if err != nil {
		return err
	}
	catalog, err := svc.Catalog(ctx)
	if err != nil {
		return err
	}
	for _, family := range catalog.Families() {
		fmt.Fprintln(cmd.Root().Writer, family)
	}
	return nil
}

func runFontsURL(ctx context.Context, cmd *cli.Command) error {
	svc, err := EnvFromContext(ctx).fonts()
	if err != nil {
		return err
	}
	url, err := svc.StylesheetURL(ctx)
	if err != nil {
		return err
	}
	if url != "" {
		_, err = fmt.Fprintln(cmd.Root().Writer, url)
	}
	return err
}

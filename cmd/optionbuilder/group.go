package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	opts "github.com/goliatone/go-optionbuilder"
	"github.com/goliatone/go-optionbuilder/schema"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// openManager loads the declaration named by --schema and wires a manager
// over the configured stores.
func openManager(ctx context.Context, cmd *cli.Command) (*opts.Manager, error) {
	env := EnvFromContext(ctx)
	g, err := env.loadGroup(cmd.String("schema"))
	if err != nil {
		return nil, err
	}
	return env.manager(g, cmd.String("rule-engine"), cmd.String("actor"))
}

// readSubmission reads SOURCE. JSON files hold {"values": {...}, "shapes":
// {...}}; anything else is an url-encoded form body.
func readSubmission(path, group string) (opts.Submission, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return opts.Submission{}, fmt.Errorf("unable to read submission: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var sub opts.Submission
		if err := json.Unmarshal(data, &sub); err != nil {
			return opts.Submission{}, fmt.Errorf("unable to decode submission: %w", err)
		}
		if sub.Values == nil {
			sub.Values = schema.ValueSet{}
		}
		return sub, nil
	}
	form, err := url.ParseQuery(strings.TrimSpace(string(data)))
	if err != nil {
		return opts.Submission{}, fmt.Errorf("unable to parse form submission: %w", err)
	}
	return opts.SubmissionFromForm(group, form)
}

type validateOutput struct {
	Values        schema.ValueSet  `json:"values"`
	Diagnostics   opts.Diagnostics `json:"diagnostics,omitempty"`
	Changed       []string         `json:"changed,omitempty"`
	Stylesheets   []string         `json:"stylesheets,omitempty"`
	CSSError      string           `json:"css_error,omitempty"`
	LayoutUpdated bool             `json:"layout_updated,omitempty"`
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)
	m, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	sub, err := readSubmission(cmd.Args().Get(0), m.Group().ID)
	if err != nil {
		return err
	}

	if !cmd.Bool("save") {
		previous, err := m.Load(ctx)
		if err != nil {
			return err
		}
		values, diags := m.Validator().ValidateValueSet(m.Group(), sub, previous)
		return writeJSON(cmd.Root().Writer, validateOutput{Values: values, Diagnostics: diags})
	}

	result, err := m.Save(ctx, sub)
	if err != nil {
		return err
	}
	return writeJSON(cmd.Root().Writer, saveOutput(env, result))
}

func saveOutput(env *LocalEnv, result opts.SaveResult) validateOutput {
	out := validateOutput{
		Values:        result.Values,
		Diagnostics:   result.Diagnostics,
		Changed:       result.Changed,
		Stylesheets:   result.Stylesheets,
		LayoutUpdated: result.LayoutUpdated,
	}
	if result.CSS != nil {
		env.Log.Warn("Stylesheet update failed", zap.Error(result.CSS))
		out.CSSError = result.CSS.Error()
	}
	return out
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	m, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	pageID := cmd.Args().Get(0)
	if pageID == "" {
		if pages := m.Group().Pages; len(pages) > 0 {
			pageID = pages[0].ID
		}
	}
	fragment, err := m.RenderPage(ctx, pageID)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return writeJSON(cmd.Root().Writer, fragment)
	}
	_, err = io.WriteString(cmd.Root().Writer, string(fragment.Markup)+"\n")
	return err
}

func runCSS(ctx context.Context, cmd *cli.Command) error {
	env := EnvFromContext(ctx)
	m, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	written, err := m.WriteStylesheets(ctx)
	for _, id := range written {
		fmt.Fprintln(cmd.Root().Writer, id)
	}
	if err != nil {
		return fmt.Errorf("stylesheet update failed: %w", err)
	}
	env.Log.Info("Stylesheets regenerated", zap.Int("blocks", len(written)))
	return nil
}

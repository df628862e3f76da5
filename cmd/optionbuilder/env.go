package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	opts "github.com/goliatone/go-optionbuilder"
	"github.com/goliatone/go-optionbuilder/condition"
	"github.com/goliatone/go-optionbuilder/googlefonts"
	"github.com/goliatone/go-optionbuilder/internal/config"
	"github.com/goliatone/go-optionbuilder/layouts"
	"github.com/goliatone/go-optionbuilder/pkg/activity"
	"github.com/goliatone/go-optionbuilder/pkg/state"
	"github.com/goliatone/go-optionbuilder/schema"
	"github.com/goliatone/go-optionbuilder/stylesheet"
)

type envKey struct{}

// LocalEnv keeps everything the program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	sqlite *state.SQLiteStore
	start  time.Time
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{Log: zap.NewNop(), start: time.Now()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Close releases the sqlite connection, if one was opened.
func (e *LocalEnv) Close() error {
	var err error
	if e.sqlite != nil {
		err = multierr.Append(err, e.sqlite.Close())
		e.sqlite = nil
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	return err
}

func storeFor[T any](e *LocalEnv) (state.Store[T], error) {
	if e.Cfg == nil || e.Cfg.Store.Driver != "sqlite" {
		return state.NewMemoryStore[T](), nil
	}
	if e.sqlite == nil {
		db, err := state.OpenSQLiteStore(e.Cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		e.sqlite = db
	}
	return state.JSON[T](e.sqlite), nil
}

// loadGroup reads the declaration at path. A declaration without an id is
// stored under the configured option group.
func (e *LocalEnv) loadGroup(path string) (schema.Group, error) {
	if path == "" {
		return schema.Group{}, fmt.Errorf("schema declaration is required (--schema)")
	}
	g, problems, err := schema.LoadFile(path)
	if err != nil {
		return schema.Group{}, err
	}
	for _, problem := range problems {
		e.Log.Warn("Schema problem", zap.String("path", problem.Path), zap.String("reason", problem.Reason))
	}
	if g.ID == "" {
		g.ID = e.Cfg.OptionGroup
	}
	return g, nil
}

func (e *LocalEnv) fonts() (*googlefonts.Service, error) {
	catalog, err := storeFor[googlefonts.Catalog](e)
	if err != nil {
		return nil, err
	}
	selections, err := storeFor[googlefonts.Selections](e)
	if err != nil {
		return nil, err
	}
	client := googlefonts.NewClient(
		googlefonts.WithAPIURL(e.Cfg.Fonts.APIURL),
		googlefonts.WithAPIKey(string(e.Cfg.Fonts.APIKey)),
		googlefonts.WithClientLogger(e.Log),
	)
	return googlefonts.NewService(catalog, selections,
		googlefonts.WithClient(client),
		googlefonts.WithTTL(e.Cfg.Fonts.TTL),
		googlefonts.WithLogger(e.Log),
	)
}

// managerOptions turns configuration and global flags into library options.
func (e *LocalEnv) managerOptions(engine, actor string) ([]opts.Option, error) {
	seed := condition.SeedFirstResult
	if e.Cfg.Condition.OrSeed == "identity" {
		seed = condition.SeedIdentity
	}
	out := []opts.Option{
		opts.WithLogger(e.Log),
		opts.WithTrust(opts.ParseTrust(e.Cfg.Trust)),
		opts.WithSeedPolicy(seed),
		opts.WithStylesheet(e.Cfg.Stylesheet.Path),
		opts.WithStylesheetLint(e.Cfg.Stylesheet.Lint),
		opts.WithActor(actor),
		opts.WithActivityHooks(activity.Hooks{activity.HookFunc(e.logActivity)}),
	}
	if engine != "" {
		evaluator, err := opts.ConditionEvaluator(engine, opts.NewMapProgramCache())
		if err != nil {
			return nil, err
		}
		out = append(out, opts.WithEvaluator(evaluator))
	}
	return out, nil
}

func (e *LocalEnv) manager(g schema.Group, engine, actor string) (*opts.Manager, error) {
	values, err := storeFor[schema.ValueSet](e)
	if err != nil {
		return nil, err
	}
	paths, err := storeFor[stylesheet.Paths](e)
	if err != nil {
		return nil, err
	}
	docs, err := storeFor[layouts.Document](e)
	if err != nil {
		return nil, err
	}
	fonts, err := e.fonts()
	if err != nil {
		return nil, err
	}
	options, err := e.managerOptions(engine, actor)
	if err != nil {
		return nil, err
	}
	options = append(options, opts.WithFontTracker(fonts))
	return opts.NewManager(g, opts.Stores{Values: values, Paths: paths, Layouts: docs}, options...)
}

func (e *LocalEnv) logActivity(_ context.Context, event activity.Event) error {
	e.Log.Info("Activity",
		zap.String("verb", event.Verb),
		zap.String("object", event.ObjectType+":"+event.ObjectID),
		zap.String("actor", event.ActorID),
	)
	return nil
}

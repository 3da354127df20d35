package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/specsheet-cli/internal/engine"
	"github.com/sells-group/specsheet-cli/internal/model"
	"github.com/sells-group/specsheet-cli/internal/store"
	"github.com/sells-group/specsheet-cli/internal/textsource"
)

// initStore opens the crowd-alias store per config.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// loadCrowdAliases fetches the crowd-alias snapshot. A fetch failure
// degrades to no aliases: the parse proceeds without them.
func loadCrowdAliases(ctx context.Context, category string) []model.CrowdAlias {
	if !cfg.Parse.UseCrowdAlias {
		return nil
	}
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("crowd alias store unavailable, parsing without", zap.Error(err))
		return nil
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("crowd alias migrate failed, parsing without", zap.Error(err))
		return nil
	}
	aliases, err := st.ListAliases(ctx, category)
	if err != nil {
		zap.L().Warn("crowd alias fetch failed, parsing without", zap.Error(err))
		return nil
	}
	return aliases
}

// loadSchema resolves the schema from flag, config, or the built-in set.
func loadSchema(path string) (model.FieldSchema, error) {
	if path == "" {
		path = cfg.Parse.SchemaPath
	}
	if path == "" {
		return model.DefaultSchema(), nil
	}
	schema, err := model.LoadSchema(path)
	if err != nil {
		return model.FieldSchema{}, err
	}
	return *schema, nil
}

// newSourceChain builds the text acquisition chain from config.
func newSourceChain() *textsource.Chain {
	return textsource.NewChain(
		textsource.NewHTTPSource(textsource.HTTPOptions{
			UserAgent:     cfg.Fetch.UserAgent,
			Timeout:       time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			RatePerSecond: cfg.Fetch.RatePerSecond,
			MaxBodyBytes:  cfg.Fetch.MaxBodyBytes,
			MaxRetries:    cfg.Fetch.MaxRetries,
		}),
		textsource.NewPDFSource(cfg.Fetch.PdfToTextPath),
		textsource.NewXLSXSource(),
		textsource.NewFileSource(),
	)
}

// mergeAliasDict loads an extra alias dictionary when configured.
func mergeAliasDict(path string) error {
	if path == "" {
		path = cfg.Parse.AliasDictPath
	}
	if path == "" {
		return nil
	}
	return engine.LoadAliasDictionary(path)
}

package googlefonts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/pkg/state"
	"github.com/goliatone/go-optionbuilder/schema"
)

const (
	// CatalogKey stores the cached catalogue.
	CatalogKey = "opb_google_fonts"
	// SelectionsKey stores the families selected per setting id.
	SelectionsKey = "opb_set_google_fonts"
	// DefaultTTL is how long a fetched catalogue stays fresh.
	DefaultTTL = 7 * 24 * time.Hour
)

const stylesheetBase = "//fonts.googleapis.com/css?family="

// Service caches the catalogue and tracks selections.
type Service struct {
	client     *Client
	catalog    state.Store[Catalog]
	selections state.Store[Selections]
	site       string
	ttl        time.Duration
	now        func() time.Time
	log        *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClient sets the catalogue client. Without one the service serves the
// cache only.
func WithClient(c *Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSite partitions both keys per site.
func WithSite(site string) Option {
	return func(s *Service) {
		s.site = site
	}
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a service over the catalogue and selection stores.
func NewService(catalog state.Store[Catalog], selections state.Store[Selections], opts ...Option) (*Service, error) {
	if catalog == nil || selections == nil {
		return nil, fmt.Errorf("googlefonts: catalogue and selection stores are required")
	}
	s := &Service{
		catalog:    catalog,
		selections: selections,
		ttl:        DefaultTTL,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.log = s.log.Named("googlefonts")
	if _, err := s.ref(CatalogKey).Identifier(); err != nil {
		return nil, fmt.Errorf("googlefonts: %w", err)
	}
	return s, nil
}

func (s *Service) ref(key string) state.Ref {
	return state.Ref{Key: key, Site: s.site}
}

// Catalog returns the cached catalogue, refetching it once the TTL expired.
// A failed refetch falls back to the stale cache. Without an API key and
// without a cache the catalogue is empty.
func (s *Service) Catalog(ctx context.Context) (Catalog, error) {
	cached, meta, ok, err := s.catalog.Load(ctx, s.ref(CatalogKey))
	if err != nil {
		return nil, fmt.Errorf("googlefonts: load catalogue: %w", err)
	}
	if ok && len(cached) > 0 && s.now().Sub(meta.UpdatedAt) < s.ttl {
		return cached, nil
	}

	fresh, err := s.Refresh(ctx)
	switch {
	case err == nil:
		return fresh, nil
	case len(cached) > 0:
		s.log.Warn("serving stale catalogue", zap.Error(err))
		return cached, nil
	case errors.Is(err, ErrMissingAPIKey):
		s.log.Debug("no api key, catalogue is empty")
		return Catalog{}, nil
	default:
		return nil, err
	}
}

// Refresh fetches the catalogue and replaces the cache.
func (s *Service) Refresh(ctx context.Context) (Catalog, error) {
	if s.client == nil {
		return nil, ErrMissingAPIKey
	}
	catalog, err := s.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := state.Set(ctx, s.catalog, s.ref(CatalogKey), catalog); err != nil {
		return nil, fmt.Errorf("googlefonts: cache catalogue: %w", err)
	}
	s.log.Info("catalogue refreshed", zap.Int("fonts", len(catalog)))
	return catalog, nil
}

// Selected returns the tracked selections.
func (s *Service) Selected(ctx context.Context) (Selections, error) {
	out, err := state.Get(ctx, s.selections, s.ref(SelectionsKey), Selections{})
	if err != nil {
		return nil, fmt.Errorf("googlefonts: load selections: %w", err)
	}
	return out, nil
}

// Track records rows for optionID. No rows removes the entry.
func (s *Service) Track(ctx context.Context, optionID string, rows []Selection) error {
	current, err := s.Selected(ctx)
	if err != nil {
		return err
	}
	next := current.clone()
	if len(rows) > 0 {
		next[optionID] = append([]Selection(nil), rows...)
	} else if _, ok := next[optionID]; ok {
		delete(next, optionID)
	} else {
		return nil
	}
	return s.save(ctx, next)
}

// PruneUnused drops selections whose setting id is absent from values.
func (s *Service) PruneUnused(ctx context.Context, values schema.ValueSet) error {
	current, err := s.Selected(ctx)
	if err != nil {
		return err
	}
	next := current.clone()
	for id := range current {
		if _, ok := values[id]; !ok {
			delete(next, id)
		}
	}
	if len(next) == len(current) {
		return nil
	}
	s.log.Debug("pruned unused selections", zap.Int("removed", len(current)-len(next)))
	return s.save(ctx, next)
}

func (s *Service) save(ctx context.Context, next Selections) error {
	if _, err := state.Set(ctx, s.selections, s.ref(SelectionsKey), next); err != nil {
		return fmt.Errorf("googlefonts: save selections: %w", err)
	}
	return nil
}

// FontStack adds every selected family found in the catalogue to families,
// keyed by the selected value. Multi-word families are quoted.
func (s *Service) FontStack(ctx context.Context, families map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(families))
	for key, stack := range families {
		out[key] = stack
	}
	selected, err := s.Selected(ctx)
	if err != nil || len(selected) == 0 {
		return out, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return out, err
	}
	for _, id := range selected.ids() {
		for _, row := range selected[id] {
			font, ok := catalog.Lookup(row.Family)
			if !ok {
				continue
			}
			stack := font.Family
			if strings.Contains(stack, " ") {
				stack = `"` + stack + `"`
			}
			out[row.Family] = stack
		}
	}
	return out, nil
}

// StylesheetURL builds the protocol-relative stylesheet URL for the tracked
// selections. Rows without variants or unknown to the catalogue are skipped.
// The subset parameter is omitted when the only subset is latin. An empty
// string means nothing to load.
func (s *Service) StylesheetURL(ctx context.Context) (string, error) {
	selected, err := s.Selected(ctx)
	if err != nil || len(selected) == 0 {
		return "", err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return "", err
	}

	var families, subsets []string
	seenFamily := map[string]bool{}
	seenSubset := map[string]bool{}
	for _, id := range selected.ids() {
		for _, row := range selected[id] {
			font, ok := catalog.Lookup(row.Family)
			if !ok || len(row.Variants) == 0 {
				continue
			}
			entry := strings.ReplaceAll(font.Family, " ", "+") + ":" + strings.Join(row.Variants, ",")
			if !seenFamily[entry] {
				seenFamily[entry] = true
				families = append(families, entry)
			}
			for _, subset := range row.Subsets {
				if !seenSubset[subset] {
					seenSubset[subset] = true
					subsets = append(subsets, subset)
				}
			}
		}
	}
	if len(families) == 0 {
		return "", nil
	}
	out := stylesheetBase + strings.Join(families, "%7C")
	if joined := strings.Join(subsets, ","); joined != "" && joined != "latin" {
		out += "&subset=" + joined
	}
	return out, nil
}

func (sel Selections) clone() Selections {
	out := make(Selections, len(sel))
	for id, rows := range sel {
		out[id] = append([]Selection(nil), rows...)
	}
	return out
}

func (sel Selections) ids() []string {
	out := make([]string, 0, len(sel))
	for id := range sel {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

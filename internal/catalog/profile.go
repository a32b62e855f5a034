// Package catalog loads per-product configurator profiles.
//
// A profile describes what differs between product pages: the image shown
// when the product's own image is missing, how stock combinations are
// matched, and the bounds for custom-size pricing. Products without an entry
// use the defaults block.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/dukerupert/presswork/internal/domain"
)

type rawSize struct {
	MinWidth  string `mapstructure:"min_width"`
	MaxWidth  string `mapstructure:"max_width"`
	MinHeight string `mapstructure:"min_height"`
	MaxHeight string `mapstructure:"max_height"`
	Step      string `mapstructure:"step"`
	StepPrice string `mapstructure:"step_price"`
}

type rawProfile struct {
	ImageFallback string   `mapstructure:"image_fallback"`
	StockMatch    string   `mapstructure:"stock_match"`
	Size          *rawSize `mapstructure:"size"`
}

type rawFile struct {
	Defaults rawProfile            `mapstructure:"defaults"`
	Products map[string]rawProfile `mapstructure:"products"`
}

// Profiles is safe for concurrent use; Watch swaps the contents in place.
type Profiles struct {
	mu       sync.RWMutex
	defaults domain.ProductProfile
	bySlug   map[string]domain.ProductProfile
	v        *viper.Viper
}

var _ domain.ProfileSource = (*Profiles)(nil)

// NewProfiles builds a profile set from already-parsed values. Used by tests
// and by callers that do not keep profiles on disk.
func NewProfiles(defaults domain.ProductProfile, bySlug map[string]domain.ProductProfile) *Profiles {
	if defaults.StockMatch == "" {
		defaults.StockMatch = domain.StockMatchExact
	}
	if bySlug == nil {
		bySlug = map[string]domain.ProductProfile{}
	}
	return &Profiles{defaults: defaults, bySlug: bySlug}
}

// LoadProfiles reads the profile file at path. A missing file is not an
// error; every product then gets exact matching and no size pricing.
func LoadProfiles(path, fallbackAsset string) (*Profiles, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("defaults.image_fallback", fallbackAsset)
	v.SetDefault("defaults.stock_match", domain.StockMatchExact)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			p := NewProfiles(domain.ProductProfile{ImageFallback: fallbackAsset}, nil)
			return p, nil
		}
		return nil, fmt.Errorf("failed to read product profiles: %w", err)
	}

	p := &Profiles{v: v}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Watch re-reads the file whenever it changes. A bad edit is logged and the
// previous profiles stay active.
func (p *Profiles) Watch(logger *slog.Logger) {
	if p.v == nil {
		return
	}
	p.v.OnConfigChange(func(e fsnotify.Event) {
		if err := p.reload(); err != nil {
			logger.Error("product profile reload failed", "file", e.Name, "error", err)
			return
		}
		logger.Info("product profiles reloaded", "file", e.Name)
	})
	p.v.WatchConfig()
}

func (p *Profiles) reload() error {
	var raw rawFile
	if err := p.v.Unmarshal(&raw); err != nil {
		return fmt.Errorf("failed to decode product profiles: %w", err)
	}

	defaults, err := raw.Defaults.toDomain(domain.ProductProfile{StockMatch: domain.StockMatchExact})
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	bySlug := make(map[string]domain.ProductProfile, len(raw.Products))
	for slug, rp := range raw.Products {
		prof, err := rp.toDomain(defaults)
		if err != nil {
			return fmt.Errorf("product %q: %w", slug, err)
		}
		bySlug[strings.ToLower(slug)] = prof
	}

	p.mu.Lock()
	p.defaults = defaults
	p.bySlug = bySlug
	p.mu.Unlock()
	return nil
}

// Profile returns the profile for slug, or the defaults.
func (p *Profiles) Profile(slug string) domain.ProductProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if prof, ok := p.bySlug[strings.ToLower(slug)]; ok {
		return prof
	}
	return p.defaults
}

func (r rawProfile) toDomain(base domain.ProductProfile) (domain.ProductProfile, error) {
	out := base
	if r.ImageFallback != "" {
		out.ImageFallback = r.ImageFallback
	}
	switch r.StockMatch {
	case "":
	case domain.StockMatchExact, domain.StockMatchSubset:
		out.StockMatch = r.StockMatch
	default:
		return out, fmt.Errorf("unknown stock_match %q", r.StockMatch)
	}
	if r.Size != nil {
		size, err := r.Size.toDomain()
		if err != nil {
			return out, err
		}
		out.Size = size
	}
	return out, nil
}

type sizeField struct {
	name string
	raw  string
	dst  *decimal.Decimal
}

func (r rawSize) toDomain() (*domain.SizePricing, error) {
	var s domain.SizePricing
	fields := []sizeField{
		{"min_width", r.MinWidth, &s.MinWidth},
		{"max_width", r.MaxWidth, &s.MaxWidth},
		{"min_height", r.MinHeight, &s.MinHeight},
		{"max_height", r.MaxHeight, &s.MaxHeight},
		{"step", r.Step, &s.Step},
		{"step_price", r.StepPrice, &s.StepPrice},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("size.%s: %w", f.name, err)
		}
		*f.dst = d
	}
	if !s.Step.IsPositive() {
		return nil, fmt.Errorf("size.step must be positive")
	}
	if s.MaxWidth.LessThan(s.MinWidth) || s.MaxHeight.LessThan(s.MinHeight) {
		return nil, fmt.Errorf("size bounds are inverted")
	}
	return &s, nil
}

package application

import (
	"context"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/geo"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/SARVESHVARADKAR123/bottle/internal/selection"
	"github.com/SARVESHVARADKAR123/bottle/internal/tx"
	"go.uber.org/zap"
)

// FetchCounter counts selections per session.
type FetchCounter interface {
	NextFetch(ctx context.Context, sessionID string) (int64, error)
}

type CountCache interface {
	GetMessageCount(ctx context.Context) (int64, bool, error)
	SetMessageCount(ctx context.Context, n int64, ttl time.Duration) error
	InvalidateMessageCount(ctx context.Context) error
}

// Options tune the service. Zero values pick the defaults below; nil
// collaborators disable their feature.
type Options struct {
	Limits          domain.Limits
	OwnMessageEvery int
	FetchCounter    FetchCounter
	CountCache      CountCache
	CountCacheTTL   time.Duration
	Locator         geo.Locator
	GeoTimeout      time.Duration
	Rand            selection.Rand
	Now             func() time.Time
}

const (
	defaultCountCacheTTL = 30 * time.Second
	defaultGeoTimeout    = 2 * time.Second
	maxSelectAttempts    = 3
)

type Service struct {
	repo repository.Repository
	tx   tx.Transactor
	log  *zap.Logger

	limits        domain.Limits
	ownEvery      int
	counter       FetchCounter
	countCache    CountCache
	countCacheTTL time.Duration
	locator       geo.Locator
	geoTimeout    time.Duration
	rng           selection.Rand
	now           func() time.Time
}

func New(repo repository.Repository, transactor tx.Transactor, log *zap.Logger, opts Options) *Service {
	s := &Service{
		repo:          repo,
		tx:            transactor,
		log:           log,
		limits:        opts.Limits,
		ownEvery:      opts.OwnMessageEvery,
		counter:       opts.FetchCounter,
		countCache:    opts.CountCache,
		countCacheTTL: opts.CountCacheTTL,
		locator:       opts.Locator,
		geoTimeout:    opts.GeoTimeout,
		rng:           opts.Rand,
		now:           opts.Now,
	}

	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.limits == (domain.Limits{}) {
		s.limits = domain.DefaultLimits
	}
	if s.countCacheTTL <= 0 {
		s.countCacheTTL = defaultCountCacheTTL
	}
	if s.locator == nil {
		s.locator = geo.Nop{}
	}
	if s.geoTimeout <= 0 {
		s.geoTimeout = defaultGeoTimeout
	}
	if s.rng == nil {
		s.rng = selection.DefaultRand
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

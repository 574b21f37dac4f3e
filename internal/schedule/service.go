// Package schedule implements the fetch-project-cache pipeline behind
// the channel and program queries.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kishikawakatsumi/anime-today/internal/cache"
	"github.com/kishikawakatsumi/anime-today/internal/syobocal"
)

// Fetcher is the upstream schedule source.
type Fetcher interface {
	FetchChannels(ctx context.Context) ([]syobocal.Channel, error)
	FetchPrograms(ctx context.Context, q syobocal.ProgramQuery) ([]syobocal.Program, error)
}

// Cache TTLs per endpoint. Channel listings change rarely; program
// listings carry same-day revisions.
const (
	DefaultChannelTTL = time.Hour
	DefaultProgramTTL = 30 * time.Minute
)

// Service answers the channel and program queries, memoizing the
// serialized response body per query signature. Cache hits return the
// stored body verbatim.
type Service struct {
	upstream   Fetcher
	cache      *cache.TTL[string, []byte]
	channelTTL time.Duration
	programTTL time.Duration
	now        func() time.Time
}

// ServiceOptions configures NewService. Upstream is required; every
// other field has a working default.
type ServiceOptions struct {
	Upstream   Fetcher
	Cache      *cache.TTL[string, []byte]
	ChannelTTL time.Duration
	ProgramTTL time.Duration
	Now        func() time.Time
}

func NewService(opts ServiceOptions) *Service {
	s := &Service{
		upstream:   opts.Upstream,
		cache:      opts.Cache,
		channelTTL: opts.ChannelTTL,
		programTTL: opts.ProgramTTL,
		now:        opts.Now,
	}
	if s.cache == nil {
		s.cache = cache.New[string, []byte]()
	}
	if s.channelTTL <= 0 {
		s.channelTTL = DefaultChannelTTL
	}
	if s.programTTL <= 0 {
		s.programTTL = DefaultProgramTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Channels returns the serialized channel listing, optionally filtered
// by group id. A nil groupID and an explicit value cache under distinct
// keys.
func (s *Service) Channels(ctx context.Context, groupID *string) ([]byte, error) {
	key := "channels[all]"
	if groupID != nil {
		key = fmt.Sprintf("channels[%s]", *groupID)
	}
	if body, ok := s.cache.Get(key); ok {
		return body, nil
	}

	channels, err := s.upstream.FetchChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch channels: %w", err)
	}
	body, err := json.Marshal(ProjectChannels(channels, groupID))
	if err != nil {
		return nil, fmt.Errorf("encode channels: %w", err)
	}
	s.cache.Set(key, body, s.channelTTL)
	return body, nil
}

// Programs returns the serialized program listing for the current
// broadcast day, optionally restricted to the given raw comma-separated
// channel ids. The raw value participates in the cache key verbatim.
func (s *Service) Programs(ctx context.Context, channelIDs *string) ([]byte, error) {
	key := "programs[all]"
	if channelIDs != nil {
		key = fmt.Sprintf("programs[%s]", *channelIDs)
	}
	if body, ok := s.cache.Get(key); ok {
		return body, nil
	}

	from, to := BroadcastDay(s.now())
	q := syobocal.ProgramQuery{
		PlayedFrom: from,
		PlayedTo:   to,
		Includes:   []syobocal.Include{syobocal.IncludeChannel, syobocal.IncludeTitle},
	}
	if channelIDs != nil {
		q.ChannelID = *channelIDs
	}

	programs, err := s.upstream.FetchPrograms(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch programs: %w", err)
	}
	body, err := json.Marshal(ProjectPrograms(programs))
	if err != nil {
		return nil, fmt.Errorf("encode programs: %w", err)
	}
	s.cache.Set(key, body, s.programTTL)
	return body, nil
}

package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yethikrishna/y0-waitlist-builder/internal/common"
	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/metrics"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"
)

const countCacheTTL = 60 * time.Second

// StatsStore is the read-only storage surface for counts and listings.
type StatsStore interface {
	Count(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]entities.WaitlistSignup, error)
}

// StatsService serves the public count and the admin referral stats.
type StatsService struct {
	store      StatsStore
	cache      common.CacheInterface
	group      singleflight.Group
	metricsReg *metrics.MetricsRegistry
}

func NewStatsService(store StatsStore, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *StatsService {
	return &StatsService{
		store:      store,
		cache:      cache,
		metricsReg: metricsReg,
	}
}

// WaitlistCount returns the total signup count. Failures are logged and
// reported as 0; this call has no distinct failure channel. The DB query is
// cached and concurrent cold-cache callers share one query.
func (svc *StatsService) WaitlistCount(ctx context.Context) int {
	key := string(constants.CachePrefixWaitlistCount)

	if svc.cache != nil {
		if val, found := svc.cache.Get(key); found {
			if count, ok := asInt(val); ok {
				logging.Debug("Waitlist count served from cache", "count", count)
				return count
			}
		}
	}

	val, err, _ := svc.group.Do(key, func() (interface{}, error) {
		if svc.cache != nil {
			return svc.cache.GetOrSet(key, countCacheTTL, func() (any, error) {
				return svc.queryCount(ctx)
			})
		}
		return svc.queryCount(ctx)
	})
	if err != nil {
		logging.Error("Waitlist count query failed", "error", err.Error())
		return 0
	}

	count, _ := asInt(val)
	return count
}

func (svc *StatsService) queryCount(ctx context.Context) (int, error) {
	count, err := svc.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if svc.metricsReg != nil {
		svc.metricsReg.WaitlistSize.Set(float64(count))
	}
	return count, nil
}

// asInt normalizes cached values: the in-memory cache hands back ints, the
// Redis cache decodes JSON numbers to float64.
func asInt(val interface{}) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// ReferralStats fetches the full table and aggregates it.
func (svc *StatsService) ReferralStats(ctx context.Context) (*dtos.ReferralStats, error) {
	signups, err := svc.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := CalculateReferralStats(signups)
	return &stats, nil
}

// CalculateReferralStats is a pure aggregation over an already-fetched list.
func CalculateReferralStats(signups []entities.WaitlistSignup) dtos.ReferralStats {
	stats := dtos.ReferralStats{
		TotalSignups: len(signups),
		TopReferrers: []dtos.TopReferrer{},
	}

	referrerCount := 0
	for _, s := range signups {
		stats.TotalReferrals += s.ReferralCount
		if s.ReferredBy != nil {
			stats.ReferredSignups++
		}
		if s.ReferralCount > 0 {
			referrerCount++
			if s.ReferralCode != "" {
				stats.TopReferrers = append(stats.TopReferrers, dtos.TopReferrer{
					Email:         s.Email,
					ReferralCode:  s.ReferralCode,
					ReferralCount: s.ReferralCount,
					Position:      s.Position,
				})
			}
		}
	}

	if stats.TotalSignups > 0 {
		stats.ConversionRate = float64(stats.ReferredSignups) / float64(stats.TotalSignups) * 100
	}
	if referrerCount > 0 {
		stats.AvgReferralsPerUser = float64(stats.TotalReferrals) / float64(referrerCount)
	}

	sort.SliceStable(stats.TopReferrers, func(i, j int) bool {
		return stats.TopReferrers[i].ReferralCount > stats.TopReferrers[j].ReferralCount
	})
	if len(stats.TopReferrers) > 10 {
		stats.TopReferrers = stats.TopReferrers[:10]
	}

	return stats
}

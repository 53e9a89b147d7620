package estimateimpact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"

	"leadflow/internal/common/database"
	commonerrors "leadflow/internal/common/errors"
	"leadflow/internal/common/logger"
	"leadflow/internal/common/metrics"
	"leadflow/internal/roi"
)

// Executor is what the job handler and the HTTP API need from Service.
type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Service struct {
	config *Config
	logger logger.Logger
	redis  *database.RedisClient
	engine *roi.Engine
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	engine := deps.Engine
	if engine == nil {
		engine = roi.NewEngine()
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		config: config,
		logger: log,
		redis:  deps.Redis,
		engine: engine,
	}
}

// Execute resolves the inputs and returns the impact, reading through the
// Redis cache when one is configured. Cache failures never fail the call.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	industry, err := roi.ParseIndustry(input.Industry)
	if err != nil {
		return nil, commonerrors.NewInvalidIndustryError(input.Industry)
	}

	values := s.resolveValues(industry, input)
	key := s.cacheKey(industry, values)

	if out, ok := s.lookup(ctx, key); ok {
		metrics.ROIEstimates.WithLabelValues(string(industry), "hit").Inc()
		out.Cached = true
		return out, nil
	}

	impact := s.engine.Compute(industry, values)
	out := &Output{
		Industry:  industry,
		Label:     industry.Label(),
		Values:    values,
		Impact:    impact,
		Formatted: impact.Format(),
	}

	cacheLabel := "disabled"
	if s.redis != nil {
		cacheLabel = "miss"
		s.store(ctx, key, out)
	}
	metrics.ROIEstimates.WithLabelValues(string(industry), cacheLabel).Inc()
	metrics.ROIMonthlyImpact.WithLabelValues(string(industry)).Observe(impact.TotalMonthlyImpact)

	s.logger.Debug("ROI estimate computed", map[string]interface{}{
		"industry":     industry,
		"monthlyTotal": impact.TotalMonthlyImpact,
		"annualTotal":  impact.AnnualImpact,
	})

	return out, nil
}

// resolveValues drops ids the industry does not define and, when asked,
// fills the rest from the defaults.
func (s *Service) resolveValues(industry roi.Industry, input *Input) roi.Values {
	values := make(roi.Values, len(input.Values))
	for id, v := range input.Values {
		if roi.HasField(industry, id) {
			values[id] = v
		}
	}
	if input.UseDefaults {
		return roi.Defaults(industry).Merge(values)
	}
	return values
}

// cacheKey is stable for equal inputs regardless of map order.
func (s *Service) cacheKey(industry roi.Industry, values roi.Values) string {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(string(industry))
	for _, id := range ids {
		b.WriteByte(';')
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(values.Get(id), 'g', -1, 64))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return s.config.CachePrefix + string(industry) + ":" + hex.EncodeToString(sum[:16])
}

func (s *Service) lookup(ctx context.Context, key string) (*Output, bool) {
	if s.redis == nil {
		return nil, false
	}
	var out Output
	err := s.redis.GetJSON(ctx, key, &out)
	if err == nil {
		return &out, true
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		s.logger.Warn("ROI cache read failed, computing directly", map[string]interface{}{
			"key":       key,
			"errorCode": commonerrors.ErrCodeCacheUnavailable,
			"error":     err.Error(),
		})
	}
	return nil, false
}

func (s *Service) store(ctx context.Context, key string, out *Output) {
	if s.config.CacheTTL == 0 {
		return
	}
	if err := s.redis.SetJSON(ctx, key, out, s.config.CacheTTL); err != nil {
		s.logger.Warn("ROI cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// TestConnection pings the cache when one is configured.
func (s *Service) TestConnection(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Ping(ctx)
}

package application

import (
	"context"

	"go.uber.org/zap"
)

// MessageCount serves the health endpoint, through the count cache when one is
// configured.
func (s *Service) MessageCount(ctx context.Context) (int64, error) {
	if s.countCache != nil {
		n, ok, err := s.countCache.GetMessageCount(ctx)
		if err != nil {
			s.log.Warn("count_cache_read_failed", zap.Error(err))
		} else if ok {
			return n, nil
		}
	}

	n, err := s.repo.CountMessages(ctx)
	if err != nil {
		return 0, err
	}

	if s.countCache != nil {
		if err := s.countCache.SetMessageCount(ctx, n, s.countCacheTTL); err != nil {
			s.log.Warn("count_cache_write_failed", zap.Error(err))
		}
	}
	return n, nil
}

func (s *Service) invalidateCount(ctx context.Context) {
	if s.countCache == nil {
		return
	}
	if err := s.countCache.InvalidateMessageCount(ctx); err != nil {
		s.log.Warn("count_cache_invalidate_failed", zap.Error(err))
	}
}

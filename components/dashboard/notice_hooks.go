package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// LoggingNoticeHook writes every notice to a zap logger.
type LoggingNoticeHook struct {
	Logger *zap.Logger
}

// Notify logs errors at warn level and everything else at info.
func (h LoggingNoticeHook) Notify(_ context.Context, notice Notice) error {
	if h.Logger == nil {
		return nil
	}
	fields := []zap.Field{
		zap.String("notice_id", notice.ID),
		zap.String("kind", string(notice.Kind)),
		zap.String("title", notice.Title),
		zap.String("description", notice.Description),
	}
	if notice.Kind == NoticeError {
		h.Logger.Warn("notice", fields...)
		return nil
	}
	h.Logger.Info("notice", fields...)
	return nil
}

// MultiNoticeHook forwards notices to every hook and joins their errors.
type MultiNoticeHook []NoticeHook

// Notify calls each hook even when an earlier one fails.
func (m MultiNoticeHook) Notify(ctx context.Context, notice Notice) error {
	var errs []error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopNoticeHook struct{}

func (noopNoticeHook) Notify(context.Context, Notice) error { return nil }

package model

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/Malowking/edugo/core/errors"
	"github.com/cenkalti/backoff/v4"
	"github.com/gogf/gf/v2/frame/g"
)

// RetryConfig 单模型重试配置
type RetryConfig struct {
	MaxRetries     int           // 最大重试次数（不含首次调用）
	InitialDelay   time.Duration // 首次重试延迟
	AttemptTimeout time.Duration // 单次调用超时，0 表示不限制
}

// DefaultRetryConfig 默认重试配置
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialDelay:   500 * time.Millisecond,
		AttemptTimeout: 30 * time.Second,
	}
}

// RetryingGateway 对同一个模型做指数退避重试
type RetryingGateway struct {
	inner  Gateway
	config RetryConfig
}

// NewRetryingGateway 包装网关
func NewRetryingGateway(inner Gateway, cfg RetryConfig) *RetryingGateway {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultRetryConfig().InitialDelay
	}
	return &RetryingGateway{inner: inner, config: cfg}
}

// Complete 调用内部网关，失败时按指数退避重试
// 调用方取消 ctx 后不再重试
func (r *RetryingGateway) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	var (
		result  *Completion
		attempt int
	)

	operation := func() error {
		attempt++
		attemptCtx := ctx
		if r.config.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, r.config.AttemptTimeout)
			defer cancel()
		}

		res, err := r.inner.Complete(attemptCtx, req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.InitialDelay
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.config.MaxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		g.Log().Warningf(ctx, "[模型重试] 尝试 %d/%d 失败, %v 后重试, 错误: %v",
			attempt, r.config.MaxRetries+1, wait, err)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(errors.ErrLLMTimeout, err, "model call timed out")
		}
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Newf(errors.ErrLLMCallFailed, "model call failed after %d attempts: %v", attempt, err)
	}

	if attempt > 1 {
		g.Log().Infof(ctx, "[模型重试] 成功: 第 %d 次尝试成功", attempt)
	}
	return result, nil
}

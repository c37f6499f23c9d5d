package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/authkit/log"
)

// LogHook 记录拨号失败、命令失败与慢命令。
// 只记录命令名，不记录参数，参数中可能含有令牌。
type LogHook struct {
	logger        *log.Logger
	slowThreshold time.Duration
	debug         bool
}

// NewLogHook 创建日志 Hook，slowThreshold 为 0 时不检测慢命令
func NewLogHook(logger *log.Logger, slowThreshold time.Duration, debug bool) *LogHook {
	return &LogHook{logger: logger, slowThreshold: slowThreshold, debug: debug}
}

func (h *LogHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Warn().Str("addr", addr).Err(err).Msg("redis dial failed")
		}
		return conn, err
	}
}

func (h *LogHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(cmd.FullName(), 1, time.Since(start), err)
		return err
	}
}

func (h *LogHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		name := "pipeline"
		if len(cmds) > 0 {
			name = "pipeline:" + cmds[0].FullName()
		}
		h.record(name, len(cmds), time.Since(start), err)
		return err
	}
}

func (h *LogHook) record(name string, count int, d time.Duration, err error) {
	switch {
	case err != nil && err != redis.Nil:
		h.logger.Warn().Str("cmd", name).Int("count", count).Dur("duration", d).Err(err).Msg("redis command failed")
	case h.slowThreshold > 0 && d > h.slowThreshold:
		h.logger.Warn().Str("cmd", name).Int("count", count).Dur("duration", d).Dur("threshold", h.slowThreshold).Msg("redis slow command")
	case h.debug:
		h.logger.Debug().Str("cmd", name).Int("count", count).Dur("duration", d).Msg("redis command")
	}
}

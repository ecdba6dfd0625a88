package roleWorker

import (
	"context"
	"encoding/json"
	"errors"

	"hackbot/internal/dto"
	"hackbot/internal/platform"
	"hackbot/internal/rabbit"

	"github.com/wb-go/wbf/zlog"
)

// Worker drains the role-mutation queue and applies each operation
// against the chat platform. Failed operations are Nack-requeued, which
// is what makes post-commit role grants recoverable instead of a
// trailing call that can fault after the reply went out.
type Worker struct {
	RMQ      *rabbit.Client
	platform platform.Platform
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewWorker(rmq *rabbit.Client, p platform.Platform) *Worker {
	return &Worker{
		RMQ:      rmq,
		platform: p,
		done:     make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	zlog.Logger.Info().Msg("role worker started")

	go func() {
		defer close(w.done)

		handler := func(body []byte) error {
			var msg dto.RoleOperateMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal role message: %s", string(body))
				// Malformed messages would requeue forever; drop them.
				return nil
			}

			zlog.Logger.Info().
				Str("op", msg.Op).
				Int64("user_id", msg.UserID).
				Str("role", msg.RoleName).
				Msg("received role operation")

			if err := w.apply(cctx, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Str("op", msg.Op).
					Int64("user_id", msg.UserID).
					Str("role", msg.RoleName).
					Msg("failed to apply role operation")
				return err
			}
			return nil
		}

		if err := w.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("role worker stopped by context")
	}()
}

func (w *Worker) apply(ctx context.Context, msg *dto.RoleOperateMessage) error {
	roleID, err := w.platform.ResolveRole(ctx, msg.RoleName)
	if errors.Is(err, platform.ErrRoleNotFound) && msg.Op == dto.RoleEnsureGrant {
		roleID, err = w.platform.CreateRole(ctx, msg.RoleName)
	}
	if err != nil {
		return err
	}

	switch msg.Op {
	case dto.RoleGrant, dto.RoleEnsureGrant:
		return w.platform.AddMemberRole(ctx, msg.UserID, roleID)
	case dto.RoleRevoke:
		return w.platform.RemoveMemberRole(ctx, msg.UserID, roleID)
	default:
		zlog.Logger.Warn().Str("op", msg.Op).Msg("unknown role operation, dropping")
		return nil
	}
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

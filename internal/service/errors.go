package service

import (
	"context"

	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/pkg/logger"
)

// internalError logs a persistence fault with the request's logger and
// wraps it as a server error
func internalError(ctx context.Context, op string, err error) error {
	logger.FromContext(ctx).Error().Err(err).Str("op", op).Msg("operation failed")
	return common.Internal(op, err)
}

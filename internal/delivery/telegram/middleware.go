package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs handler failures and panics and tells the user something went wrong.
// Cancellation on shutdown is not reported to the user.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err == nil {
				return
			}
			if errors.Is(err, context.Canceled) {
				h.logger.Debug("handler cancelled", zap.Int64("chat_id", chatID))
				err = nil
				return
			}

			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			_ = h.send(newPlainMessage(chatID, msgInternalError))
			err = nil
		}()

		return fn(ctx, chatID)
	}
}

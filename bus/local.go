package bus

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Local is a minimal synchronous in-process bus for hosts that do not bring
// their own. Publish dispatches to subscribers one at a time in subscription
// order - registry operations must never run concurrently.
type Local struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *zap.Logger
}

// NewLocal creates an empty local bus.
func NewLocal(log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{
		handlers: make(map[string][]Handler),
		log:      log.Named("bus"),
	}
}

// Subscribe registers a handler for an operation name.
func (l *Local) Subscribe(op string, h Handler) {
	if h == nil {
		return
	}
	l.mu.Lock()
	l.handlers[op] = append(l.handlers[op], h)
	l.mu.Unlock()
}

// Publish dispatches the message to every subscriber of op sequentially and
// returns the last non-nil reply. The first handler error aborts dispatch.
// Publishing to an operation nobody subscribed to is an error: the host
// would otherwise silently lose requests.
func (l *Local) Publish(ctx context.Context, op string, msg any) (any, error) {
	l.mu.RLock()
	handlers := l.handlers[op]
	l.mu.RUnlock()

	if len(handlers) == 0 {
		return nil, fmt.Errorf("no subscribers for operation '%s'", op)
	}

	var reply any
	for _, h := range handlers {
		res, err := h(ctx, msg)
		if err != nil {
			l.log.Debug("Operation failed", zap.String("op", op), zap.Error(err))
			return nil, err
		}
		if res != nil {
			reply = res
		}
	}
	return reply, nil
}

package bus

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cssbus/entries"
)

// Attach subscribes one handler per recognized operation on the host bus,
// all dispatching into the given manager. A payload of the wrong type is a
// hard input error, consistent with the manager's InvalidInput semantics.
func Attach(b Bus, m *entries.Manager, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("cssbus")

	b.Subscribe(OpCreate, func(_ context.Context, msg any) (any, error) {
		req, err := payload[Create](OpCreate, msg)
		if err != nil {
			return nil, err
		}
		return nil, m.Create(req.Name, entries.CreateOptions{
			To:         req.To,
			Map:        req.Map,
			Processors: req.Processors,
			Silent:     req.Silent,
		})
	})

	b.Subscribe(OpAppend, func(_ context.Context, msg any) (any, error) {
		req, err := payload[Append](OpAppend, msg)
		if err != nil {
			return nil, err
		}
		return nil, m.Append(req.Name, input(req.CSS, req.DirName, req.FilePath, req.From), req.Silent)
	})

	b.Subscribe(OpPrepend, func(_ context.Context, msg any) (any, error) {
		req, err := payload[Prepend](OpPrepend, msg)
		if err != nil {
			return nil, err
		}
		return nil, m.Prepend(req.Name, input(req.CSS, req.DirName, req.FilePath, req.From), req.Silent)
	})

	b.Subscribe(OpAppendProcess, func(ctx context.Context, msg any) (any, error) {
		req, err := payload[AppendProcess](OpAppendProcess, msg)
		if err != nil {
			return nil, err
		}
		return nil, m.AppendProcess(ctx, req.Name, input(req.CSS, req.DirName, req.FilePath, req.From), req.Processors, req.Silent)
	})

	b.Subscribe(OpPrependProcess, func(ctx context.Context, msg any) (any, error) {
		req, err := payload[PrependProcess](OpPrependProcess, msg)
		if err != nil {
			return nil, err
		}
		return nil, m.PrependProcess(ctx, req.Name, input(req.CSS, req.DirName, req.FilePath, req.From), req.Processors, req.Silent)
	})

	b.Subscribe(OpFinalize, func(ctx context.Context, msg any) (any, error) {
		req, err := payload[Finalize](OpFinalize, msg)
		if err != nil {
			return nil, err
		}
		res, err := m.Finalize(ctx, req.Name, req.Silent)
		if err != nil {
			return nil, err
		}
		if res == nil {
			// keep the reply a plain nil, not a typed nil pointer
			return nil, nil
		}
		return res, nil
	})

	b.Subscribe(OpFinalizeAll, func(ctx context.Context, msg any) (any, error) {
		req, err := payload[FinalizeAll](OpFinalizeAll, msg)
		if err != nil {
			return nil, err
		}
		return m.FinalizeAll(ctx, req.Silent)
	})

	b.Subscribe(OpProcess, func(ctx context.Context, msg any) (any, error) {
		req, err := payload[Process](OpProcess, msg)
		if err != nil {
			return nil, err
		}
		return m.Process(ctx, input(req.CSS, req.DirName, req.FilePath, req.From), req.Processors, req.Silent)
	})

	log.Debug("Attached entry operations to host bus")
}

func input(css, dirName, filePath, from string) entries.Input {
	return entries.Input{CSS: css, DirName: dirName, FilePath: filePath, From: from}
}

// payload asserts the message type for an operation. Both the value and a
// pointer to it are accepted.
func payload[T any](op string, msg any) (T, error) {
	if v, ok := msg.(T); ok {
		return v, nil
	}
	if v, ok := msg.(*T); ok {
		return *v, nil
	}
	var zero T
	return zero, fmt.Errorf("operation '%s' got payload %T: %w", op, msg, entries.ErrInvalidInput)
}

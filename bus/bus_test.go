package bus_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssbus/bus"
	"cssbus/css"
	"cssbus/entries"
	"cssbus/transform"
)

func attached() (*bus.Local, *entries.Manager) {
	m := entries.NewManager(zap.NewNop(), transform.NewRegistry())
	b := bus.NewLocal(zap.NewNop())
	bus.Attach(b, m, zap.NewNop())
	return b, m
}

func publish(t *testing.T, b *bus.Local, op string, msg any) any {
	t.Helper()
	res, err := b.Publish(context.Background(), op, msg)
	if err != nil {
		t.Fatalf("operation '%s' failed: %v", op, err)
	}
	return res
}

func TestAttach_EntryLifecycle(t *testing.T) {
	b, _ := attached()

	publish(t, b, bus.OpCreate, bus.Create{Name: "main", To: "bundle.css"})
	publish(t, b, bus.OpAppend, bus.Append{Name: "main", CSS: "a{x:1}", From: "one"})
	publish(t, b, bus.OpPrepend, bus.Prepend{Name: "main", CSS: "p{x:0}", From: "pre"})

	res := publish(t, b, bus.OpFinalize, bus.Finalize{Name: "main"})
	data, ok := res.(*css.Result)
	if !ok {
		t.Fatalf("expected *css.Result reply, got %T", res)
	}
	if data.CSS != "p{x:0}a{x:1}" {
		t.Errorf("unexpected finalized text: %q", data.CSS)
	}
}

func TestAttach_FinalizeMissingIsNil(t *testing.T) {
	b, _ := attached()

	res, err := b.Publish(context.Background(), bus.OpFinalize, bus.Finalize{Name: "ghost", Silent: true})
	if err != nil {
		t.Fatalf("finalize of missing entry must not fail: %v", err)
	}
	if res != nil {
		t.Errorf("expected nil reply, got %#v", res)
	}
}

func TestAttach_Process(t *testing.T) {
	b, _ := attached()

	upper := transform.New("upper", func(_ context.Context, text, _ string) (string, error) {
		return strings.ToUpper(text), nil
	})
	res := publish(t, b, bus.OpProcess, bus.Process{
		CSS:        "a{color:red}",
		From:       "inline",
		Processors: []transform.Descriptor{{Instance: upper}},
	})
	proc, ok := res.(entries.Processed)
	if !ok {
		t.Fatalf("expected entries.Processed reply, got %T", res)
	}
	if proc.Text != "A{COLOR:RED}" || proc.From != "inline" {
		t.Errorf("unexpected reply: %+v", proc)
	}
}

func TestAttach_FinalizeAll(t *testing.T) {
	b, _ := attached()

	publish(t, b, bus.OpCreate, bus.Create{Name: "one"})
	publish(t, b, bus.OpCreate, bus.Create{Name: "two"})
	publish(t, b, bus.OpAppend, bus.Append{Name: "one", CSS: "a{}"})
	publish(t, b, bus.OpAppend, bus.Append{Name: "two", CSS: "b{}"})

	res := publish(t, b, bus.OpFinalizeAll, bus.FinalizeAll{})
	results, ok := res.([]entries.Finalized)
	if !ok {
		t.Fatalf("expected []entries.Finalized reply, got %T", res)
	}
	if len(results) != 2 || results[0].Name != "one" || results[1].Name != "two" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestAttach_AppendProcessPointerPayload(t *testing.T) {
	b, _ := attached()

	publish(t, b, bus.OpCreate, &bus.Create{Name: "main"})
	publish(t, b, bus.OpAppendProcess, &bus.AppendProcess{Name: "main", CSS: "a{}"})

	res := publish(t, b, bus.OpFinalize, bus.Finalize{Name: "main"})
	if data := res.(*css.Result); data.CSS != "a{}" {
		t.Errorf("unexpected finalized text: %q", data.CSS)
	}
}

func TestAttach_WrongPayload(t *testing.T) {
	b, _ := attached()

	_, err := b.Publish(context.Background(), bus.OpCreate, "not a message")
	if !errors.Is(err, entries.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLocal_NoSubscribers(t *testing.T) {
	b := bus.NewLocal(nil)

	if _, err := b.Publish(context.Background(), "nothing", nil); err == nil {
		t.Error("expected publish without subscribers to fail")
	}
}

func TestLocal_SequentialDispatch(t *testing.T) {
	b := bus.NewLocal(nil)

	var order []int
	b.Subscribe("op", func(context.Context, any) (any, error) {
		order = append(order, 1)
		return nil, nil
	})
	b.Subscribe("op", func(context.Context, any) (any, error) {
		order = append(order, 2)
		return "reply", nil
	})

	res, err := b.Publish(context.Background(), "op", nil)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if res != "reply" {
		t.Errorf("expected last non-nil reply, got %v", res)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected in-order dispatch, got %v", order)
	}
}

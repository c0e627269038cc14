package signature

import (
	"context"
	"errors"
	"testing"
)

func TestNew_RejectsNonFunc(t *testing.T) {
	if _, err := New("bad", 42); !errors.Is(err, ErrNotFunc) {
		t.Errorf("expected ErrNotFunc, got %v", err)
	}
	if _, err := New("bad", nil); !errors.Is(err, ErrNotFunc) {
		t.Errorf("expected ErrNotFunc for nil, got %v", err)
	}
}

func TestNew_RejectsBadShape(t *testing.T) {
	// Нет context
	_, err := New("bad", func(args minimalServerArgs) error { return nil })
	if !errors.Is(err, ErrBadShape) {
		t.Errorf("expected ErrBadShape, got %v", err)
	}

	// Нет error в результатах
	_, err = New("bad", func(ctx context.Context, args minimalServerArgs) int { return 0 })
	if !errors.Is(err, ErrBadShape) {
		t.Errorf("expected ErrBadShape, got %v", err)
	}
}

func TestNew_RejectsNonStructArgs(t *testing.T) {
	_, err := New("bad", func(ctx context.Context, args int) error { return nil })
	if !errors.Is(err, ErrArgsNotStruct) {
		t.Errorf("expected ErrArgsNotStruct, got %v", err)
	}
}

func TestDescriptor_NamesAndTags(t *testing.T) {
	type args struct {
		ServerAddress string
		LearningRate  float64 `param:"lr" default:"0.1"`
		DataURL       string
		Hidden        string         `param:"-"`
		Extra         map[string]any `param:",rest"`
	}

	c := mustComponent[args](t, "test")
	d := c.Descriptor()

	want := []string{"server_address", "lr", "data_url"}
	got := d.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("param %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	lr, ok := d.Param("lr")
	if !ok {
		t.Fatal("param lr not found")
	}
	if !lr.HasDefault || lr.Default != 0.1 {
		t.Errorf("expected default 0.1, got %v", lr.Default)
	}
}

func TestDescriptor_BadDefault(t *testing.T) {
	type args struct {
		Epochs int `default:"five"`
	}

	_, err := New("bad", clientFn[args]())
	if !errors.Is(err, ErrBadDefault) {
		t.Errorf("expected ErrBadDefault, got %v", err)
	}
}

func TestDescriptor_RestMustBeMap(t *testing.T) {
	type args struct {
		Extra []string `param:",rest"`
	}

	_, err := New("bad", clientFn[args]())
	if !errors.Is(err, ErrRestNotMap) {
		t.Errorf("expected ErrRestNotMap, got %v", err)
	}
}

func TestCall_BindsArgsAndDefaults(t *testing.T) {
	type args struct {
		ServerAddress string
		Epochs        int `default:"5"`
	}

	var got args
	c, err := New("trainer", func(ctx context.Context, a args) error {
		got = a
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Call(context.Background(), map[string]any{
		"server_address": "grpc://fl:8080",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ServerAddress != "grpc://fl:8080" {
		t.Errorf("unexpected server address: %q", got.ServerAddress)
	}
	if got.Epochs != 5 {
		t.Errorf("expected default epochs 5, got %d", got.Epochs)
	}
}

func TestCall_RestCollectsUnknown(t *testing.T) {
	type args struct {
		ServerAddress string
		Extra         map[string]any `param:",rest"`
	}

	var got args
	c, _ := New("trainer", func(ctx context.Context, a args) error {
		got = a
		return nil
	})

	_, err := c.Call(context.Background(), map[string]any{
		"server_address": "grpc://fl:8080",
		"momentum":       0.9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Extra["momentum"] != 0.9 {
		t.Errorf("expected momentum in rest field, got %v", got.Extra)
	}
}

func TestCall_UnknownWithoutRest(t *testing.T) {
	c := mustComponent[minimalClientArgs](t, "client")

	_, err := c.Call(context.Background(), map[string]any{
		"server_address": "a",
		"momentum":       0.9,
	})
	if !errors.Is(err, ErrUnknownArgument) {
		t.Errorf("expected ErrUnknownArgument, got %v", err)
	}
}

func TestCall_NumericConversion(t *testing.T) {
	type args struct {
		Epochs int
	}

	var got args
	c, _ := New("trainer", func(ctx context.Context, a args) error {
		got = a
		return nil
	})

	// JSON-декодер отдаёт числа как float64
	_, err := c.Call(context.Background(), map[string]any{"epochs": float64(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Epochs != 7 {
		t.Errorf("expected 7, got %d", got.Epochs)
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"ServerAddress":      "server_address",
		"NumberOfIterations": "number_of_iterations",
		"DataURL":            "data_url",
		"LR":                 "lr",
		"Epochs":             "epochs",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

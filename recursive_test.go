package recmap_test

import (
	"context"
	"reflect"
	"testing"

	recmap "github.com/recmap/recmap"
)

type tree struct {
	Value string `json:"value"`
	Left  *tree  `json:"left"`
	Right *tree  `json:"right"`
}

func TestModel_RecursiveRecordConstructsAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[tree]()
	if err != nil {
		t.Fatalf("New failed on recursive type: %v", err)
	}
	in := tree{
		Value: "root",
		Left: &tree{
			Value: "l",
			Left:  &tree{Value: "ll"},
		},
		Right: &tree{Value: "r"},
	}
	out, err := m.Dump(ctx, in)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	back, err := m.Load(ctx, out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("recursive round trip mismatch: %#v != %#v", back, in)
	}
}

func TestModel_RecursiveRecordSharesOneModelInstance(t *testing.T) {
	m, err := recmap.NewModelOf(reflect.TypeOf(tree{}))
	if err != nil {
		t.Fatalf("NewModelOf failed: %v", err)
	}
	if m.Type() != reflect.TypeOf(tree{}) {
		t.Fatalf("unexpected model type %v", m.Type())
	}
	// nested nulls load to nil subtrees
	v, err := m.Load(context.Background(), map[string]any{"value": "x", "left": nil, "right": nil})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tv := v.(tree)
	if tv.Left != nil || tv.Right != nil {
		t.Fatalf("expected nil subtrees, got %#v", tv)
	}
}

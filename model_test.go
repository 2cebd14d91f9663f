package recmap_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	recmap "github.com/recmap/recmap"
)

type intsRecord struct {
	Xs []int `json:"xs"`
}

func TestModel_RoundTripListOfInt(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[intsRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	in := intsRecord{Xs: []int{1, 2, 3}}
	out, err := m.Dump(ctx, in)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	xs, ok := out["xs"].([]any)
	if !ok || len(xs) != 3 {
		t.Fatalf("expected xs as 3-element list, got %#v", out["xs"])
	}
	back, err := m.Load(ctx, out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch: %#v != %#v", back, in)
	}
}

type setRecord struct {
	Tags recmap.Set[int] `json:"tags"`
}

func TestModel_SetDumpsToListAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[setRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v, err := m.Load(ctx, map[string]any{"tags": []any{1, 2, 2, 3, 1}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.Tags.Len() != 3 || !v.Tags.Has(1) || !v.Tags.Has(2) || !v.Tags.Has(3) {
		t.Fatalf("expected set {1,2,3}, got %v", v.Tags.Items())
	}
	out, err := m.Dump(ctx, v)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	got, ok := out["tags"].([]any)
	if !ok || len(got) != 3 {
		t.Fatalf("expected 3-element list, got %#v", out["tags"])
	}
	// order is unspecified; compare by set membership
	back, err := m.Load(ctx, out)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(back.Tags, v.Tags) {
		t.Fatalf("set round trip mismatch: %v != %v", back.Tags, v.Tags)
	}
}

type abcRecord struct {
	A string `json:"a"`
	B int    `json:"b"`
	C bool   `json:"c"`
}

func TestModel_MissingFieldsReportedInOneBatch(t *testing.T) {
	m, err := recmap.New[abcRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = m.Load(context.Background(), map[string]any{})
	if err == nil {
		t.Fatalf("expected error for empty input")
	}
	var mf *recmap.MissingFieldsError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldsError, got %T: %v", err, err)
	}
	if !reflect.DeepEqual(mf.Fields, []string{"a", "b", "c"}) {
		t.Fatalf("expected all three fields named, got %v", mf.Fields)
	}
}

type aOnlyRecord struct {
	A int `json:"a"`
}

func TestModel_UnexpectedKeysReportedInOneBatch(t *testing.T) {
	m, err := recmap.New[aOnlyRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = m.Load(context.Background(), map[string]any{"a": 1, "z": 9, "y": 8})
	if err == nil {
		t.Fatalf("expected error for unexpected keys")
	}
	var uk *recmap.UnexpectedKeysError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnexpectedKeysError, got %T: %v", err, err)
	}
	if !reflect.DeepEqual(uk.Keys, []string{"y", "z"}) {
		t.Fatalf("expected keys [y z], got %v", uk.Keys)
	}
}

func TestModel_AllowUnexpectedIgnoresExtraKeys(t *testing.T) {
	m, err := recmap.New[aOnlyRecord](recmap.AllowUnexpected())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v, err := m.Load(context.Background(), map[string]any{"a": 1, "z": 9})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.A != 1 {
		t.Fatalf("expected A=1, got %d", v.A)
	}
}

type inferNested struct {
	X *string `json:"x"`
	Y int     `json:"y"`
}

type inferRecord struct {
	A string      `json:"a"`
	B *int        `json:"b"`
	C inferNested `json:"c"`
}

func TestModel_AllowMissingInfersRecursivelyAndWarns(t *testing.T) {
	m, err := recmap.New[inferRecord](recmap.AllowMissing())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	d, err := m.LoadWithMeta(context.Background(), map[string]any{"a": "hi"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Value.A != "hi" || d.Value.B != nil || d.Value.C.X != nil || d.Value.C.Y != 0 {
		t.Fatalf("unexpected inferred value: %#v", d.Value)
	}
	// only the required non-optional leaf warns
	if len(d.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", d.Warnings)
	}
	if d.Warnings[0].Field != "y" || d.Warnings[0].Path != ".c" {
		t.Fatalf("expected warning for y at .c, got %+v", d.Warnings[0])
	}
}

type pathUser struct {
	Name string `json:"name"`
}

type pathContainer struct {
	User pathUser `json:"user"`
}

func TestModel_LoadErrorCarriesDottedPath(t *testing.T) {
	m, err := recmap.New[pathContainer]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = m.Load(context.Background(), map[string]any{"user": map[string]any{"name": 123}})
	if err == nil {
		t.Fatalf("expected error")
	}
	var le *recmap.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %T: %v", err, err)
	}
	if le.Path != ".user.name" {
		t.Fatalf("expected path .user.name, got %q", le.Path)
	}
	var ve *recmap.ValidationError
	if !errors.As(le.Cause, &ve) || ve.Code != recmap.CodeNotAString {
		t.Fatalf("expected string validation cause, got %v", le.Cause)
	}
}

type indexedContainer struct {
	Users []pathUser `json:"users"`
}

func TestModel_LoadErrorPathIncludesIndex(t *testing.T) {
	m, err := recmap.New[indexedContainer]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = m.Load(context.Background(), map[string]any{
		"users": []any{
			map[string]any{"name": "ok"},
			map[string]any{"name": "ok"},
			map[string]any{"name": 7},
		},
	})
	var le *recmap.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %T: %v", err, err)
	}
	if le.Path != ".users[2].name" {
		t.Fatalf("expected path .users[2].name, got %q", le.Path)
	}
}

type anyRecord struct {
	Payload any `json:"payload"`
}

func TestModel_AnyFieldNeedsAllowAny(t *testing.T) {
	_, err := recmap.New[anyRecord]()
	var ca *recmap.ModelContainsAnyError
	if !errors.As(err, &ca) {
		t.Fatalf("expected ModelContainsAnyError, got %v", err)
	}

	m, err := recmap.New[anyRecord](recmap.AllowAny())
	if err != nil {
		t.Fatalf("New with AllowAny failed: %v", err)
	}
	v, err := m.Load(context.Background(), map[string]any{"payload": []any{1, "two"}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(v.Payload, []any{1, "two"}) {
		t.Fatalf("expected passthrough, got %#v", v.Payload)
	}
}

type hookRecord struct {
	Age int `json:"age"`
}

func (r hookRecord) Validate(ctx context.Context) error {
	if r.Age < 0 {
		return &recmap.ValidationError{Message: "age must be non-negative"}
	}
	return nil
}

func TestModel_ValidateHookRunsOnLoadAndPassesThroughUnwrapped(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[hookRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = m.Load(ctx, map[string]any{"age": -1})
	if err == nil {
		t.Fatalf("expected hook failure")
	}
	var le *recmap.LoadError
	if errors.As(err, &le) {
		t.Fatalf("hook failure must not be wrapped in LoadError, got %v", err)
	}
	var ve *recmap.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	// hook disabled
	m2, err := recmap.New[hookRecord](recmap.SkipValidateOnLoad())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := m2.Load(ctx, map[string]any{"age": -1}); err != nil {
		t.Fatalf("expected hook skipped, got %v", err)
	}
}

func TestModel_ValidateHookOnDumpIsOptIn(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[hookRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := m.Dump(ctx, hookRecord{Age: -1}); err != nil {
		t.Fatalf("dump hook must be off by default, got %v", err)
	}
	m2, err := recmap.New[hookRecord](recmap.ValidateOnDump())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := m2.Dump(ctx, hookRecord{Age: -1}); err == nil {
		t.Fatalf("expected dump hook failure")
	}
}

func TestModel_LoadRejectsNonMappingInput(t *testing.T) {
	m, err := recmap.NewModelOf(reflect.TypeOf(aOnlyRecord{}))
	if err != nil {
		t.Fatalf("NewModelOf failed: %v", err)
	}
	_, err = m.Load(context.Background(), []any{1, 2})
	var ie *recmap.InvalidInputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestModel_DumpRejectsWrongType(t *testing.T) {
	m, err := recmap.NewModelOf(reflect.TypeOf(aOnlyRecord{}))
	if err != nil {
		t.Fatalf("NewModelOf failed: %v", err)
	}
	_, err = m.Dump(context.Background(), abcRecord{})
	var ie *recmap.InvalidInputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

type camelRecord struct {
	DragonTartare string `json:"dragon_tartare"`
}

func TestModel_CamelKeyMapping(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[camelRecord](recmap.Keys(recmap.CamelKeys))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out, err := m.Dump(ctx, camelRecord{DragonTartare: "rare"})
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if _, ok := out["dragonTartare"]; !ok {
		t.Fatalf("expected camelCase wire key, got %v", out)
	}
	back, err := m.Load(ctx, map[string]any{"dragonTartare": "rare"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.DragonTartare != "rare" {
		t.Fatalf("expected value preserved, got %q", back.DragonTartare)
	}
}

type tupleRecord struct {
	Pos [2]float64 `json:"pos"`
}

func TestModel_TupleArityChecked(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[tupleRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v, err := m.Load(ctx, map[string]any{"pos": []any{1.5, 2.5}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.Pos != [2]float64{1.5, 2.5} {
		t.Fatalf("unexpected tuple: %v", v.Pos)
	}
	_, err = m.Load(ctx, map[string]any{"pos": []any{1.5}})
	var ve *recmap.ValidationError
	if !errors.As(err, &ve) || ve.Code != recmap.CodeWrongArity {
		t.Fatalf("expected wrong_arity, got %v", err)
	}
}

type dictRecord struct {
	Scores map[string]int `json:"scores"`
}

func TestModel_DictRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, err := recmap.New[dictRecord]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	in := dictRecord{Scores: map[string]int{"alpha": 1, "beta": 2}}
	out, err := m.Dump(ctx, in)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	back, err := m.Load(ctx, out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("dict round trip mismatch: %#v", back)
	}
	_, err = m.Load(ctx, map[string]any{"scores": []any{1}})
	var ve *recmap.ValidationError
	if !errors.As(err, &ve) || ve.Code != recmap.CodeNotAMapping {
		t.Fatalf("expected not_a_mapping, got %v", err)
	}
}

type badDictRecord struct {
	ByID map[int]string `json:"by_id"`
}

func TestModel_NonStringDictKeysFailConstruction(t *testing.T) {
	_, err := recmap.New[badDictRecord]()
	var ut *recmap.UnsupportedTypeError
	if !errors.As(err, &ut) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
}

func TestModel_ConstructionFailsFastOnUnsupportedField(t *testing.T) {
	type withChan struct {
		C chan int `json:"c"`
	}
	_, err := recmap.New[withChan]()
	var ut *recmap.UnsupportedTypeError
	if !errors.As(err, &ut) {
		t.Fatalf("expected UnsupportedTypeError at construction, got %v", err)
	}
}

// a quick table over the primitive round trips
func TestModel_PrimitiveRoundTrips(t *testing.T) {
	type prims struct {
		S string  `json:"s"`
		B bool    `json:"b"`
		I int     `json:"i"`
		F float64 `json:"f"`
	}
	ctx := context.Background()
	m, err := recmap.New[prims]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	in := prims{S: "x", B: true, I: -7, F: 2.5}
	out, err := m.Dump(ctx, in)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	back, err := m.Load(ctx, out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back != in {
		t.Fatalf("round trip mismatch: %#v != %#v", back, in)
	}
}

func TestModel_OptionalFieldNullAndValue(t *testing.T) {
	type opt struct {
		N *int `json:"n"`
	}
	ctx := context.Background()
	m, err := recmap.New[opt]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v, err := m.Load(ctx, map[string]any{"n": nil})
	if err != nil {
		t.Fatalf("Load nil failed: %v", err)
	}
	if v.N != nil {
		t.Fatalf("expected nil pointer, got %v", v.N)
	}
	v, err = m.Load(ctx, map[string]any{"n": 5})
	if err != nil {
		t.Fatalf("Load value failed: %v", err)
	}
	if v.N == nil || *v.N != 5 {
		t.Fatalf("expected *5, got %v", v.N)
	}
	out, err := m.Dump(ctx, v)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if fmt.Sprintf("%v", out["n"]) != "5" {
		t.Fatalf("expected dumped 5, got %#v", out["n"])
	}
}

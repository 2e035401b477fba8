package validation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/km-arc/go-factory/framework/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the validator passes for the given data/rules.
func pass(t *testing.T, label string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Fails() {
			t.Errorf("expected PASS, got FAIL: %+v", v.Errors().Bag)
		}
	})
}

// fail asserts the validator fails with an error on the given field.
func fail(t *testing.T, label, field string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Passes() {
			t.Errorf("expected FAIL on field %q, but validator PASSED", field)
		}
		if v.Errors().First(field) == "" {
			t.Errorf("expected error on field %q, got %+v", field, v.Errors().Bag)
		}
	})
}

// ── rules ────────────────────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty value", map[string]string{"name": "Alice"}, r)
	fail(t, "empty string", "name", map[string]string{"name": ""}, r)
	fail(t, "whitespace only", "name", map[string]string{"name": "   "}, r)
	fail(t, "missing key", "name", map[string]string{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"name": ""}, validation.Rules{"name": "required"})
	_ = v.Fails()

	want := "The name field is required."
	if got := v.Errors().First("name"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValidation_Numeric(t *testing.T) {
	r := validation.Rules{"n": "numeric"}

	pass(t, "integer", map[string]string{"n": "42"}, r)
	pass(t, "float", map[string]string{"n": "3.14"}, r)
	fail(t, "letters", "n", map[string]string{"n": "abc"}, r)
}

func TestValidation_Integer(t *testing.T) {
	r := validation.Rules{"port": "integer"}

	pass(t, "integer", map[string]string{"port": "8000"}, r)
	fail(t, "float", "port", map[string]string{"port": "80.5"}, r)
	fail(t, "letters", "port", map[string]string{"port": "http"}, r)
}

func TestValidation_Boolean(t *testing.T) {
	r := validation.Rules{"debug": "boolean"}

	for _, v := range []string{"true", "false", "1", "0", "TRUE"} {
		pass(t, v, map[string]string{"debug": v}, r)
	}
	fail(t, "yes-ish", "debug", map[string]string{"debug": "maybe"}, r)
}

func TestValidation_MinMax(t *testing.T) {
	r := validation.Rules{"name": "min:2|max:4"}

	pass(t, "in range", map[string]string{"name": "abc"}, r)
	pass(t, "unicode counted as runes", map[string]string{"name": "日本"}, r)
	fail(t, "too short", "name", map[string]string{"name": "a"}, r)
	fail(t, "too long", "name", map[string]string{"name": "abcde"}, r)
}

func TestValidation_In(t *testing.T) {
	r := validation.Rules{"level": "in:debug, info,warn,error"}

	pass(t, "listed", map[string]string{"level": "info"}, r)
	fail(t, "not listed", "level", map[string]string{"level": "trace"}, r)
	fail(t, "case sensitive", "level", map[string]string{"level": "INFO"}, r)
}

func TestValidation_NotIn(t *testing.T) {
	r := validation.Rules{"scope": "not_in:unique"}

	pass(t, "other", map[string]string{"scope": "session"}, r)
	fail(t, "reserved", "scope", map[string]string{"scope": "unique"}, r)
}

func TestValidation_AlphaDash(t *testing.T) {
	r := validation.Rules{"env": "alpha_dash"}

	pass(t, "plain", map[string]string{"env": "local"}, r)
	pass(t, "dash and underscore", map[string]string{"env": "staging-eu_1"}, r)
	fail(t, "space", "env", map[string]string{"env": "my env"}, r)
}

func TestValidation_AlphaNum(t *testing.T) {
	r := validation.Rules{"code": "alpha_num"}

	pass(t, "letters and digits", map[string]string{"code": "abc123"}, r)
	fail(t, "dash", "code", map[string]string{"code": "abc-123"}, r)
}

func TestValidation_Regex(t *testing.T) {
	r := validation.Rules{"id": `regex:^#?[0-9]+$`}

	pass(t, "bare", map[string]string{"id": "12"}, r)
	pass(t, "hash prefixed", map[string]string{"id": "#12"}, r)
	fail(t, "letters", "id", map[string]string{"id": "abc"}, r)
}

func TestValidation_Bounds(t *testing.T) {
	r := validation.Rules{"port": "integer|gte:1|lte:65535"}

	pass(t, "lower bound", map[string]string{"port": "1"}, r)
	pass(t, "upper bound", map[string]string{"port": "65535"}, r)
	fail(t, "zero", "port", map[string]string{"port": "0"}, r)
	fail(t, "too large", "port", map[string]string{"port": "70000"}, r)
}

func TestValidation_Nullable(t *testing.T) {
	r := validation.Rules{"port": "nullable|integer"}

	pass(t, "empty skips", map[string]string{"port": ""}, r)
	fail(t, "present is checked", "port", map[string]string{"port": "x"}, r)
}

func TestValidation_BailsOnFirstFailure(t *testing.T) {
	v := validation.Make(map[string]string{"port": ""}, validation.Rules{"port": "required|integer"})
	_ = v.Fails()

	if n := len(v.Errors().Bag["port"]); n != 1 {
		t.Errorf("got %d messages, want 1", n)
	}
}

// ── Errors ───────────────────────────────────────────────────────────────────

func TestErrors_ErrJoinsByField(t *testing.T) {
	v := validation.Make(map[string]string{"b": "", "a": "x"}, validation.Rules{
		"a": "integer",
		"b": "required",
	})

	err := v.Err()
	if err == nil {
		t.Fatal("expected an error")
	}

	want := "The a must be an integer. The b field is required."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	var bag *validation.Errors
	if !errors.As(err, &bag) {
		t.Fatal("expected *validation.Errors")
	}
	if got := bag.Fields(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestErrors_ErrNilWhenValid(t *testing.T) {
	v := validation.Make(map[string]string{"a": "1"}, validation.Rules{"a": "integer"})
	if err := v.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestErrors_RepeatedFailsDoesNotDuplicate(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"a": "required"})
	v.Fails()
	v.Fails()

	if n := len(v.Errors().Bag["a"]); n != 1 {
		t.Errorf("got %d messages, want 1", n)
	}
}

func TestErrors_JSONShape(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"a": "required"})
	v.Fails()

	b, err := json.Marshal(v.Errors())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"errors":{"a":["The a field is required."]}}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

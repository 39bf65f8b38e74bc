package grammar

import (
	"testing"

	"github.com/0xricksanchez/hantu-go/internal/prng"
)

// createSimpleDummyGrammar mirrors create_simple_dummy_grammar in
// grammar_mutator/src/lib.rs:
//
//	0: NonTerminal -> [1]
//	1: OrderedExpansion -> [2, 3]
//	2: Terminal -> "A"
//	3: Terminal -> "B"
//	4: Nop
//	5: OrderedExpansion -> [2, 4, 3]
//
// Start token is id 0.
func createSimpleDummyGrammar() *Grammar {
	id := func(i int) TokenID { return TokenID(i) }
	start := id(0)
	return &Grammar{
		Start: &start,
		tokens: []Token{
			{Kind: KindNonTerminal, Children: []TokenID{id(1)}},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(3)}},
			{Kind: KindTerminal, Literal: []byte("A")},
			{Kind: KindTerminal, Literal: []byte("B")},
			{Kind: KindNop},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(4), id(3)}},
		},
		tokenMap: map[string]TokenID{"<start>": id(0)},
	}
}

func tokensEqual(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind {
			return false
		}
		if string(a[i].Literal) != string(b[i].Literal) {
			return false
		}
		if len(a[i].Children) != len(b[i].Children) {
			return false
		}
		for j := range a[i].Children {
			if a[i].Children[j] != b[i].Children[j] {
				return false
			}
		}
	}
	return true
}

// TestSimpleOptimization mirrors test_simple_optimization: the sole
// optimization applied replaces token 0 (NonTerminal with one option) with
// token 1's contents. The Nop at token 4 stays, since it's not the only
// element of token 5's OrderedExpansion.
func TestSimpleOptimization(t *testing.T) {
	id := func(i int) TokenID { return TokenID(i) }
	g := createSimpleDummyGrammar()
	g.optimize()

	want := []Token{
		{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(3)}},
		{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(3)}},
		{Kind: KindTerminal, Literal: []byte("A")},
		{Kind: KindTerminal, Literal: []byte("B")},
		{Kind: KindNop},
		{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(4), id(3)}},
	}
	if !tokensEqual(g.tokens, want) {
		t.Fatalf("optimize() produced %+v, want %+v", g.tokens, want)
	}
}

// createComplexDummyGrammar mirrors create_complex_dummy_grammar.
func createComplexDummyGrammar() *Grammar {
	id := func(i int) TokenID { return TokenID(i) }
	start := id(0)
	return &Grammar{
		Start: &start,
		tokens: []Token{
			{Kind: KindNonTerminal, Children: []TokenID{id(1)}},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(3)}},
			{Kind: KindTerminal, Literal: []byte("A")},
			{Kind: KindTerminal, Literal: []byte("B")},
			{Kind: KindNonTerminal, Children: []TokenID{id(5)}},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(6), id(7)}},
			{Kind: KindTerminal, Literal: []byte("C")},
			{Kind: KindTerminal, Literal: []byte("D")},
			{Kind: KindNop},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(8)}},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(8), id(3)}},
		},
		tokenMap: map[string]TokenID{"<start>": id(0)},
	}
}

// createOptimizedComplexDummyGrammar mirrors
// create_optimized_complex_dummy_grammar, the expected fixed point of
// optimize() on createComplexDummyGrammar.
func createOptimizedComplexDummyGrammar() *Grammar {
	id := func(i int) TokenID { return TokenID(i) }
	start := id(0)
	return &Grammar{
		Start: &start,
		tokens: []Token{
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(3)}},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(3)}},
			{Kind: KindTerminal, Literal: []byte("A")},
			{Kind: KindTerminal, Literal: []byte("B")},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(6), id(7)}},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(6), id(7)}},
			{Kind: KindTerminal, Literal: []byte("C")},
			{Kind: KindTerminal, Literal: []byte("D")},
			{Kind: KindNop},
			{Kind: KindNop},
			{Kind: KindOrderedExpansion, Children: []TokenID{id(2), id(8), id(3)}},
		},
		tokenMap: map[string]TokenID{"<start>": id(0)},
	}
}

func TestComplexOptimization(t *testing.T) {
	g := createComplexDummyGrammar()
	g.optimize()

	want := createOptimizedComplexDummyGrammar()
	if !tokensEqual(g.tokens, want.tokens) {
		t.Fatalf("optimize() produced %+v, want %+v", g.tokens, want.tokens)
	}
}

// TestGenerateComplexDummyGrammar mirrors generate_complex_dummy_grammar:
// after optimization, generating from <start> always yields exactly "AB",
// regardless of seed, since every remaining choice point is deterministic.
func TestGenerateComplexDummyGrammar(t *testing.T) {
	r := prng.NewRng(prng.New(prng.KindXorshift64, 0xdeadbeefcafebabe))
	g := createComplexDummyGrammar()
	g.optimize()

	var out []byte
	g.Generate(0, *g.Start, r, &out)
	if string(out) != "AB" {
		t.Fatalf("Generate produced %q, want \"AB\"", out)
	}
}

// TestGenerateLargerJSON mirrors generate_larger_json: repeatedly generating
// from the bundled JSON grammar until the output reaches 500 bytes must
// terminate (bounded time per generation, depth-capped recursion).
func TestGenerateLargerJSON(t *testing.T) {
	g, err := LoadNamed("json")
	if err != nil {
		t.Fatalf("LoadNamed(json) error: %v", err)
	}
	r := prng.NewRng(prng.New(prng.KindXorshift64, 0))

	var out []byte
	for len(out) < 500 {
		out = out[:0]
		g.Generate(0, *g.Start, r, &out)
	}
	if len(out) < 500 {
		t.Fatalf("expected final output >= 500 bytes, got %d", len(out))
	}
}

// TestCompileCSV exercises Compile end-to-end against the bundled CSV
// grammar, distinct from the JSON one, to catch regressions specific to
// reference resolution ordering.
func TestCompileCSV(t *testing.T) {
	g, err := LoadNamed("csv")
	if err != nil {
		t.Fatalf("LoadNamed(csv) error: %v", err)
	}
	r := prng.NewRng(prng.New(prng.KindXorshift64, 42))
	var out []byte
	g.Generate(0, *g.Start, r, &out)
	if len(out) == 0 {
		t.Fatalf("expected non-empty CSV generation")
	}
}

// TestCompileINI and TestCompileYAML extend the bundled-asset coverage
// past json/csv the same way TestCompileCSV does.
func TestCompileINI(t *testing.T) {
	g, err := LoadNamed("ini")
	if err != nil {
		t.Fatalf("LoadNamed(ini) error: %v", err)
	}
	r := prng.NewRng(prng.New(prng.KindXorshift64, 7))
	var out []byte
	g.Generate(0, *g.Start, r, &out)
	if len(out) == 0 {
		t.Fatalf("expected non-empty INI generation")
	}
}

func TestCompileYAML(t *testing.T) {
	g, err := LoadNamed("yaml")
	if err != nil {
		t.Fatalf("LoadNamed(yaml) error: %v", err)
	}
	r := prng.NewRng(prng.New(prng.KindXorshift64, 7))
	var out []byte
	g.Generate(0, *g.Start, r, &out)
	if len(out) == 0 {
		t.Fatalf("expected non-empty YAML generation")
	}
}

// TestOptimizeIsIdempotent covers the fixed-point property: running
// optimize() again after it has already converged must not change anything
// further.
func TestOptimizeIsIdempotent(t *testing.T) {
	g := createComplexDummyGrammar()
	g.optimize()
	once := append([]Token(nil), g.tokens...)
	g.optimize()
	if !tokensEqual(g.tokens, once) {
		t.Fatalf("optimize() is not idempotent: %+v vs %+v", g.tokens, once)
	}
}

func TestResolveUnknownNameIsCustomPath(t *testing.T) {
	_, err := Resolve("/does/not/exist.json")
	if err == nil {
		t.Fatalf("expected error loading a nonexistent custom grammar path")
	}
}

func TestLoadNamedKnownButUnbundled(t *testing.T) {
	if !IsKnownName("xml") {
		t.Fatalf("xml should be a recognized built-in name")
	}
	if _, err := LoadNamed("xml"); err == nil {
		t.Fatalf("expected an error for a known-but-unbundled grammar name")
	}
}

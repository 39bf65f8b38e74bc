// Package grammar implements the JSON-driven context-free grammar generator
// used by the mutation engine's grammar mutator, ported from
// original_source/src/libs/mutation_engine/src/custom_mutators/grammar_mutator/src/lib.rs.
//
// Unlike grammer_caller.rs's boxed-Fn-trait-object dispatch (deliberately
// avoided here), a grammar slot in the mutation engine is represented as a
// plain tagged variant: Uninitialized or Compiled(*Grammar). See
// internal/mutation for that wiring.
package grammar

import (
	"encoding/json"
	"sort"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
	"github.com/0xricksanchez/hantu-go/internal/prng"
)

// TokenID identifies a token within a compiled Grammar.
type TokenID int

// TokenKind tags the variant a Token holds. Using an explicit tag plus a
// small fixed payload (rather than an interface-typed union) matches the
// "tagged variant, not boxed closure" guidance carried from grammer_caller.rs.
type TokenKind int

const (
	// OrderedExpansion expands every child token, in order.
	KindOrderedExpansion TokenKind = iota
	// NonTerminal picks one of its children uniformly at random.
	KindNonTerminal
	// Terminal emits its literal bytes.
	KindTerminal
	// Nop emits nothing.
	KindNop
)

// Token is one node of a compiled grammar. Only the fields relevant to Kind
// are populated: Children for OrderedExpansion/NonTerminal, Literal for
// Terminal.
type Token struct {
	Kind     TokenKind
	Children []TokenID
	Literal  []byte
}

// serializedGrammar mirrors the original's SerializedJsonGrammar: a map from
// non-terminal name to a list of expansions, each expansion a list of
// terminal strings or non-terminal names.
type serializedGrammar map[string][][]string

// Grammar is a compiled context-free grammar ready for generation.
type Grammar struct {
	Start    *TokenID
	tokens   []Token
	tokenMap map[string]TokenID
}

// Compile builds a Grammar from raw JSON bytes in the original's two-pass
// scheme: first allocate a NonTerminal token per JSON key, then build
// OrderedExpansion tokens for each expansion, resolving references to
// already-known non-terminals versus fresh terminal byte strings.
func Compile(rawJSON []byte) (*Grammar, error) {
	var sjg serializedGrammar
	if err := json.Unmarshal(rawJSON, &sjg); err != nil {
		return nil, ferrors.Wrap(ferrors.KindConversion, err)
	}

	g := &Grammar{tokenMap: make(map[string]TokenID)}

	// Iterate in sorted key order rather than Go's randomized map order, so
	// token identifiers (and therefore generation behavior for a fixed
	// PRNG seed) are deterministic across runs — mirroring the effect of
	// the original's BTreeMap-backed SerializedJsonGrammar.
	names := make([]string, 0, len(sjg))
	for nonTerm := range sjg {
		names = append(names, nonTerm)
	}
	sort.Strings(names)

	for _, nonTerm := range names {
		id := g.allocateToken(Token{Kind: KindNonTerminal})
		g.tokenMap[nonTerm] = id
	}

	for _, nonTerm := range names {
		expansions := sjg[nonTerm]
		tokenID := g.tokenMap[nonTerm]
		var ordered []TokenID
		for _, expansion := range expansions {
			var expansionTokens []TokenID
			for _, piece := range expansion {
				if refID, ok := g.tokenMap[piece]; ok {
					expansionTokens = append(expansionTokens, g.allocateToken(Token{
						Kind:     KindNonTerminal,
						Children: []TokenID{refID},
					}))
				} else {
					expansionTokens = append(expansionTokens, g.allocateToken(Token{
						Kind:    KindTerminal,
						Literal: []byte(piece),
					}))
				}
			}
			ordered = append(ordered, g.allocateToken(Token{
				Kind:     KindOrderedExpansion,
				Children: expansionTokens,
			}))
		}
		g.tokens[tokenID].Children = ordered
	}

	startID, ok := g.tokenMap["<start>"]
	if !ok {
		return nil, ferrors.New("grammar has no <start> non-terminal")
	}
	g.Start = &startID

	g.optimize()
	return g, nil
}

func (g *Grammar) allocateToken(t Token) TokenID {
	id := TokenID(len(g.tokens))
	g.tokens = append(g.tokens, t)
	return id
}

// optimize repeatedly simplifies the token list to a fixed point: a
// single-option NonTerminal is inlined to its option; an empty
// OrderedExpansion collapses to Nop; a single-child OrderedExpansion is
// inlined to its child; Nop children are dropped from any OrderedExpansion.
func (g *Grammar) optimize() {
	nopTokens := make(map[TokenID]bool)
	changed := true
	for changed {
		changed = false
		for idx := range g.tokens {
			id := TokenID(idx)
			switch g.tokens[idx].Kind {
			case KindNonTerminal:
				options := g.tokens[idx].Children
				if len(options) == 1 {
					g.tokens[idx] = g.tokens[options[0]]
					changed = true
				}
			case KindOrderedExpansion:
				expansions := g.tokens[idx].Children
				if len(expansions) == 0 {
					g.tokens[idx] = Token{Kind: KindNop}
					nopTokens[id] = true
					changed = true
					continue
				}
				if len(expansions) == 1 {
					g.tokens[idx] = g.tokens[expansions[0]]
					changed = true
					continue
				}
				filtered := expansions[:0:0]
				for _, child := range expansions {
					if nopTokens[child] {
						changed = true
						continue
					}
					filtered = append(filtered, child)
				}
				g.tokens[idx].Children = filtered
			case KindTerminal, KindNop:
			}
		}
	}
}

func (g *Grammar) token(id TokenID) *Token {
	return &g.tokens[id]
}

// maxDepth caps recursion as specified in the original's F1-paper-derived
// generate(): beyond this depth, generation silently stops rather than
// risking unbounded recursion on a cyclic or deeply nested grammar.
const maxDepth = 128

// Generate recursively expands token id into out, using prng to resolve
// NonTerminal choices.
func (g *Grammar) Generate(depth int, id TokenID, r *prng.Rng, out *[]byte) {
	if depth > maxDepth {
		return
	}
	tok := g.token(id)
	switch tok.Kind {
	case KindTerminal:
		*out = append(*out, tok.Literal...)
	case KindNonTerminal:
		option := prng.Pick(r, tok.Children)
		g.Generate(depth+1, option, r, out)
	case KindOrderedExpansion:
		for _, child := range tok.Children {
			g.Generate(depth+1, child, r, out)
		}
	case KindNop:
	}
}

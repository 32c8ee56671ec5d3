package cst

import (
	"sort"
	"strings"

	"github.com/talav/ccdd/ctok"
)

// builder drives the recursive descent described in §4.D over a single,
// shared token slice. Nodes recursed into are appended to the same flat
// out slice regardless of nesting depth (nesting is reconstructed by
// consumers from token ranges, not from tree shape).
type builder struct {
	tokens []ctok.Token
	out    []Node
}

// Build constructs the CST for the full token stream produced by
// ctok.Tokenize, excluding the trailing EOF sentinel from the scanned
// range. Build never fails: unrecognized input is absorbed into Other
// nodes (§4.D "Failure semantics").
func Build(tokens []ctok.Token) []Node {
	end := len(tokens)
	if end > 0 && tokens[end-1].Kind == ctok.EOF {
		end--
	}

	b := &builder{tokens: tokens}
	b.parseRange(0, end)

	// Nodes are appended as recursion unwinds, so an enclosing node (e.g.
	// a Struct) lands after the children parsed from its body. Re-sort by
	// starting token so node order matches byte order (§5 "CST node order
	// equals the order of first byte of each node").
	sort.SliceStable(b.out, func(i, j int) bool {
		return b.out[i].StartTok < b.out[j].StartTok
	})

	return b.out
}

func (b *builder) emit(kind Kind, start, end int) {
	node := Node{
		Kind:     kind,
		StartTok: uint32(start),
		EndTok:   uint32(end),
	}
	if start < end {
		node.ByteStart = b.tokens[start].Span.Start()
		node.ByteLen = b.tokens[end-1].Span.End() - node.ByteStart
	} else if start < len(b.tokens) {
		node.ByteStart = b.tokens[start].Span.Start()
	}

	b.out = append(b.out, node)
}

func (b *builder) kindAt(i int) ctok.Kind {
	if i < 0 || i >= len(b.tokens) {
		return ctok.EOF
	}

	return b.tokens[i].Kind
}

func isTrivia(k ctok.Kind) bool {
	switch k {
	case ctok.Whitespace, ctok.CComment, ctok.CppComment:
		return true
	default:
		return false
	}
}

// skipTrivia advances past whitespace and comment tokens.
func (b *builder) skipTrivia(pos, end int) int {
	for pos < end && isTrivia(b.kindAt(pos)) {
		pos++
	}

	return pos
}

// skipWhitespace advances past whitespace tokens only, leaving comments in
// place so the top-level dispatcher can recognize them (§4.D step 7).
func (b *builder) skipWhitespace(pos, end int) int {
	for pos < end && b.kindAt(pos) == ctok.Whitespace {
		pos++
	}

	return pos
}

// lastSignificant returns the index of the nearest non-trivia token at or
// before pos-1, or -1 if none exists.
func (b *builder) lastSignificant(pos int) int {
	i := pos - 1
	for i >= 0 && isTrivia(b.kindAt(i)) {
		i--
	}

	return i
}

// scanBalanced returns the index of the token matching the opener at
// openIdx (which must hold openKind), or -1 if end is reached first.
func (b *builder) scanBalanced(openIdx, end int, openKind, closeKind ctok.Kind) int {
	depth := 0
	for i := openIdx; i < end; i++ {
		switch b.kindAt(i) {
		case openKind:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// matchingOpenParen scans backward from a known RParen index to find its
// LParen, for the expression-brace predicate's "preceded by if/while/for/
// switch" check.
func (b *builder) matchingOpenParen(closeIdx int) int {
	depth := 1
	for i := closeIdx - 1; i >= 0; i-- {
		switch b.kindAt(i) {
		case ctok.RParen:
			depth++
		case ctok.LParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// isExpressionBrace implements §4.D's expression-brace predicate: the
// token at braceIdx opens an initializer list or statement-expression,
// not a block, based on the most recent non-trivia token before it.
func (b *builder) isExpressionBrace(braceIdx int) bool {
	prev := b.lastSignificant(braceIdx)
	if prev < 0 {
		return false
	}

	switch b.kindAt(prev) {
	case ctok.Assign, ctok.Comma, ctok.KwReturn, ctok.LSquare, ctok.Colon:
		return true
	case ctok.RParen:
		open := b.matchingOpenParen(prev)
		if open < 0 {
			return false
		}

		before := b.lastSignificant(open)
		switch b.kindAt(before) {
		case ctok.KwIf, ctok.KwWhile, ctok.KwFor, ctok.KwSwitch:
			return false
		default:
			return true
		}
	default:
		return false
	}
}

func isStructEnumUnionKw(k ctok.Kind) bool {
	return k == ctok.KwStruct || k == ctok.KwEnum || k == ctok.KwUnion
}

func structEnumUnionKind(k ctok.Kind) Kind {
	switch k {
	case ctok.KwStruct:
		return Struct
	case ctok.KwEnum:
		return Enum
	default:
		return Union
	}
}

// parseRange drives the dispatch loop of §4.D over the half-open token
// range [start, end), appending nodes to b.out. It always leaves pos == end
// on return: every branch either advances pos or falls through to a branch
// that does.
func (b *builder) parseRange(start, end int) {
	pos := start
	for pos < end {
		pos = b.skipWhitespace(pos, end)
		if pos >= end {
			break
		}

		switch {
		case b.atAttributeOpen(pos, end):
			pos = b.parseAttribute(pos, end)
			continue

		case b.kindAt(pos) == ctok.KwUnderscoreStaticAssert || b.kindAt(pos) == ctok.KwStaticAssert:
			pos = b.parseStaticAssert(pos, end)
			continue

		case b.kindAt(pos) == ctok.KwUnderscoreGeneric:
			pos = b.parseGenericSelection(pos, end)
			continue
		}

		if b.atFunctionStart(pos, end) {
			if newPos, ok := b.tryParseFunction(pos, end); ok {
				pos = newPos

				continue
			}
		}

		switch {
		case isStructEnumUnionKw(b.kindAt(pos)) && !b.inCastPosition(pos):
			pos = b.parseStructEnumUnion(pos, end)

		case b.kindAt(pos) == ctok.CComment || b.kindAt(pos) == ctok.CppComment:
			b.emit(Comment, pos, pos+1)
			pos++

		case b.kindAt(pos) == ctok.Macro:
			b.emit(Macro, pos, pos+1)
			pos++

		case b.kindAt(pos) == ctok.Hash:
			pos = b.parseHashRun(pos, end)

		default:
			pos = b.parseOther(pos, end)
		}
	}
}

func (b *builder) atAttributeOpen(pos, end int) bool {
	if b.kindAt(pos) != ctok.LSquare {
		return false
	}

	next := b.skipTrivia(pos+1, end)

	return next < end && b.kindAt(next) == ctok.LSquare
}

// parseAttribute consumes a balanced `[[ ... ]]` pair (§4.D step 2).
func (b *builder) parseAttribute(pos, end int) int {
	close := b.scanBalanced(pos, end, ctok.LSquare, ctok.RSquare)
	if close < 0 {
		b.emit(Attribute, pos, end)

		return end
	}

	b.emit(Attribute, pos, close+1)

	return close + 1
}

// parseStaticAssert consumes `static_assert`/`_Static_assert` `(...)` `;`
// (§4.D step 3).
func (b *builder) parseStaticAssert(pos, end int) int {
	paren := b.skipTrivia(pos+1, end)
	if paren >= end || b.kindAt(paren) != ctok.LParen {
		b.emit(StaticAssert, pos, pos+1)

		return pos + 1
	}

	close := b.scanBalanced(paren, end, ctok.LParen, ctok.RParen)
	if close < 0 {
		b.emit(StaticAssert, pos, end)

		return end
	}

	stop := close + 1
	semi := b.skipTrivia(stop, end)
	if semi < end && b.kindAt(semi) == ctok.Semicolon {
		stop = semi + 1
	}

	b.emit(StaticAssert, pos, stop)

	return stop
}

// parseGenericSelection consumes `_Generic` followed by its parenthesized
// group (§4.D step 4).
func (b *builder) parseGenericSelection(pos, end int) int {
	paren := b.skipTrivia(pos+1, end)
	if paren >= end || b.kindAt(paren) != ctok.LParen {
		b.emit(GenericSelection, pos, pos+1)

		return pos + 1
	}

	close := b.scanBalanced(paren, end, ctok.LParen, ctok.RParen)
	if close < 0 {
		b.emit(GenericSelection, pos, end)

		return end
	}

	b.emit(GenericSelection, pos, close+1)

	return close + 1
}

// atFunctionStart reports whether pos begins a run eligible for the
// function-definition heuristic: a type-introducer keyword, an
// identifier, or a `*` pointer prefix (§4.D step 5).
func (b *builder) atFunctionStart(pos, end int) bool {
	k := b.kindAt(pos)

	return ctok.IsTypeIntroducer(k)
}

// inCastPosition reports whether the struct/enum/union keyword at pos is
// immediately preceded (modulo trivia) by `(`, indicating a cast or
// compound-literal type name rather than a declaration (§4.D step 6).
func (b *builder) inCastPosition(pos int) bool {
	prev := b.lastSignificant(pos)

	return prev >= 0 && b.kindAt(prev) == ctok.LParen
}

// tryParseFunction implements §4.D step 5: scan forward for a balanced
// `(...)` followed by `{`; on success the whole declarator-through-body
// range is emitted as Function. Returns ok=false (and leaves pos
// untouched) when no such shape is found, so the caller can fall back to
// statement grouping.
func (b *builder) tryParseFunction(start, end int) (int, bool) {
	for i := start; i < end; i++ {
		switch b.kindAt(i) {
		case ctok.Semicolon, ctok.Assign, ctok.LBrace:
			return 0, false

		case ctok.LParen:
			paramsClose := b.scanBalanced(i, end, ctok.LParen, ctok.RParen)
			if paramsClose < 0 {
				return 0, false
			}

			brace := b.skipTrivia(paramsClose+1, end)
			if brace >= end || b.kindAt(brace) != ctok.LBrace {
				return 0, false
			}

			bodyClose := b.scanBalanced(brace, end, ctok.LBrace, ctok.RBrace)
			if bodyClose < 0 {
				b.emit(Function, start, end)

				return end, true
			}

			b.emit(Function, start, bodyClose+1)

			return bodyClose + 1, true
		}
	}

	return 0, false
}

// parseStructEnumUnion implements §4.D step 6.
func (b *builder) parseStructEnumUnion(pos, end int) int {
	kw := b.kindAt(pos)
	nodeKind := structEnumUnionKind(kw)

	i := b.skipTrivia(pos+1, end)
	if i < end && b.kindAt(i) == ctok.Identifier {
		i = b.skipTrivia(i+1, end)
	}

	for i < end {
		switch b.kindAt(i) {
		case ctok.Semicolon:
			b.emit(nodeKind, pos, i+1)

			return i + 1

		case ctok.LBrace:
			bodyClose := b.scanBalanced(i, end, ctok.LBrace, ctok.RBrace)
			if bodyClose < 0 {
				b.parseRange(i+1, end)
				b.emit(nodeKind, pos, end)

				return end
			}

			b.parseRange(i+1, bodyClose)

			stop := bodyClose + 1
			semi := b.skipTrivia(stop, end)
			if semi < end && b.kindAt(semi) == ctok.Semicolon {
				stop = semi + 1
			}

			b.emit(nodeKind, pos, stop)

			return stop

		default:
			i++
		}
	}

	b.emit(nodeKind, pos, end)

	return end
}

// parseHashRun handles a stray `#` token that the tokenizer did not fold
// into a Macro token (only possible when it was not at line start). It
// consumes through the next newline-bearing whitespace token, matching
// §4.D step 8's fallback wording.
func (b *builder) parseHashRun(pos, end int) int {
	i := pos + 1
	for i < end {
		if b.kindAt(i) == ctok.Whitespace && strings.ContainsRune(b.tokens[i].Span.String(), '\n') {
			i++

			break
		}

		i++
	}

	b.emit(Macro, pos, i)

	return i
}

// parseOther implements §4.D step 9, the statement-grouping fallback. It
// consumes until a terminating `;` (inclusive), a `}` at depth 0
// (exclusive), a fresh block-start keyword or attribute prefix
// (exclusive), emitting a single Other node over the consumed range.
//
// A bare `{` that is not an expression-brace marks a block the dispatcher
// itself must recurse into (there is no outer "caller" in this flattened
// model): when such a brace is the very first token of the run, the whole
// balanced group is consumed and parsed as nested statements so that the
// loop always makes progress; when it appears mid-run, the run stops
// before it and the next dispatch iteration handles it as a fresh start.
func (b *builder) parseOther(start, end int) int {
	if b.kindAt(start) == ctok.LBrace && !b.isExpressionBrace(start) {
		close := b.scanBalanced(start, end, ctok.LBrace, ctok.RBrace)
		if close < 0 {
			b.parseRange(start+1, end)
			b.emit(Other, start, end)

			return end
		}

		b.parseRange(start+1, close)
		b.emit(Other, start, close+1)

		return close + 1
	}

	i := start
	for i < end {
		switch b.kindAt(i) {
		case ctok.Semicolon:
			i++
			b.emit(Other, start, i)

			return i

		case ctok.RBrace:
			if i == start {
				i++

				continue
			}

			b.emit(Other, start, i)

			return i

		case ctok.LBrace:
			if i == start {
				i++

				continue
			}
			if !b.isExpressionBrace(i) {
				b.emit(Other, start, i)

				return i
			}

			close := b.scanBalanced(i, end, ctok.LBrace, ctok.RBrace)
			if close < 0 {
				i = end

				continue
			}

			i = close + 1

		case ctok.LSquare:
			if i > start && b.atAttributeOpen(i, end) {
				b.emit(Other, start, i)

				return i
			}

			i++

		default:
			if i > start && isStructEnumUnionKw(b.kindAt(i)) && !b.inCastPosition(i) {
				b.emit(Other, start, i)

				return i
			}

			i++
		}
	}

	b.emit(Other, start, end)

	return end
}

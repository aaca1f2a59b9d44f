package lexer

// GroupOptions tunes one GroupTokens pass.
type GroupOptions struct {
	// ExcludeEnd leaves the end marker out of the merged token.
	ExcludeEnd bool
	// CollapseSpace drops whitespace-only tokens between the markers.
	CollapseSpace bool
	// Escape, when set, is a token that cancels an end marker directly after
	// an odd-length run of it.
	Escape Token
	// EndAtEOF lets an unterminated span run to the end of input.
	EndAtEOF bool
}

func hasPrefixAt(tokens []Token, at int, marker []Token) bool {
	if len(marker) == 0 || at+len(marker) > len(tokens) {
		return false
	}
	for k, m := range marker {
		if tokens[at+k] != m {
			return false
		}
	}
	return true
}

// escaped reports whether the token at pos follows an odd run of escape
// tokens that starts no earlier than floor.
func escaped(tokens []Token, pos, floor int, escape Token) bool {
	if escape == "" {
		return false
	}
	run := 0
	for k := pos - 1; k >= floor && tokens[k] == escape; k-- {
		run++
	}
	return run%2 == 1
}

// GroupTokens merges every span that begins with start and ends with the
// nearest following end into a single token. A start marker with no end
// before the input runs out is emitted as a lone token and scanning resumes
// with the token after it.
func GroupTokens(tokens []Token, start, end []Token, opts GroupOptions) []Token {
	out := make([]Token, 0, len(tokens))
	noEndFrom := len(tokens) + 1

	for i := 0; i < len(tokens); {
		next := i + 1
		if hasPrefixAt(tokens, i, start) && i < noEndFrom {
			bodyStart := i + len(start)
			found := -1
			for p := bodyStart; p+len(end) <= len(tokens); p++ {
				if hasPrefixAt(tokens, p, end) && !escaped(tokens, p, bodyStart, opts.Escape) {
					found = p
					break
				}
			}

			switch {
			case found >= 0:
				next = found
				if !opts.ExcludeEnd {
					next = found + len(end)
				}
				out = append(out, mergeSpan(tokens[i:next], len(start), found-i, opts.CollapseSpace))
				i = next
				continue
			case opts.EndAtEOF:
				out = append(out, mergeSpan(tokens[i:], len(start), len(tokens)-i, opts.CollapseSpace))
				return out
			case opts.Escape == "":
				noEndFrom = i
			}
		}
		out = append(out, tokens[i])
		i = next
	}
	return out
}

// mergeSpan joins span into one token. With collapse set, whitespace tokens
// in span[bodyStart:bodyEnd] are dropped; the markers are always kept.
func mergeSpan(span []Token, bodyStart, bodyEnd int, collapse bool) Token {
	if !collapse {
		return Token(Join(span))
	}
	kept := make([]Token, 0, len(span))
	for k, t := range span {
		if k >= bodyStart && k < bodyEnd && t.IsSpace() {
			continue
		}
		kept = append(kept, t)
	}
	return Token(Join(kept))
}

// Marker spellings used by Group.
var (
	quoteMarker       = FromStrings(`"`)
	charMarker        = FromStrings(`'`)
	blockCommentStart = FromStrings("/", "*")
	blockCommentEnd   = FromStrings("*", "/")
	attributeStart    = FromStrings("[", "[")
	attributeEnd      = FromStrings("]", "]")
	includeStart      = FromStrings("#", "include")
	newlineMarker     = FromStrings("\n")
	lineCommentStart  = FromStrings("/", "/")
	deletionRegionEnd = FromStrings("#", "endif")
	backslash         = Token(`\`)
)

// DeletionRegionStart is the start marker of a region removed from the
// minified output, e.g. "#ifndef MINIFIED".
func DeletionRegionStart(guard string) []Token {
	return FromStrings("#", "ifndef", " ", guard)
}

// Group applies every literal-region pass in the order that keeps each pass
// from consuming markers a later pass needs.
func Group(tokens []Token, guard string) []Token {
	tokens = GroupTokens(tokens, quoteMarker, quoteMarker, GroupOptions{Escape: backslash})
	tokens = GroupTokens(tokens, blockCommentStart, blockCommentEnd, GroupOptions{})
	tokens = GroupTokens(tokens, attributeStart, attributeEnd, GroupOptions{})
	tokens = GroupTokens(tokens, includeStart, newlineMarker, GroupOptions{CollapseSpace: true})
	tokens = GroupTokens(tokens, DeletionRegionStart(guard), deletionRegionEnd, GroupOptions{})
	tokens = GroupTokens(tokens, lineCommentStart, newlineMarker, GroupOptions{ExcludeEnd: true, EndAtEOF: true})
	tokens = GroupTokens(tokens, charMarker, charMarker, GroupOptions{Escape: backslash})
	return tokens
}

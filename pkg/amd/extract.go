package amd

import "strings"

// Extract statically collects the dependency specifiers a module's source
// requests, in source-declared order. Recognized forms:
//
//	define(["a", "b"], factory)
//	define("name", ["a", "b"], factory)
//	require(["a", "b"], callback)   // also requirejs([...])
//	require("a")                    // CommonJS sugar inside a factory
//
// Comments, string literals, template literals, and regex literals are
// skipped, so specifiers inside them are not reported. The pseudo-modules
// require, exports and module are never reported. Duplicates are preserved.
//
// The scanner is best-effort: malformed source yields whatever could be
// recognized, never an error. The error return exists for the extractor
// contract; this implementation always returns nil.
func Extract(src []byte) ([]string, error) {
	lx := &lexer{src: src}
	var deps []string
	var prev token
	for {
		tok := lx.next()
		if tok.kind == tokEOF {
			break
		}
		if tok.kind == tokIdent && !isPunct(prev, ".") {
			switch tok.text {
			case "define":
				deps = append(deps, scanDefine(lx)...)
			case "require", "requirejs":
				deps = append(deps, scanRequire(lx)...)
			}
		}
		prev = tok
	}
	return deps, nil
}

// scanDefine consumes a define(...) call head and returns its declared
// dependencies. The factory-only form declares none here; its require("x")
// calls are picked up by the main scan.
func scanDefine(lx *lexer) []string {
	if !isPunct(lx.next(), "(") {
		return nil
	}
	tok := lx.next()
	if tok.kind == tokString { // named module: define("id", ...)
		if !isPunct(lx.next(), ",") {
			return nil
		}
		tok = lx.next()
	}
	if isPunct(tok, "[") {
		return scanDepArray(lx)
	}
	return nil
}

// scanRequire consumes a require(...) call head. Both the async array form
// and the single-string CommonJS sugar form declare dependencies.
func scanRequire(lx *lexer) []string {
	if !isPunct(lx.next(), "(") {
		return nil
	}
	tok := lx.next()
	if isPunct(tok, "[") {
		return scanDepArray(lx)
	}
	if tok.kind == tokString {
		if isPunct(lx.next(), ")") && !IsPseudo(tok.text) {
			return []string{tok.text}
		}
	}
	return nil
}

// scanDepArray collects string literals until the matching "]".
func scanDepArray(lx *lexer) []string {
	var deps []string
	depth := 1
	for depth > 0 {
		tok := lx.next()
		switch {
		case tok.kind == tokEOF:
			return deps
		case tok.kind == tokString && depth == 1:
			if !IsPseudo(tok.text) {
				deps = append(deps, tok.text)
			}
		case isPunct(tok, "["):
			depth++
		case isPunct(tok, "]"):
			depth--
		}
	}
	return deps
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokPunct
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

func isPunct(tok token, text string) bool {
	return tok.kind == tokPunct && tok.text == text
}

// lexer yields significant JavaScript tokens, skipping whitespace, comments
// and regex literals. It keeps just enough state to tell a regex literal
// from a division operator.
type lexer struct {
	src      []byte
	pos      int
	lastKind tokenKind
	lastText string
}

func (l *lexer) next() token {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			l.skipLineComment()
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.skipBlockComment()
		case c == '\'' || c == '"':
			return l.emit(token{kind: tokString, text: l.scanString(c)})
		case c == '`':
			l.skipTemplate()
			return l.emit(token{kind: tokOther, text: "`"})
		case c == '/':
			if l.regexAllowed() {
				l.skipRegex()
				continue
			}
			l.pos++
			return l.emit(token{kind: tokOther, text: "/"})
		case isIdentStart(c):
			return l.emit(token{kind: tokIdent, text: l.scanIdent()})
		case c >= '0' && c <= '9':
			return l.emit(token{kind: tokOther, text: l.scanNumber()})
		default:
			l.pos++
			return l.emit(token{kind: tokPunct, text: string(c)})
		}
	}
	return token{kind: tokEOF}
}

func (l *lexer) emit(tok token) token {
	l.lastKind = tok.kind
	l.lastText = tok.text
	return tok
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() {
	l.pos += 2
	for l.pos+1 < len(l.src) {
		if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.src)
}

// scanString returns the literal's content with common escapes resolved.
func (l *lexer) scanString(quote byte) string {
	l.pos++
	start := l.pos
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' {
			escaped = true
			l.skipEscape()
			continue
		}
		if c == quote {
			raw := l.src[start:l.pos]
			l.pos++
			if !escaped {
				return string(raw)
			}
			return unescape(raw)
		}
		if c == '\n' { // unterminated
			break
		}
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func unescape(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
		}
		sb.WriteByte(raw[i])
	}
	return sb.String()
}

// skipEscape advances past a backslash escape, clamped at end of source.
func (l *lexer) skipEscape() {
	l.pos += 2
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
}

// skipTemplate advances past a template literal. Interpolations are not
// tracked; a backtick inside ${...} ends the scan early.
func (l *lexer) skipTemplate() {
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.skipEscape()
		case '`':
			l.pos++
			return
		default:
			l.pos++
		}
	}
}

// regexAllowed reports whether a "/" at the current position starts a regex
// literal rather than a division, judged by the preceding token.
func (l *lexer) regexAllowed() bool {
	switch l.lastKind {
	case tokEOF:
		return true
	case tokString:
		return false
	case tokIdent:
		switch l.lastText {
		case "return", "typeof", "instanceof", "in", "of", "new",
			"delete", "void", "case", "do", "else":
			return true
		}
		return false
	case tokPunct, tokOther:
		if l.lastText == ")" || l.lastText == "]" {
			return false
		}
		if len(l.lastText) > 0 && l.lastText[0] >= '0' && l.lastText[0] <= '9' {
			return false
		}
		return true
	}
	return true
}

func (l *lexer) skipRegex() {
	l.pos++
	inClass := false
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.skipEscape()
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				l.pos++
				return
			}
		case '\n': // unterminated
			return
		}
		l.pos++
	}
}

func (l *lexer) scanIdent() string {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func (l *lexer) scanNumber() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'x' || c == 'X' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			l.pos++
			continue
		}
		break
	}
	return string(l.src[start:l.pos])
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

package matheval

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a number, including inf and nan.
	tokenNum
	// tokenIdent is a variable, constant, or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a function argument separator.
	tokenSep
)

var tokenkindnames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenIdent: "Ident",
	tokenOp:    "Op",
	tokenOpen:  "Open",
	tokenClose: "Close",
	tokenSep:   "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenkindnames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenkindnames[k]
}

// Operators lists the operator tokens.
var Operators = []string{
	"+", "-", "!",
	"**", "*", "/", "%",
	"<", "<=", ">", ">=",
	"==", "!=",
	"&&", "||",
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("matheval: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("matheval: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peek reports whether the next rune is want, consuming it if so.
func (l *lexer) peek(want rune) (bool, error) {
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	if r != want {
		l.unreadRune()
		return false, nil
	}
	return true, nil
}

// next scans the next token from the input. The first time EOF is
// encountered, the result is an EOF token with a nil error. Subsequent
// times, if the EOF token is not pushed, the result is an empty token with
// io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(tok.pos); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			// inf and nan look like identifiers, so check for them here.
			switch strings.ToLower(tok.text) {
			case "inf", "infinity", "nan":
				tok.kind = tokenNum
			default:
				tok.kind = tokenIdent
			}
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '+', r == '-', r == '/', r == '%':
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		case r == '*', r == '<', r == '>', r == '!', r == '=', r == '&', r == '|':
			// Two-rune operators. The second rune is * for ** and = for the
			// comparisons; && and || double their first rune.
			second := '='
			switch r {
			case '*', '&', '|':
				second = r
			}
			ok, err := l.peek(second)
			if err != nil {
				return tok, err
			}
			if ok {
				tok.text = string(r) + string(second)
				tok.kind = tokenOp
				return tok, nil
			}
			switch r {
			case '=', '&', '|':
				// Only valid doubled.
				l.buf.WriteRune(r)
				return tok, l.error(tok.pos, "operator")
			}
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error(tok.pos, "")
		}
	}
}

// scanNum scans a number token that starts at column start.
func (l *lexer) scanNum(start int) error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if r != '.' && r != 'e' && r != 'E' && !('0' <= r && r <= '9') {
			if unicode.IsLetter(r) || r == '_' {
				// 2x is neither a number nor an implicit multiplication.
				l.buf.WriteRune(r)
				return l.error(start, "number")
			}
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error(start, "number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error(start, "number")
			}
			e = true
			le = true
		default:
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		}
	}
	if (!dig && !ed) || (e && !ed) {
		return l.error(start, "number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// error creates a ParseError for an invalid token starting at col.
func (l *lexer) error(col int, kind string) error {
	want := "valid token"
	if kind != "" {
		want = "valid " + kind
	}
	return &ParseError{
		Col:  col,
		Want: want,
		Got:  l.buf.String(),
	}
}

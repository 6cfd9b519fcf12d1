package matheval

import (
	"io"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, 0},
		{"1E1", []lexToken{{text: "1E1", kind: tokenNum, pos: 1}}, 0},
		{"1e", []lexToken{{pos: 1}}, 1},
		{"1e+", []lexToken{{pos: 1}}, 1},
		{"1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}, 0},
		{"1e-1", []lexToken{{text: "1e-1", kind: tokenNum, pos: 1}}, 0},
		{"1.1.1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 5}}, 1},
		{"1.0e1", []lexToken{{text: "1.0e1", kind: tokenNum, pos: 1}}, 0},
		{"1.", []lexToken{{text: "1.", kind: tokenNum, pos: 1}}, 0},
		{".", []lexToken{{pos: 1}}, 1},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{".1e1", []lexToken{{text: ".1e1", kind: tokenNum, pos: 1}}, 0},
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1e1+0", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 4}, {text: "0", kind: tokenNum, pos: 5}}, 0},
		{"(1)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ")", kind: tokenClose, pos: 3}}, 0},
		{"1a", []lexToken{{pos: 1}}, 1},
		{"2x", []lexToken{{pos: 1}}, 1},
		{"inf", []lexToken{{text: "inf", kind: tokenNum, pos: 1}}, 0},
		{"Infinity", []lexToken{{text: "Infinity", kind: tokenNum, pos: 1}}, 0},
		{"NaN", []lexToken{{text: "NaN", kind: tokenNum, pos: 1}}, 0},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, 0},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, 0},
		{"x_1", []lexToken{{text: "x_1", kind: tokenIdent, pos: 1}}, 0},
		{"nan1", []lexToken{{text: "nan1", kind: tokenIdent, pos: 1}}, 0},
		{"infs", []lexToken{{text: "infs", kind: tokenIdent, pos: 1}}, 0},
		{"e(", []lexToken{{text: "e", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}}, 0},
		{"  x", []lexToken{{text: "x", kind: tokenIdent, pos: 3}}, 0},
		{"_a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"π", []lexToken{{pos: 1}}, 1},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, 0},
		{"++", []lexToken{{text: "+", kind: tokenOp, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{"**", []lexToken{{text: "**", kind: tokenOp, pos: 1}}, 0},
		{"***", []lexToken{{text: "**", kind: tokenOp, pos: 1}, {text: "*", kind: tokenOp, pos: 3}}, 0},
		{"* *", []lexToken{{text: "*", kind: tokenOp, pos: 1}, {text: "*", kind: tokenOp, pos: 3}}, 0},
		{"<=", []lexToken{{text: "<=", kind: tokenOp, pos: 1}}, 0},
		{">=", []lexToken{{text: ">=", kind: tokenOp, pos: 1}}, 0},
		{"<>", []lexToken{{text: "<", kind: tokenOp, pos: 1}, {text: ">", kind: tokenOp, pos: 2}}, 0},
		{"==", []lexToken{{text: "==", kind: tokenOp, pos: 1}}, 0},
		{"!=", []lexToken{{text: "!=", kind: tokenOp, pos: 1}}, 0},
		{"!!", []lexToken{{text: "!", kind: tokenOp, pos: 1}, {text: "!", kind: tokenOp, pos: 2}}, 0},
		{"&&", []lexToken{{text: "&&", kind: tokenOp, pos: 1}}, 0},
		{"||", []lexToken{{text: "||", kind: tokenOp, pos: 1}}, 0},
		{"=", []lexToken{{pos: 1}}, 1},
		{"&", []lexToken{{pos: 1}}, 1},
		{"|", []lexToken{{pos: 1}}, 1},
		{"a=b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}, {text: "b", kind: tokenIdent, pos: 3}}, 1},
		{"< =", []lexToken{{text: "<", kind: tokenOp, pos: 1}, {pos: 3}}, 1},
		// separators
		{"f(x, y)", []lexToken{
			{text: "f", kind: tokenIdent, pos: 1},
			{text: "(", kind: tokenOpen, pos: 2},
			{text: "x", kind: tokenIdent, pos: 3},
			{text: ",", kind: tokenSep, pos: 4},
			{text: "y", kind: tokenIdent, pos: 6},
			{text: ")", kind: tokenClose, pos: 7},
		}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"0$", []lexToken{{text: "0", kind: tokenNum, pos: 1}, {pos: 2}}, 1},
		{"$0", []lexToken{{pos: 1}, {text: "0", kind: tokenNum, pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
		{"[1]", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {pos: 3}}, 2},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if err == io.EOF || got.kind == tokenEOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		for got, err := scan.next(); err != io.EOF; got, err = scan.next() {
			if got.kind == tokenEOF && err == nil {
				continue
			}
			t.Errorf("scanning %q: extra token %v (error: %v)", c.src, got, err)
		}
		if c.errs != 0 {
			t.Errorf("scanning %q: %d fewer errors than expected", c.src, c.errs)
		}
	}
}

func TestLexErrorPos(t *testing.T) {
	cases := []struct {
		src string
		pos int
		got string
	}{
		{"$", 1, "$"},
		{"  #", 3, "#"},
		{"1.2.3", 1, "1.2."},
		{"x + 2y", 5, "2y"},
		{"a = b", 3, "="},
	}
	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if tok.kind == tokenEOF {
				t.Fatalf("scanning %q: no error", c.src)
			}
		}
		perr, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("scanning %q: wrong error type %T", c.src, err)
		}
		if perr.Pos() != c.pos {
			t.Errorf("scanning %q: wrong pos: want %d, got %d", c.src, c.pos, perr.Pos())
		}
		if perr.Got != c.got {
			t.Errorf("scanning %q: wrong token text: want %q, got %q", c.src, c.got, perr.Got)
		}
	}
}

func TestPushPop(t *testing.T) {
	scan := lex(strings.NewReader("a b"))
	tok, err := scan.next()
	if err != nil {
		t.Fatal(err)
	}
	scan.push(tok)
	if got := scan.must(); got != tok {
		t.Errorf("must gave %v, pushed %v", got, tok)
	}
	scan.push(tok)
	if got, err := scan.next(); got != tok || err != nil {
		t.Errorf("next after push gave %v, %v; pushed %v", got, err, tok)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("must without push did not panic")
			}
		}()
		scan.must()
	}()
	func() {
		defer func() {
			if recover() == nil {
				t.Error("double push did not panic")
			}
		}()
		scan.push(tok)
		scan.push(tok)
	}()
}

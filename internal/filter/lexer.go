package filter

import "strings"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokEq
	tokNe
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokIdent:
		return "column name"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokEq:
		return "'=='"
	case tokNe:
		return "'!='"
	case tokAnd:
		return "'and'"
	case tokOr:
		return "'or'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits src into tokens. Column names are identifiers made of letters,
// digits, '_' and '.', or any text wrapped in backticks.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == '&':
			n := 1
			if strings.HasPrefix(src[i:], "&&") {
				n = 2
			}
			toks = append(toks, token{tokAnd, src[i : i+n], i})
			i += n
		case c == '|':
			n := 1
			if strings.HasPrefix(src[i:], "||") {
				n = 2
			}
			toks = append(toks, token{tokOr, src[i : i+n], i})
			i += n
		case c == '=':
			if !strings.HasPrefix(src[i:], "==") {
				return nil, &SyntaxError{Pos: i, Msg: "use '==' for comparison"}
			}
			toks = append(toks, token{tokEq, "==", i})
			i += 2
		case c == '!':
			if !strings.HasPrefix(src[i:], "!=") {
				return nil, &SyntaxError{Pos: i, Msg: "unexpected '!'"}
			}
			toks = append(toks, token{tokNe, "!=", i})
			i += 2
		case c == '"' || c == '\'':
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				return nil, &SyntaxError{Pos: i, Msg: "unterminated string"}
			}
			toks = append(toks, token{tokString, src[i+1 : i+1+end], i})
			i += end + 2
		case c == '`':
			end := strings.IndexByte(src[i+1:], '`')
			if end < 0 {
				return nil, &SyntaxError{Pos: i, Msg: "unterminated quoted column name"}
			}
			toks = append(toks, token{tokIdent, src[i+1 : i+1+end], i})
			i += end + 2
		case isDigit(c) || ((c == '-' || c == '.') && i+1 < len(src) && isDigit(src[i+1])):
			j := i + 1
			for j < len(src) && (isDigit(src[j]) || src[j] == '.' || src[j] == 'e' || src[j] == 'E' ||
				((src[j] == '-' || src[j] == '+') && (src[j-1] == 'e' || src[j-1] == 'E'))) {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j], i})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			switch strings.ToLower(word) {
			case "and":
				toks = append(toks, token{tokAnd, word, i})
			case "or":
				toks = append(toks, token{tokOr, word, i})
			default:
				toks = append(toks, token{tokIdent, word, i})
			}
			i = j
		default:
			return nil, &SyntaxError{Pos: i, Msg: "unexpected character " + string(rune(c))}
		}
	}
	toks = append(toks, token{tokEOF, "", len(src)})
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) || c == '.' }

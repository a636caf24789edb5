package exprschnell

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenOperator
	tokenLParen
	tokenNegParen // unary minus immediately followed by an open parenthesis
	tokenRParen
)

type token struct {
	kind  tokenKind
	value Value
	op    Operator
	pos   int
}

// lexer is a byte cursor over the input. It produces numbers, operators and
// parentheses lazily; whitespace is skipped, anything else is ErrLex.
type lexer struct {
	input string
	pos   int
}

// next returns the next token. expectOperand tells the lexer whether a + or -
// at the cursor may be a unary sign: a sign immediately followed by a digit,
// a dot or an open parenthesis folds into the operand, everything else is a
// binary operator.
func (l *lexer) next(expectOperand bool) (token, error) {
	l.skipSpaces()
	if l.isEnd() {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.peek()

	switch ch {
	case '(':
		l.pos++
		return token{kind: tokenLParen, pos: start}, nil
	case ')':
		l.pos++
		return token{kind: tokenRParen, pos: start}, nil
	case '+', '-':
		if expectOperand && l.pos+1 < len(l.input) {
			next := l.input[l.pos+1]
			if next >= '0' && next <= '9' || next == '.' {
				return l.scanNumber()
			}
			if next == '(' {
				l.pos += 2
				if ch == '-' {
					return token{kind: tokenNegParen, pos: start}, nil
				}
				return token{kind: tokenLParen, pos: start}, nil
			}
		}
		l.pos++
		op, _ := OperatorFromSymbol(string(ch))
		return token{kind: tokenOperator, op: op, pos: start}, nil
	case '*', '/':
		l.pos++
		op, _ := OperatorFromSymbol(string(ch))
		return token{kind: tokenOperator, op: op, pos: start}, nil
	}

	if ch >= '0' && ch <= '9' || ch == '.' {
		return l.scanNumber()
	}

	return token{}, syntaxErr(ErrLex, start, "unexpected character %q", string(ch))
}

// scanNumber consumes [sign] digits [. digits] [e [sign] digits]. The
// exponent is only consumed when digits actually follow, so a trailing "e"
// is left for the next token (and rejected there).
func (l *lexer) scanNumber() (token, error) {
	start := l.pos

	if !l.isEnd() && (l.peek() == '+' || l.peek() == '-') {
		l.pos++
	}
	l.scanDigits()
	if !l.isEnd() && l.peek() == '.' {
		l.pos++
		l.scanDigits()
	}
	if !l.isEnd() && (l.peek() == 'e' || l.peek() == 'E') {
		mark := l.pos
		l.pos++
		if !l.isEnd() && (l.peek() == '+' || l.peek() == '-') {
			l.pos++
		}
		if l.isEnd() || !isDigit(l.peek()) {
			l.pos = mark
		} else {
			l.scanDigits()
		}
	}

	text := l.input[start:l.pos]
	value, err := ParseValue(text)
	if err != nil {
		return token{}, syntaxErr(ErrInvalidOperand, start, "%q is not a number", text)
	}
	return token{kind: tokenNumber, value: value, pos: start}, nil
}

func (l *lexer) scanDigits() {
	for !l.isEnd() && isDigit(l.peek()) {
		l.pos++
	}
}

func (l *lexer) skipSpaces() {
	for !l.isEnd() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) peek() byte {
	return l.input[l.pos]
}

func (l *lexer) isEnd() bool {
	return l.pos >= len(l.input)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

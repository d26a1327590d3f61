package formula

import (
	"fmt"

	"github.com/berejant/sheetengine/coord"
)

// Parser is a recursive-descent parser over the grammar in spec.md §4.3:
//
//	expr    : term     (('+'|'-') term)*
//	term    : factor   (('*'|'/') factor)*
//	factor  : NUM | '-' factor | FN '(' expr (',' expr)* ')'
//	        | REF | '(' expr ')'
//	cellRef : '$'? LETTER '$'? DIGITS
type Parser struct {
	lex  *Lexer
	cur  Token
	base coord.CellId
}

// Parse parses formula into an Ast, with every Ref already normalized
// against baseCellId: absolute axes keep their absolute index, relative
// axes store absoluteIndex - baseAxisIndex. An empty baseCellId normalizes
// relative references against the origin (0,0).
func Parse(formula string, baseCellId coord.CellId) (Ast, error) {
	p := &Parser{lex: NewLexer(formula), base: baseCellId}
	if err := p.advance(); err != nil {
		return nil, err
	}

	node, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != KindEnd {
		return nil, fmt.Errorf("unexpected %q, expected end of formula: %w", p.cur.Lexeme, SyntaxError)
	}

	return node, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) expect(kind Kind, expected string) error {
	if p.cur.Kind != kind {
		return fmt.Errorf("unexpected %q, expected %s: %w", p.cur.Lexeme, expected, SyntaxError)
	}
	return p.advance()
}

// expr : term (('+'|'-') term)*
func (p *Parser) expr() (Ast, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == KindPlus || p.cur.Kind == KindMinus {
		fn := Add
		if p.cur.Kind == KindMinus {
			fn = Sub
		}
		if err = p.advance(); err != nil {
			return nil, err
		}

		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = App{Fn: fn, Kids: []Ast{left, right}}
	}

	return left, nil
}

// term : factor (('*'|'/') factor)*
func (p *Parser) term() (Ast, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == KindStar || p.cur.Kind == KindSlash {
		fn := Mul
		if p.cur.Kind == KindSlash {
			fn = Div
		}
		if err = p.advance(); err != nil {
			return nil, err
		}

		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = App{Fn: fn, Kids: []Ast{left, right}}
	}

	return left, nil
}

// factor : NUM | '-' factor | FN '(' expr (',' expr)* ')' | REF | '(' expr ')'
func (p *Parser) factor() (Ast, error) {
	switch p.cur.Kind {
	case KindNum:
		v := p.cur.NumValue
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Num{Value: v}, nil

	case KindMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return App{Fn: Neg, Kids: []Ast{operand}}, nil

	case KindLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err = p.expect(KindRParen, "')'"); err != nil {
			return nil, err
		}
		return node, nil

	case KindIdent:
		return p.identFactor()

	default:
		return nil, fmt.Errorf("unexpected %q, expected a value: %w", p.cur.Lexeme, SyntaxError)
	}
}

func (p *Parser) identFactor() (Ast, error) {
	lexeme := p.cur.Lexeme

	if lexeme == "min" || lexeme == "max" {
		fn := Min
		if lexeme == "max" {
			fn = Max
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.call(fn)
	}

	ref, err := parseCellRefLexeme(lexeme, p.base)
	if err != nil {
		return nil, err
	}
	if err = p.advance(); err != nil {
		return nil, err
	}
	return Ref{CellRef: ref}, nil
}

// call parses '(' expr (',' expr)* ')' for a variadic function.
func (p *Parser) call(fn FnId) (Ast, error) {
	if err := p.expect(KindLParen, "'('"); err != nil {
		return nil, err
	}

	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	kids := []Ast{first}

	for p.cur.Kind == KindComma {
		if err = p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		kids = append(kids, arg)
	}

	if err = p.expect(KindRParen, "')'"); err != nil {
		return nil, err
	}

	return App{Fn: fn, Kids: kids}, nil
}

// parseCellRefLexeme parses '$'? LETTER '$'? DIGITS and normalizes the
// result against base, per spec.md §4.3.
func parseCellRefLexeme(lexeme string, base coord.CellId) (CellRef, error) {
	i := 0
	colAbs := false
	if i < len(lexeme) && lexeme[i] == '$' {
		colAbs = true
		i++
	}

	if i >= len(lexeme) {
		return CellRef{}, fmt.Errorf("cell reference %q: %w", lexeme, SyntaxError)
	}
	letter := lexeme[i]
	if letter >= 'A' && letter <= 'Z' {
		letter = letter - 'A' + 'a'
	}
	i++

	rowAbs := false
	if i < len(lexeme) && lexeme[i] == '$' {
		rowAbs = true
		i++
	}

	digitsStart := i
	for i < len(lexeme) && lexeme[i] >= '0' && lexeme[i] <= '9' {
		i++
	}
	if digitsStart == i || i != len(lexeme) {
		return CellRef{}, fmt.Errorf("cell reference %q: %w", lexeme, SyntaxError)
	}

	colIndex, err := coord.ColSpecToIndex(letter)
	if err != nil {
		return CellRef{}, err
	}
	rowIndex, err := coord.RowSpecToIndex(lexeme[digitsStart:])
	if err != nil {
		return CellRef{}, err
	}

	baseCol, baseRow := 0, 0
	if base != "" {
		baseCol, baseRow, err = base.Indices()
		if err != nil {
			return CellRef{}, err
		}
	}

	col := Axis{IsAbs: colAbs, Index: colIndex}
	if !colAbs {
		col.Index = colIndex - baseCol
	}
	row := Axis{IsAbs: rowAbs, Index: rowIndex}
	if !rowAbs {
		row.Index = rowIndex - baseRow
	}

	return CellRef{Col: col, Row: row}, nil
}

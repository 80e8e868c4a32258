// Package sqlparse is a small hand-written recursive-descent parser that
// turns SQL text into the sqlast trees consumed by the planner: six
// statement shapes, each with a full And/Or/Not/Cmp condition tree and
// arithmetic expressions in its scalar positions.
package sqlparse

import (
	"fmt"
	"strconv"

	"github.com/tuannm99/slotdb/internal/sqlast"
)

type parser struct {
	lex  *lexer
	cur  token
	peek token
}

// Parse parses a single SQL statement, which must end in ';'.
func Parse(sql string) (sqlast.Statement, error) {
	p := &parser{lex: newLexer(sql)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var (
		stmt sqlast.Statement
		err  error
	)

	switch {
	case p.curIs(tokIdent, "CREATE"):
		stmt, err = p.parseCreateTable()
	case p.curIs(tokIdent, "DROP"):
		stmt, err = p.parseDropTable()
	case p.curIs(tokIdent, "INSERT"):
		stmt, err = p.parseInsert()
	case p.curIs(tokIdent, "SELECT"):
		stmt, err = p.parseSelect()
	case p.curIs(tokIdent, "UPDATE"):
		stmt, err = p.parseUpdate()
	case p.curIs(tokIdent, "DELETE"):
		stmt, err = p.parseDelete()
	default:
		return nil, fmt.Errorf("sqlparse: unrecognized statement starting at %q", p.cur.text)
	}
	if err != nil {
		return nil, err
	}

	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *parser) curIs(kind tokenKind, upper string) bool {
	return p.cur.kind == kind && p.cur.upper() == upper
}

func (p *parser) eatKeyword(upper string) error {
	if !p.curIs(tokIdent, upper) {
		return fmt.Errorf("sqlparse: expected %q, got %q", upper, p.cur.text)
	}
	return p.advance()
}

func (p *parser) expectSymbol(sym string) error {
	if p.cur.kind != tokSymbol || p.cur.text != sym {
		return fmt.Errorf("sqlparse: expected %q, got %q", sym, p.cur.text)
	}
	return p.advance()
}

func (p *parser) expectIdent() (string, error) {
	if p.cur.kind != tokIdent {
		return "", fmt.Errorf("sqlparse: expected identifier, got %q", p.cur.text)
	}
	name := p.cur.text
	return name, p.advance()
}

// ---- statements ----

func (p *parser) parseCreateTable() (*sqlast.CreateTableStmt, error) {
	if err := p.eatKeyword("CREATE"); err != nil {
		return nil, err
	}
	if err := p.eatKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	var cols []sqlast.ColumnDef
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)

		if p.cur.kind == tokSymbol && p.cur.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return &sqlast.CreateTableStmt{Table: table, Columns: cols}, nil
}

func (p *parser) parseColumnDef() (sqlast.ColumnDef, error) {
	name, err := p.expectIdent()
	if err != nil {
		return sqlast.ColumnDef{}, err
	}

	var col sqlast.ColumnDef
	col.Name = name
	col.Nullable = true

	switch {
	case p.curIs(tokIdent, "INT"):
		col.Kind = "INT"
		if err := p.advance(); err != nil {
			return sqlast.ColumnDef{}, err
		}
	case p.curIs(tokIdent, "FLOAT"):
		col.Kind = "FLOAT"
		if err := p.advance(); err != nil {
			return sqlast.ColumnDef{}, err
		}
	case p.curIs(tokIdent, "CHAR"):
		col.Kind = "CHAR"
		if err := p.advance(); err != nil {
			return sqlast.ColumnDef{}, err
		}
		if err := p.expectSymbol("("); err != nil {
			return sqlast.ColumnDef{}, err
		}
		if p.cur.kind != tokNumber {
			return sqlast.ColumnDef{}, fmt.Errorf("sqlparse: expected length in CHAR(n), got %q", p.cur.text)
		}
		n, err := strconv.Atoi(p.cur.text)
		if err != nil {
			return sqlast.ColumnDef{}, fmt.Errorf("sqlparse: bad CHAR length %q: %w", p.cur.text, err)
		}
		col.CharLen = n
		if err := p.advance(); err != nil {
			return sqlast.ColumnDef{}, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return sqlast.ColumnDef{}, err
		}
	default:
		return sqlast.ColumnDef{}, fmt.Errorf("sqlparse: unknown column type %q", p.cur.text)
	}

	for {
		switch {
		case p.curIs(tokIdent, "PRIMARY"):
			if err := p.advance(); err != nil {
				return sqlast.ColumnDef{}, err
			}
			if err := p.eatKeyword("KEY"); err != nil {
				return sqlast.ColumnDef{}, err
			}
			col.Primary = true
			col.Nullable = false
		case p.curIs(tokIdent, "NOT"):
			if err := p.advance(); err != nil {
				return sqlast.ColumnDef{}, err
			}
			if err := p.eatKeyword("NULL"); err != nil {
				return sqlast.ColumnDef{}, err
			}
			col.Nullable = false
		default:
			return col, nil
		}
	}
}

func (p *parser) parseDropTable() (*sqlast.DropTableStmt, error) {
	if err := p.eatKeyword("DROP"); err != nil {
		return nil, err
	}
	if err := p.eatKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &sqlast.DropTableStmt{Table: table}, nil
}

func (p *parser) parseInsert() (*sqlast.InsertStmt, error) {
	if err := p.eatKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.eatKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.eatKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	var values []sqlast.Expr
	for {
		e, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		values = append(values, e)

		if p.cur.kind == tokSymbol && p.cur.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return &sqlast.InsertStmt{Table: table, Values: values}, nil
}

func (p *parser) parseSelect() (*sqlast.SelectStmt, error) {
	if err := p.eatKeyword("SELECT"); err != nil {
		return nil, err
	}

	var cols []string
	if p.cur.kind == tokSymbol && p.cur.text == "*" {
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			cols = append(cols, name)
			if p.cur.kind == tokSymbol && p.cur.text == "," {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if err := p.eatKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	return &sqlast.SelectStmt{Table: table, Columns: cols, Where: where}, nil
}

func (p *parser) parseUpdate() (*sqlast.UpdateStmt, error) {
	if err := p.eatKeyword("UPDATE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.eatKeyword("SET"); err != nil {
		return nil, err
	}

	var sets []sqlast.Assignment
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		val, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		sets = append(sets, sqlast.Assignment{Column: name, Value: val})

		if p.cur.kind == tokSymbol && p.cur.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	return &sqlast.UpdateStmt{Table: table, Sets: sets, Where: where}, nil
}

func (p *parser) parseDelete() (*sqlast.DeleteStmt, error) {
	if err := p.eatKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.eatKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	return &sqlast.DeleteStmt{Table: table, Where: where}, nil
}

func (p *parser) parseOptionalWhere() (sqlast.Condition, error) {
	if !p.curIs(tokIdent, "WHERE") {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseOr()
}

// ---- conditions ----

func (p *parser) parseOr() (sqlast.Condition, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(tokIdent, "OR") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &sqlast.OrCond{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (sqlast.Condition, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIs(tokIdent, "AND") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &sqlast.AndCond{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (sqlast.Condition, error) {
	if p.curIs(tokIdent, "NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &sqlast.NotCond{Inner: inner}, nil
	}
	if p.cur.kind == tokSymbol && p.cur.text == "(" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseCmp()
}

func (p *parser) parseCmp() (sqlast.Condition, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}

	var op sqlast.CmpOp
	switch {
	case p.cur.kind == tokSymbol && p.cur.text == "=":
		op = sqlast.Eq
	case p.cur.kind == tokSymbol && p.cur.text == "!=":
		op = sqlast.Ne
	case p.cur.kind == tokSymbol && p.cur.text == "<":
		op = sqlast.Lt
	case p.cur.kind == tokSymbol && p.cur.text == "<=":
		op = sqlast.Le
	case p.cur.kind == tokSymbol && p.cur.text == ">":
		op = sqlast.Gt
	case p.cur.kind == tokSymbol && p.cur.text == ">=":
		op = sqlast.Ge
	default:
		return nil, fmt.Errorf("sqlparse: expected comparison operator, got %q", p.cur.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	right, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	return &sqlast.CmpCond{Op: op, Left: left, Right: right}, nil
}

// ---- arithmetic expressions ----

func (p *parser) parseArith() (sqlast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokSymbol && (p.cur.text == "+" || p.cur.text == "-") {
		op := sqlast.Add
		if p.cur.text == "-" {
			op = sqlast.Sub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (sqlast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokSymbol && (p.cur.text == "*" || p.cur.text == "/" || p.cur.text == "%") {
		var op sqlast.ArithOp
		switch p.cur.text {
		case "*":
			op = sqlast.Mul
		case "/":
			op = sqlast.Div
		case "%":
			op = sqlast.Mod
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (sqlast.Expr, error) {
	if p.cur.kind == tokSymbol && p.cur.text == "-" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &sqlast.UnaryExpr{Op: sqlast.Neg, Inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (sqlast.Expr, error) {
	switch {
	case p.cur.kind == tokNumber:
		v, err := parseNumberLiteral(p.cur.text)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.LiteralExpr{Value: v}, nil

	case p.cur.kind == tokString:
		v := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.LiteralExpr{Value: v}, nil

	case p.cur.kind == tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.ColumnExpr{Name: name}, nil

	case p.cur.kind == tokSymbol && p.cur.text == "(":
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, fmt.Errorf("sqlparse: unexpected token %q", p.cur.text)
	}
}

func parseNumberLiteral(text string) (any, error) {
	for _, r := range text {
		if r == '.' {
			f, err := strconv.ParseFloat(text, 32)
			if err != nil {
				return nil, fmt.Errorf("sqlparse: bad float literal %q: %w", text, err)
			}
			return float32(f), nil
		}
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("sqlparse: bad integer literal %q: %w", text, err)
	}
	return int32(n), nil
}

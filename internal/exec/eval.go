package exec

import (
	"errors"
	"fmt"

	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/sqlast"
)

var ErrTypeMismatch = errors.New("exec: operand type mismatch")

// evaluate interprets a full And/Or/Not/Cmp condition tree against row,
// widening Int operands to Float wherever a comparison mixes the two.
func evaluate(cond sqlast.Condition, schema *record.Schema, row *Row) (bool, error) {
	if cond == nil {
		return true, nil
	}
	switch c := cond.(type) {
	case *sqlast.AndCond:
		l, err := evaluate(c.Left, schema, row)
		if err != nil {
			return false, err
		}
		if !l {
			return false, nil
		}
		return evaluate(c.Right, schema, row)

	case *sqlast.OrCond:
		l, err := evaluate(c.Left, schema, row)
		if err != nil {
			return false, err
		}
		if l {
			return true, nil
		}
		return evaluate(c.Right, schema, row)

	case *sqlast.NotCond:
		v, err := evaluate(c.Inner, schema, row)
		if err != nil {
			return false, err
		}
		return !v, nil

	case *sqlast.CmpCond:
		lv, err := evalExpr(c.Left, schema, row)
		if err != nil {
			return false, err
		}
		rv, err := evalExpr(c.Right, schema, row)
		if err != nil {
			return false, err
		}
		return compareValues(c.Op, lv, rv)

	default:
		return false, fmt.Errorf("exec: unknown condition node %T", cond)
	}
}

// evalExpr interprets a scalar expression (literal, column reference, or
// arithmetic combination) against row.
func evalExpr(e sqlast.Expr, schema *record.Schema, row *Row) (any, error) {
	switch x := e.(type) {
	case *sqlast.LiteralExpr:
		return x.Value, nil

	case *sqlast.ColumnExpr:
		idx := schema.IndexOf(x.Name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown column %q", ErrTypeMismatch, x.Name)
		}
		return row.Values[idx], nil

	case *sqlast.UnaryExpr:
		v, err := evalExpr(x.Inner, schema, row)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case sqlast.Neg:
			return negateValue(v)
		default:
			return nil, fmt.Errorf("exec: unsupported unary op %v", x.Op)
		}

	case *sqlast.BinaryExpr:
		l, err := evalExpr(x.Left, schema, row)
		if err != nil {
			return nil, err
		}
		r, err := evalExpr(x.Right, schema, row)
		if err != nil {
			return nil, err
		}
		return arith(x.Op, l, r)

	default:
		return nil, fmt.Errorf("exec: unknown expr node %T", e)
	}
}

func negateValue(v any) (any, error) {
	switch x := v.(type) {
	case int32:
		return -x, nil
	case float32:
		return -x, nil
	default:
		return nil, fmt.Errorf("%w: cannot negate %T", ErrTypeMismatch, v)
	}
}

// widen returns both operands as float32 if either is a float32; if both
// are int32 it returns them unchanged (isFloat reports whether the float32
// results lf/rf are the ones to use).
func widen(l, r any) (lf, rf float32, li, ri int32, isFloat bool, err error) {
	lInt, lIsInt := l.(int32)
	rInt, rIsInt := r.(int32)
	lFloat, lIsFloat := l.(float32)
	rFloat, rIsFloat := r.(float32)

	switch {
	case lIsInt && rIsInt:
		return 0, 0, lInt, rInt, false, nil
	case lIsFloat && rIsFloat:
		return lFloat, rFloat, 0, 0, true, nil
	case lIsInt && rIsFloat:
		return float32(lInt), rFloat, 0, 0, true, nil
	case lIsFloat && rIsInt:
		return lFloat, float32(rInt), 0, 0, true, nil
	default:
		return 0, 0, 0, 0, false, fmt.Errorf("%w: %T vs %T", ErrTypeMismatch, l, r)
	}
}

func arith(op sqlast.ArithOp, l, r any) (any, error) {
	// Char values can be compared (byte-wise), never used in arithmetic.
	if _, ok := l.(string); ok {
		return nil, fmt.Errorf("%w: cannot apply arithmetic to a Char value", ErrTypeMismatch)
	}
	if _, ok := r.(string); ok {
		return nil, fmt.Errorf("%w: cannot apply arithmetic to a Char value", ErrTypeMismatch)
	}

	lf, rf, li, ri, isFloat, err := widen(l, r)
	if err != nil {
		return nil, err
	}
	if isFloat {
		switch op {
		case sqlast.Add:
			return lf + rf, nil
		case sqlast.Sub:
			return lf - rf, nil
		case sqlast.Mul:
			return lf * rf, nil
		case sqlast.Div:
			return lf / rf, nil
		default:
			return nil, fmt.Errorf("exec: modulo is not defined on Float operands")
		}
	}
	switch op {
	case sqlast.Add:
		return li + ri, nil
	case sqlast.Sub:
		return li - ri, nil
	case sqlast.Mul:
		return li * ri, nil
	case sqlast.Div:
		if ri == 0 {
			return nil, fmt.Errorf("exec: division by zero")
		}
		return li / ri, nil
	case sqlast.Mod:
		if ri == 0 {
			return nil, fmt.Errorf("exec: division by zero")
		}
		return li % ri, nil
	default:
		return nil, fmt.Errorf("exec: unknown arithmetic op %v", op)
	}
}

func compareValues(op sqlast.CmpOp, l, r any) (bool, error) {
	ls, lIsStr := l.(string)
	rs, rIsStr := r.(string)
	if lIsStr || rIsStr {
		if !lIsStr || !rIsStr {
			return false, fmt.Errorf("%w: cannot compare Char with non-Char", ErrTypeMismatch)
		}
		switch op {
		case sqlast.Eq:
			return ls == rs, nil
		case sqlast.Ne:
			return ls != rs, nil
		case sqlast.Lt:
			return ls < rs, nil
		case sqlast.Le:
			return ls <= rs, nil
		case sqlast.Gt:
			return ls > rs, nil
		case sqlast.Ge:
			return ls >= rs, nil
		}
		return false, fmt.Errorf("exec: unknown comparison op %v", op)
	}

	lf, rf, li, ri, isFloat, err := widen(l, r)
	if err != nil {
		return false, err
	}
	if isFloat {
		switch op {
		case sqlast.Eq:
			return lf == rf, nil
		case sqlast.Ne:
			return lf != rf, nil
		case sqlast.Lt:
			return lf < rf, nil
		case sqlast.Le:
			return lf <= rf, nil
		case sqlast.Gt:
			return lf > rf, nil
		case sqlast.Ge:
			return lf >= rf, nil
		}
		return false, fmt.Errorf("exec: unknown comparison op %v", op)
	}
	switch op {
	case sqlast.Eq:
		return li == ri, nil
	case sqlast.Ne:
		return li != ri, nil
	case sqlast.Lt:
		return li < ri, nil
	case sqlast.Le:
		return li <= ri, nil
	case sqlast.Gt:
		return li > ri, nil
	case sqlast.Ge:
		return li >= ri, nil
	}
	return false, fmt.Errorf("exec: unknown comparison op %v", op)
}

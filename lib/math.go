package lib

import (
	"log/slog"

	"github.com/ardnew/cottle/lang"
	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of decimal places kept by div when the
// quotient does not terminate.
const DivisionPrecision = 16

// fold applies op left to right over the numeric views of args, starting
// from the first argument. No arguments yield zero.
func fold(
	args []lang.Value,
	op func(acc, d decimal.Decimal) (decimal.Decimal, error),
) (lang.Value, error) {
	if len(args) == 0 {
		return lang.NumberFromInt(0), nil
	}

	acc := args[0].AsNumber()

	for _, a := range args[1:] {
		var err error
		if acc, err = op(acc, a.AsNumber()); err != nil {
			return lang.Void, err
		}
	}

	return lang.Number(acc), nil
}

func add(args []lang.Value) (lang.Value, error) {
	return fold(args, func(acc, d decimal.Decimal) (decimal.Decimal, error) {
		return acc.Add(d), nil
	})
}

func sub(args []lang.Value) (lang.Value, error) {
	if len(args) == 1 {
		return lang.Number(args[0].AsNumber().Neg()), nil
	}

	return fold(args, func(acc, d decimal.Decimal) (decimal.Decimal, error) {
		return acc.Sub(d), nil
	})
}

func mul(args []lang.Value) (lang.Value, error) {
	return fold(args, func(acc, d decimal.Decimal) (decimal.Decimal, error) {
		return acc.Mul(d), nil
	})
}

func div(args []lang.Value) (lang.Value, error) {
	return fold(args, func(acc, d decimal.Decimal) (decimal.Decimal, error) {
		if d.IsZero() {
			return acc, ErrDivideByZero.With(slog.String("dividend", acc.String()))
		}

		return acc.DivRound(d, DivisionPrecision), nil
	})
}

func mod(args []lang.Value) (lang.Value, error) {
	return fold(args, func(acc, d decimal.Decimal) (decimal.Decimal, error) {
		if d.IsZero() {
			return acc, ErrDivideByZero.With(slog.String("dividend", acc.String()))
		}

		return acc.Mod(d), nil
	})
}

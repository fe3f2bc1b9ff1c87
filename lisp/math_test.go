// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/rlisp/lisptest"
)

func TestMath(t *testing.T) {
	tests := lisptest.TestSuite{
		{"arithmetic", lisptest.TestSequence{
			// identities
			{"(+)", "0"},
			{"(*)", "1"},
			{"(add)", "0"},
			{"(mul)", "1"},
			// one argument
			{"(+ 2)", "2"},
			{"(+ 2.0)", "2.0"},
			{"(* 2)", "2"},
			// several arguments
			{"(+ 3 3 (+ 5 9))", "20"},
			{"(+ 1 2 3)", "6"},
			{"(add 1 (mul 2 3))", "7"},
			{"(* 2 0.75)", "1.5"},
			{"(- 10 4)", "6"},
			{"(sub 4 10)", "-6"},
			{"(- 0.5 1)", "-0.5"},
			{"(/ 7 2)", "3"},
			{"(div (- 0 7) 2)", "-3"},
			{"(/ 1 4.0)", "0.25"},
			{"(% 7 3)", "1"},
			{"(% (- 0 7) 3)", "-1"},
			{"(% 7.5 2)", "1.5"},
		}},
		{"float promotion", lisptest.TestSequence{
			{"(+ 1 2.5)", "3.5"},
			{"(+ 1 2 3.0)", "6.0"},
			{"(* 2 2.0)", "4.0"},
			{"(- 3 1.0)", "2.0"},
			{"(/ 1 2.0)", "0.5"},
		}},
		{"division by zero", lisptest.TestSequence{
			{"(/ 1 0)", "division by 0"},
			{"(div 0 0)", "division by 0"},
			{"(% 1 0)", "division by 0"},
			{"(/ 1.0 0)", "+Inf"},
			{"(/ (- 0 1.0) 0)", "-Inf"},
			{"(/ 0.0 0)", "NaN"},
			{"(% 1.0 0)", "NaN"},
		}},
		{"integer overflow", lisptest.TestSequence{
			{"(+ 9223372036854775807 1)", "integer overflow"},
			{"(+ 9223372036854775807 0)", "9223372036854775807"},
			{"(- (- 0 9223372036854775807) 1)", "-9223372036854775808"},
			{"(- (- 0 9223372036854775807) 2)", "integer overflow"},
			{"(- 0 (- (- 0 9223372036854775807) 1))", "integer overflow"},
			{"(* 4611686018427387904 2)", "integer overflow"},
			{"(* 4611686018427387904 (- 0 2))", "-9223372036854775808"},
			{"(* (- (- 0 9223372036854775807) 1) (- 0 1))", "integer overflow"},
			{"(/ (- (- 0 9223372036854775807) 1) (- 0 1))", "integer overflow"},
			{"(% (- (- 0 9223372036854775807) 1) (- 0 1))", "integer overflow"},
			{"(+ 9223372036854775807 1.0)", "9.223372036854776e+18"},
		}},
		{"argument errors", lisptest.TestSequence{
			{"(- 1)", "wrong number of arguments, expected 2, got 1"},
			{"(sub 1 2 3)", "wrong number of arguments, expected 2, got 3"},
			{"(/)", "wrong number of arguments, expected 2, got 0"},
			{"(% 1)", "wrong number of arguments, expected 2, got 1"},
			{`(+ 1 "a")`, "argument should be number"},
			{"(* 1 '(2))", "argument should be number"},
			{"(- 1 (list))", "argument should be number"},
			{"(+ x 1)", "variable `x` not found"},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

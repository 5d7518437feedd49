package app_test

import (
	"math/rand"
	"testing"

	"calquiz-service/internal/app"
	"calquiz-service/internal/domain"
	"github.com/stretchr/testify/require"
)

// scriptedSource returns its values in order, wrapping around.
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

type operands struct {
	a, b int
	op   domain.Operator
}

func eq(a, b int, op domain.Operator) operands {
	return operands{a: a, b: b, op: op}
}

// equationSource scripts a generator to produce the given equations in order.
func equationSource(equations ...operands) *scriptedSource {
	index := map[domain.Operator]int{domain.OpAdd: 0, domain.OpSub: 1, domain.OpMul: 2, domain.OpDiv: 3}
	src := &scriptedSource{}
	for _, e := range equations {
		src.values = append(src.values, e.a-1, e.b-1, index[e.op])
	}
	return src
}

func TestGenerateUsesScriptedSource(t *testing.T) {
	gen := app.NewEquationGenerator(equationSource(eq(3, 4, domain.OpAdd), eq(7, 2, domain.OpDiv)))

	first := gen.Generate()
	require.Equal(t, "3 + 4 = ?", first.Question)
	require.Equal(t, 7, first.Answer)

	second := gen.Generate()
	require.Equal(t, "7 / 2 = ?", second.Question)
	require.Equal(t, 3, second.Answer, "division keeps truncated integer answer")
}

func TestBuildEquationOperators(t *testing.T) {
	cases := []struct {
		a, b     int
		op       domain.Operator
		question string
		answer   int
	}{
		{5, 9, domain.OpAdd, "5 + 9 = ?", 14},
		{3, 12, domain.OpSub, "3 - 12 = ?", -9},
		{6, 7, domain.OpMul, "6 * 7 = ?", 42},
		{19, 4, domain.OpDiv, "19 / 4 = ?", 4},
		{1, 19, domain.OpDiv, "1 / 19 = ?", 0},
	}
	for _, tc := range cases {
		got := app.BuildEquation(tc.a, tc.b, tc.op)
		require.Equal(t, tc.question, got.Question)
		require.Equal(t, tc.answer, got.Answer)
	}
}

func TestGenerateStaysInRange(t *testing.T) {
	gen := app.NewEquationGenerator(rand.New(rand.NewSource(42)))
	seen := map[domain.Operator]bool{}
	for i := 0; i < 5000; i++ {
		e := gen.Generate()
		require.GreaterOrEqual(t, e.Left, 1)
		require.LessOrEqual(t, e.Left, 19)
		require.GreaterOrEqual(t, e.Right, 1)
		require.LessOrEqual(t, e.Right, 19)
		if e.Operator == domain.OpDiv {
			require.NotZero(t, e.Right)
		}
		seen[e.Operator] = true
	}
	require.Len(t, seen, 4)
}

func TestSameSeedSameEquations(t *testing.T) {
	a := app.NewEquationGenerator(rand.New(rand.NewSource(7)))
	b := app.NewEquationGenerator(rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Generate(), b.Generate())
	}
}

package app

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"calquiz-service/internal/domain"
)

const (
	minOperand = 1
	maxOperand = 19
)

var operators = []domain.Operator{domain.OpAdd, domain.OpSub, domain.OpMul, domain.OpDiv}

// IntSource is the subset of *rand.Rand the generator draws from.
type IntSource interface {
	Intn(n int) int
}

// EquationGenerator produces random arithmetic questions.
type EquationGenerator struct {
	rnd IntSource
}

func NewEquationGenerator(rnd IntSource) *EquationGenerator {
	return &EquationGenerator{rnd: rnd}
}

// NewSeededGenerator returns a generator backed by a math/rand source seeded from crypto/rand.
func NewSeededGenerator() *EquationGenerator {
	return NewEquationGenerator(rand.New(rand.NewSource(newSeed())))
}

// Generate draws two operands in [1,19] and one operator, all uniformly.
// Division keeps Go's truncating integer semantics, so "7 / 2 = ?" expects 3.
func (g *EquationGenerator) Generate() domain.Equation {
	a := minOperand + g.rnd.Intn(maxOperand-minOperand+1)
	b := minOperand + g.rnd.Intn(maxOperand-minOperand+1)
	op := operators[g.rnd.Intn(len(operators))]
	return BuildEquation(a, b, op)
}

// BuildEquation computes the question text and answer for fixed operands.
func BuildEquation(a, b int, op domain.Operator) domain.Equation {
	var answer int
	switch op {
	case domain.OpSub:
		answer = a - b
	case domain.OpMul:
		answer = a * b
	case domain.OpDiv:
		answer = a / b
	default:
		op = domain.OpAdd
		answer = a + b
	}
	return domain.Equation{
		Left:     a,
		Right:    b,
		Operator: op,
		Question: fmt.Sprintf("%d %s %d = ?", a, op, b),
		Answer:   answer,
	}
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

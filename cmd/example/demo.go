package main

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mkanren/vulcango/pkg/minikanren"
)

// solveSendMoreMoney finds every assignment of distinct digits to
// S E N D M O R Y solving the classic SEND + MORE = MONEY cryptarithm over
// CLP(FD): each letter gets a 0-9 domain, the leading letters S and M are
// constrained away from zero, every pair of letters is constrained
// pairwise distinct, each letter is then labeled with every digit its
// domain still admits, and the arithmetic itself is checked once every digit
// is ground rather than threaded through a generic column-sum relation.
func solveSendMoreMoney(logger hclog.Logger) ([]minikanren.Answer, error) {
	names := []string{"s", "e", "n", "d", "m", "o", "r", "y"}
	iter := minikanren.Query(names, func(vars ...minikanren.Term) minikanren.Goal {
		s, e, n, d, m, o, r, y := vars[0], vars[1], vars[2], vars[3], vars[4], vars[5], vars[6], vars[7]

		digits := IntervalDomain09()
		goals := []minikanren.Goal{
			minikanren.Dom(s, digits), minikanren.Dom(e, digits), minikanren.Dom(n, digits),
			minikanren.Dom(d, digits), minikanren.Dom(m, digits), minikanren.Dom(o, digits),
			minikanren.Dom(r, digits), minikanren.Dom(y, digits),
			minikanren.NeqFD(s, minikanren.NewInt(0)),
			minikanren.NeqFD(m, minikanren.NewInt(0)),
		}
		for i, a := range vars {
			for _, b := range vars[i+1:] {
				goals = append(goals, minikanren.NeqFD(a, b))
			}
		}
		for _, v := range vars {
			labels := make([]minikanren.Goal, 0, 10)
			for _, dv := range digits.Values() {
				labels = append(labels, minikanren.Eq(v, minikanren.NewInt(dv)))
			}
			goals = append(goals, minikanren.Disj(labels...))
		}
		goals = append(goals, minikanren.ProjectGround(vars, func(vals []minikanren.Term) minikanren.Goal {
			digit := func(t minikanren.Term) int64 {
				v, _ := t.(*minikanren.Atom).IsInt()
				return v
			}
			send := 1000*digit(vals[0]) + 100*digit(vals[1]) + 10*digit(vals[2]) + digit(vals[3])
			more := 1000*digit(vals[4]) + 100*digit(vals[5]) + 10*digit(vals[6]) + digit(vals[1])
			money := 10000*digit(vals[4]) + 1000*digit(vals[5]) + 100*digit(vals[2]) + 10*digit(vals[1]) + digit(vals[7])
			if send+more == money {
				return minikanren.Succeed
			}
			return minikanren.Fail
		}))
		return minikanren.Conj(goals...)
	}, minikanren.WithLogger(logger))

	return iter.All(0)
}

// IntervalDomain09 is the digit domain 0..9 shared by every letter in
// solveSendMoreMoney.
func IntervalDomain09() minikanren.IntDomain {
	return minikanren.IntervalDomain(0, 9)
}

// solveQueens finds every placement of n mutually non-attacking queens on
// an n*n board over CLP(FD): queens[i] is the column of the queen in row
// i, columns get pairwise NeqFD, each queen is labeled with every column its
// domain still admits, and the two diagonal constraints are
// checked once every column is ground (spec-adjacent "demonstration
// relations ... beyond what is required to demonstrate contracts").
func solveQueens(n int, logger hclog.Logger) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("queens: n must be positive, got %d", n)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("q%d", i)
	}

	iter := minikanren.Query(names, func(vars ...minikanren.Term) minikanren.Goal {
		board := minikanren.IntervalDomain(0, int64(n-1))
		goals := make([]minikanren.Goal, 0, n*n)
		for _, v := range vars {
			goals = append(goals, minikanren.Dom(v, board))
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				goals = append(goals, minikanren.NeqFD(vars[i], vars[j]))
			}
		}
		for _, v := range vars {
			labels := make([]minikanren.Goal, 0, n)
			for _, c := range board.Values() {
				labels = append(labels, minikanren.Eq(v, minikanren.NewInt(c)))
			}
			goals = append(goals, minikanren.Disj(labels...))
		}
		goals = append(goals, minikanren.ProjectGround(vars, func(vals []minikanren.Term) minikanren.Goal {
			cols := make([]int64, len(vals))
			for i, v := range vals {
				c, _ := v.(*minikanren.Atom).IsInt()
				cols[i] = c
			}
			for i := 0; i < len(cols); i++ {
				for j := i + 1; j < len(cols); j++ {
					diff := cols[i] - cols[j]
					if diff == int64(j-i) || diff == -int64(j-i) {
						return minikanren.Fail
					}
				}
			}
			return minikanren.Succeed
		}))
		return minikanren.Conj(goals...)
	}, minikanren.WithLogger(logger))

	answers, err := iter.All(0)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(answers))
	for i, a := range answers {
		row := make([]string, n)
		for j, name := range names {
			row[j] = a.Values[name].String()
		}
		out[i] = fmt.Sprint(row)
	}
	return out, nil
}

package minikanren

// Appendo relates three lists such that a ++ b = c. Run
// forward it computes a concatenation; run with c ground and a/b fresh it
// enumerates every split of c, including the degenerate (a=[], b=c) and
// (a=c, b=[]) cases.
func Appendo(a, b, c Term) Goal {
	return Disj(
		Conj(Eq(a, Empty()), Eq(b, c)),
		Deferred(func() Goal {
			return Fresh3(func(h, t, t2 *Var) Goal {
				return Conj(
					Eq(a, NewPair(h, t)),
					Eq(c, NewPair(h, t2)),
					Appendo(t, b, t2),
				)
			})
		}),
	)
}

// Membero relates x to every element of list l, in order, backtracking
// through each occurrence on redo.
func Membero(x, l Term) Goal {
	return Disj(
		Fresh1(func(t *Var) Goal { return Eq(l, NewPair(x, t)) }),
		Deferred(func() Goal {
			return Fresh2(func(h, t *Var) Goal {
				return Conj(Eq(l, NewPair(h, t)), Membero(x, t))
			})
		}),
	)
}

// Lengtho relates a list to its length, represented as an Atom integer.
// Run with l ground it computes the length; run with l fresh and n ground
// it enumerates every list of that length built from fresh elements.
func Lengtho(l, n Term) Goal {
	return Disj(
		Conj(Eq(l, Empty()), Eq(n, NewInt(0))),
		Deferred(func() Goal {
			return Fresh3(func(h, t, n1 *Var) Goal {
				return Conj(
					Eq(l, NewPair(h, t)),
					PlusFD(n1, NewInt(1), n),
					Lengtho(t, n1),
				)
			})
		}),
	)
}

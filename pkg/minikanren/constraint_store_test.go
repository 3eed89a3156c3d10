package minikanren

import "testing"

// churnDomain is a pathological Domain whose Check reports the same
// already-satisfied forced binding every single round without ever
// recognizing it as satisfied, verifying checkAll's maxCheckRounds cap
// raises a *ResourceError instead of looping forever.
type churnDomain struct{ v *Var }

type churnState struct{}

func (*churnState) domainState() {}

const tagChurn DomainTag = "churn-test"

func (d churnDomain) Tag() DomainTag { return tagChurn }
func (d churnDomain) Empty() DomainState { return &churnState{} }
func (d churnDomain) Reify(*Var, DomainState, *Subst) interface{} { return nil }

func (d churnDomain) Check(ds DomainState, sub *Subst) (DomainState, []Binding, bool) {
	return ds, []Binding{{V: d.v, T: NewInt(1)}}, true
}

func TestCheckAllRaisesResourceErrorOnNonTerminatingPropagation(t *testing.T) {
	s := InitialState()
	v := s.alloc.fresh("v")
	w := s.alloc.fresh("w")
	cs := s.constr.RegisterDomain(churnDomain{v: v})
	s = s.withStore(cs)

	_, ok, err := s.extendChecked(w, NewInt(0))
	if ok {
		t.Fatal("expected the non-terminating domain to abort via an error, not succeed")
	}
	if _, isResource := err.(*ResourceError); !isResource {
		t.Fatalf("expected *ResourceError, got %T: %v", err, err)
	}
}

package stable

import (
	"sync"
	"testing"
)

func TestStateTransitions(t *testing.T) {
	s := Idle
	if !s.IsIdle() || s.IsExclusive() || s.Shared() != 0 {
		t.Fatalf("expected idle state, have %s", s)
	}
	s, ok := s.incShared()
	if !ok || s.Shared() != 1 {
		t.Fatalf("expected shared(1), have %s", s)
	}
	s, _ = s.incShared()
	if s.String() != "shared(2)" {
		t.Errorf("expected shared(2), have %s", s)
	}
	if _, ok := s.incExclusive(); ok {
		t.Errorf("exclusive borrow accepted while shared")
	}
	s = s.decShared().decShared()
	if !s.IsIdle() {
		t.Fatalf("expected idle after releasing shared borrows, have %s", s)
	}
	s, ok = s.incExclusive()
	if !ok || !s.IsExclusive() {
		t.Fatalf("expected exclusive, have %s", s)
	}
	if _, ok := s.incShared(); ok {
		t.Errorf("shared borrow accepted while exclusive")
	}
	if s.decExclusive() != Idle {
		t.Errorf("expected idle after releasing exclusive borrow")
	}
}

func TestStateUpgradeDowngrade(t *testing.T) {
	s, _ := Idle.incShared()
	up, ok := s.upgrade()
	if !ok || !up.IsExclusive() {
		t.Fatalf("expected upgrade of single shared borrow to succeed")
	}
	if down := up.downgrade(); down.Shared() != 1 || down.IsExclusive() {
		t.Errorf("expected shared(1) after downgrade, have %s", down)
	}
	s, _ = s.incShared()
	if _, ok := s.upgrade(); ok {
		t.Errorf("upgrade must fail with two shared borrows")
	}
}

func TestReleaseOfUnheldBorrowPanics(t *testing.T) {
	for _, p := range []Policy{Local, Synchronized} {
		tr := p.NewTracker()
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected panic on releasing unheld shared borrow", p)
				}
			}()
			tr.ReleaseShared()
		}()
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected panic on releasing unheld exclusive borrow", p)
				}
			}()
			tr.ReleaseExclusive()
		}()
		if !tr.State().IsIdle() {
			t.Errorf("%s: tracker changed by failed release: %s", p, tr.State())
		}
	}
}

func TestTrackerPolicies(t *testing.T) {
	for _, p := range []Policy{Local, Synchronized} {
		tr := p.NewTracker()
		if !tr.TryShared() || !tr.TryShared() {
			t.Fatalf("%s: shared borrows rejected", p)
		}
		if tr.TryExclusive() {
			t.Errorf("%s: exclusive borrow accepted while shared", p)
		}
		if tr.TryUpgrade() {
			t.Errorf("%s: upgrade accepted with two readers", p)
		}
		tr.ReleaseShared()
		if !tr.TryUpgrade() {
			t.Fatalf("%s: upgrade of sole reader rejected", p)
		}
		if tr.TryShared() {
			t.Errorf("%s: shared borrow accepted while exclusive", p)
		}
		tr.Downgrade()
		tr.ReleaseShared()
		if !tr.State().IsIdle() {
			t.Errorf("%s: expected idle tracker, have %s", p, tr.State())
		}
	}
}

func TestAtomicCounterConcurrentReaders(t *testing.T) {
	c := &AtomicCounter{}
	var wg sync.WaitGroup
	const workers, rounds = 8, 1000
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				if c.TryShared() {
					c.ReleaseShared()
				}
			}
		}()
	}
	wg.Wait()
	if !c.State().IsIdle() {
		t.Errorf("expected idle counter after concurrent readers, have %s", c.State())
	}
}

func TestAtomicCounterMutualExclusion(t *testing.T) {
	c := &AtomicCounter{}
	var wg sync.WaitGroup
	var mu sync.Mutex
	inside := 0
	violations := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				if !c.TryExclusive() {
					continue
				}
				mu.Lock()
				inside++
				if inside > 1 {
					violations++
				}
				mu.Unlock()
				mu.Lock()
				inside--
				mu.Unlock()
				c.ReleaseExclusive()
			}
		}()
	}
	wg.Wait()
	if violations > 0 {
		t.Errorf("exclusive borrow held by more than one goroutine %d times", violations)
	}
}

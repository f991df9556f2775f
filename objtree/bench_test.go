package objtree

import (
	"testing"

	"github.com/npillmayer/forest/stable"
)

func BenchmarkInsert(b *testing.B) {
	tree := New(0)
	for i := 0; b.Loop(); i++ {
		if _, err := tree.Insert(tree.Root(), i); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkBorrow(b *testing.B, p stable.Policy) {
	tree := New(0, WithPolicy(p))
	id, _ := tree.Insert(tree.Root(), 1)
	for b.Loop() {
		m, err := tree.GetMut(id)
		if err != nil {
			b.Fatal(err)
		}
		m.Release()
	}
}

func BenchmarkBorrowLocal(b *testing.B) {
	benchmarkBorrow(b, stable.Local)
}

func BenchmarkBorrowSynchronized(b *testing.B) {
	benchmarkBorrow(b, stable.Synchronized)
}

func BenchmarkTraverseChildren(b *testing.B) {
	tree := New(0)
	for i := range 100 {
		_, _ = tree.Insert(tree.Root(), i)
	}
	for b.Loop() {
		root, _ := tree.RootRef()
		children, err := root.Children()
		if err != nil {
			b.Fatal(err)
		}
		for _, ch := range children {
			ch.Release()
		}
		root.Release()
	}
}

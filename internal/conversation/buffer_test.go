package conversation

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

func TestBuffer_AppendOrder(t *testing.T) {
	b := NewBuffer()
	if err := b.AppendSystem("sys"); err != nil {
		t.Fatalf("AppendSystem() error = %v", err)
	}
	b.AppendUser("hello")
	b.AppendAssistant("hi")
	b.AppendUser("")

	want := []models.Message{
		{Role: models.RoleSystem, Content: "sys"},
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi"},
		{Role: models.RoleUser, Content: ""},
	}
	if diff := cmp.Diff(want, b.Snapshot()); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_AppendSystemOnlyWhenEmpty(t *testing.T) {
	b := NewBuffer()
	b.AppendUser("first")

	err := b.AppendSystem("late")
	if !errors.Is(err, apierrors.ErrSystemNotFirst) {
		t.Fatalf("AppendSystem() error = %v, want ErrSystemNotFirst", err)
	}
	if got := b.Snapshot(); len(got) != 1 || got[0].Role != models.RoleUser {
		t.Error("rejected system message must not be inserted")
	}

	b2 := NewBuffer()
	if err := b2.AppendSystem("one"); err != nil {
		t.Fatal(err)
	}
	if err := b2.AppendSystem("two"); !errors.Is(err, apierrors.ErrSystemNotFirst) {
		t.Error("second system message must be rejected")
	}
}

func TestBuffer_ClearRemovesSystem(t *testing.T) {
	b := NewBuffer()
	_ = b.AppendSystem("sys")
	b.AppendUser("u")
	b.AppendAssistant("a")

	b.Clear()

	if b.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", b.Len())
	}
	if err := b.AppendSystem("again"); err != nil {
		t.Errorf("AppendSystem after Clear should succeed, got %v", err)
	}
}

func TestBuffer_SnapshotIsStable(t *testing.T) {
	b := NewBuffer()
	b.AppendUser("one")

	snap := b.Snapshot()
	b.AppendAssistant("two")
	b.Clear()
	b.AppendUser("three")

	want := []models.Message{{Role: models.RoleUser, Content: "one"}}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot changed after mutation (-want +got):\n%s", diff)
	}

	snap[0].Content = "edited"
	if b.Snapshot()[0].Content != "three" {
		t.Error("editing a snapshot must not touch the buffer")
	}
}

func TestBuffer_DropLast(t *testing.T) {
	b := NewBuffer()
	if _, ok := b.DropLast(); ok {
		t.Error("DropLast on empty buffer should report false")
	}

	b.AppendUser("u1")
	b.AppendAssistant("a1")
	b.AppendUser("u2")

	last, ok := b.DropLast()
	if !ok || last.Content != "u2" || last.Role != models.RoleUser {
		t.Errorf("DropLast() = %+v, %v", last, ok)
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBuffer_ConcurrentSnapshot(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.AppendUser("x")
		}()
		go func() {
			defer wg.Done()
			_ = b.Snapshot()
		}()
	}
	wg.Wait()

	if b.Len() != 8 {
		t.Errorf("Len() = %d, want 8", b.Len())
	}
}

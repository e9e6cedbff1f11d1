package source

import (
	"context"
	"testing"

	"spotfetch/internal/model"
)

type fakeSource struct {
	name string
}

func (f *fakeSource) Name() string       { return f.name }
func (f *fakeSource) MinConfidence() int { return 60 }

func (f *fakeSource) Search(ctx context.Context, track *model.Track) ([]model.Candidate, error) {
	return nil, nil
}

func (f *fakeSource) Fetch(ctx context.Context, candidate *model.Candidate, track *model.Track) (string, error) {
	return "", nil
}

func TestRegistry_PreservesOrder(t *testing.T) {
	reg := NewRegistry([]Source{
		&fakeSource{name: "deezer"},
		&fakeSource{name: "youtube"},
	})

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	names := reg.Names()
	if names[0] != "deezer" || names[1] != "youtube" {
		t.Errorf("Names() = %v, want [deezer youtube]", names)
	}

	// Sources() must keep the same order as Names().
	for i, s := range reg.Sources() {
		if s.Name() != names[i] {
			t.Errorf("Sources()[%d].Name() = %q, want %q", i, s.Name(), names[i])
		}
	}
}

func TestRegistry_Empty(t *testing.T) {
	reg := NewRegistry(nil)
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
	if len(reg.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", reg.Names())
	}
}

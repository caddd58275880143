package gameversion

import "testing"

func TestByNameAndByIDAgree(t *testing.T) {
	for _, v := range Versions() {
		byName, ok := ByName(v.Name)
		if !ok || byName.ID != v.ID {
			t.Errorf("ByName(%q) = %+v, %v", v.Name, byName, ok)
		}
		byID, ok := ByID(v.ID)
		if !ok || byID.Name != v.Name {
			t.Errorf("ByID(%d) = %+v, %v", v.ID, byID, ok)
		}
	}

	if _, ok := ByName("Pandaria Remix"); ok {
		t.Error("unknown name must not resolve")
	}
	if _, ok := ByID(1); ok {
		t.Error("unknown id must not resolve")
	}
}

func TestKnownFlavorIDs(t *testing.T) {
	want := map[string]int{
		"Classic Era":   67408,
		"Classic TBC":   73246,
		"Classic WOTLK": 73713,
		"Classic Cata":  77522,
		"Classic MOP":   79434,
		"Retail":        517,
	}
	for name, id := range want {
		v, ok := ByName(name)
		if !ok || v.ID != id {
			t.Errorf("flavor %s: got %+v, want id %d", name, v, id)
		}
	}
}

func TestNextColorCycles(t *testing.T) {
	first := NextColor(0)
	if first == "" {
		t.Fatal("empty color")
	}
	if NextColor(len(colorPalette)) != first {
		t.Error("palette must cycle")
	}
	if NextColor(-1) != first {
		t.Error("negative index must clamp to the first color")
	}
}

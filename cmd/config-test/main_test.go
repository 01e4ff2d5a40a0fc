package main

import (
	"testing"

	"github.com/chrissnell/moonhike/pkg/config"
)

func TestCompare(t *testing.T) {
	a := &config.ConfigData{Sites: []config.SiteData{{Name: "b"}, {Name: "A"}}}
	b := &config.ConfigData{Sites: []config.SiteData{{Name: "A"}, {Name: "b"}}}
	a.ApplyDefaults()
	b.ApplyDefaults()

	if diffs := compare(a, b); len(diffs) != 0 {
		t.Errorf("diffs = %v, expected none", diffs)
	}

	b.Hiking.MinIllumination = 50
	b.Sites = b.Sites[:1]
	if diffs := compare(a, b); len(diffs) != 2 {
		t.Errorf("diffs = %v, expected hiking and sites", diffs)
	}
}

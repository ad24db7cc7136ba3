package path

import "testing"

func TestConcretePathStringRoundTrip(t *testing.T) {
	cases := []string{"/a", "/a/b/c"}
	for _, s := range cases {
		cp, err := ParseConcrete(nil, s)
		if err != nil {
			t.Fatalf("ParseConcrete(%q): %v", s, err)
		}
		if got := cp.String(); got != s {
			t.Fatalf("ParseConcrete(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseAbsolute(t *testing.T) {
	sp, err := Parse(ConcretePath{"x", "y"}, "/a/b")
	if err != nil {
		t.Fatal(err)
	}
	cp, err := sp.AsConcrete()
	if err != nil {
		t.Fatal(err)
	}
	if cp.String() != "/a/b" {
		t.Fatalf("got %s, want /a/b", cp)
	}
}

func TestParseRelativeResolvesAgainstBasePathsParent(t *testing.T) {
	// Parse's basePath is the owning node's own path; relative resolution
	// is against that node's parent (sibling-relative addressing).
	sp, err := Parse(ConcretePath{"room", "lamp"}, "switch")
	if err != nil {
		t.Fatal(err)
	}
	cp, err := sp.AsConcrete()
	if err != nil {
		t.Fatal(err)
	}
	if cp.String() != "/room/switch" {
		t.Fatalf("got %s, want /room/switch", cp)
	}
}

func TestParseDotDotWalksUpward(t *testing.T) {
	sp, err := Parse(ConcretePath{"a", "b", "c"}, "../x")
	if err != nil {
		t.Fatal(err)
	}
	cp, err := sp.AsConcrete()
	if err != nil {
		t.Fatal(err)
	}
	if cp.String() != "/a/x" {
		t.Fatalf("got %s, want /a/x", cp)
	}
}

func TestParseDotDotPastRootErrors(t *testing.T) {
	if _, err := Parse(ConcretePath{}, "../x"); err == nil {
		t.Fatal("expected an error walking '..' past the root")
	}
}

func TestParseLookupMarksDynamic(t *testing.T) {
	sp, err := Parse(nil, "/a/{/b}/c")
	if err != nil {
		t.Fatal(err)
	}
	if sp.IsConcrete() {
		t.Fatal("a path with a {lookup} component must not be concrete")
	}
	if _, err := sp.AsConcrete(); err == nil {
		t.Fatal("AsConcrete should fail on a dynamic path")
	}
	if _, err := ParseConcrete(nil, "/a/{/b}/c"); err == nil {
		t.Fatal("ParseConcrete should reject a dynamic path")
	}
}

func TestParseUnbalancedBraceErrors(t *testing.T) {
	if _, err := Parse(nil, "/a/b}"); err == nil {
		t.Fatal("expected a mismatched-brace error")
	}
	if _, err := Parse(nil, "/a/{b"); err == nil {
		t.Fatal("expected a mismatched-brace error")
	}
}

func TestDevirtualizeEnumeratesAllBranches(t *testing.T) {
	sp, err := Parse(nil, "/{/sw}/v")
	if err != nil {
		t.Fatal(err)
	}
	resolve := func(cp ConcretePath) ([]string, error) {
		if cp.String() == "/sw" {
			return []string{"foo", "bar"}, nil
		}
		t.Fatalf("unexpected lookup of %s", cp)
		return nil, nil
	}
	got, err := sp.Devirtualize(resolve)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidate paths, want 2", len(got))
	}
	seen := map[string]bool{}
	for _, cp := range got {
		seen[cp.String()] = true
	}
	if !seen["/foo/v"] || !seen["/bar/v"] {
		t.Fatalf("got %v, want {/foo/v, /bar/v}", got)
	}
}

func TestResolveFollowsTheOneCurrentBranch(t *testing.T) {
	sp, err := Parse(nil, "/{/sw}/v")
	if err != nil {
		t.Fatal(err)
	}
	resolve := func(cp ConcretePath) (string, error) {
		if cp.String() == "/sw" {
			return "bar", nil
		}
		t.Fatalf("unexpected lookup of %s", cp)
		return "", nil
	}
	got, err := sp.Resolve(resolve)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "/bar/v" {
		t.Fatalf("got %s, want /bar/v", got)
	}
}

func TestFindConcreteInputsOfDynamicPath(t *testing.T) {
	sp, err := Parse(nil, "/{/a}/{/b}/v")
	if err != nil {
		t.Fatal(err)
	}
	inputs, err := sp.FindConcreteInputs()
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(inputs))
	}
}

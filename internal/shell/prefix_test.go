package shell

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildTablesFullNamesResolveToThemselves(t *testing.T) {
	names := []string{"subscribe", "unsubscribe", "update", "download", "disable", "list", "help"}
	tables := BuildTables(names)

	for _, name := range names {
		got, ok := tables.Prefixes[name]
		if !ok {
			t.Errorf("full name %q is not a key of the prefix table", name)
			continue
		}
		if got != name {
			t.Errorf("prefix table maps %q to %q, want itself", name, got)
		}
	}
}

func TestBuildTablesDownloadDisableList(t *testing.T) {
	names := []string{"download", "disable", "list"}
	tables := BuildTables(names)

	candidates, ok := tables.Ambiguous["d"]
	if !ok {
		t.Fatal("expected \"d\" in the ambiguity table")
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates for \"d\", got %v", candidates)
	}

	tests := []struct {
		prefix string
		want   string
	}{
		{"do", "download"},
		{"down", "download"},
		{"downl", "download"},
		{"di", "disable"},
		{"l", "list"},
		{"li", "list"},
	}
	for _, tt := range tests {
		if got := tables.Prefixes[tt.prefix]; got != tt.want {
			t.Errorf("prefix %q resolves to %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestBuildTablesExitExport(t *testing.T) {
	tables := BuildTables([]string{"exit", "export"})

	for _, prefix := range []string{"e", "ex"} {
		candidates, ok := tables.Ambiguous[prefix]
		if !ok {
			t.Errorf("expected %q in the ambiguity table", prefix)
			continue
		}
		if len(candidates) != 2 {
			t.Errorf("expected both candidates for %q, got %v", prefix, candidates)
		}
		if _, ok := tables.Prefixes[prefix]; ok {
			t.Errorf("%q must not also be a key of the prefix table", prefix)
		}
	}

	if got := tables.Prefixes["exi"]; got != "exit" {
		t.Errorf("\"exi\" resolves to %q, want \"exit\"", got)
	}
	if got := tables.Prefixes["exp"]; got != "export" {
		t.Errorf("\"exp\" resolves to %q, want \"export\"", got)
	}
}

func TestBuildTablesAmbiguousEntriesCarryMinimalAbbreviation(t *testing.T) {
	tables := BuildTables([]string{"download", "disable", "list"})

	want := []string{"[di]sable", "[do]wnload"}
	got := tables.Ambiguous["d"]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates for \"d\" = %v, want %v", got, want)
	}
}

func TestBuildTablesKeySetsAreDisjoint(t *testing.T) {
	names := []string{"subscribe", "search", "set", "exit", "export", "episodes", "enable"}
	tables := BuildTables(names)

	for prefix := range tables.Ambiguous {
		if _, ok := tables.Prefixes[prefix]; ok {
			t.Errorf("%q is a key of both tables", prefix)
		}
		count := 0
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				count++
			}
		}
		if count < 2 {
			t.Errorf("ambiguous prefix %q is shared by %d names, want at least 2", prefix, count)
		}
	}

	for prefix, name := range tables.Prefixes {
		count := 0
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				count++
			}
		}
		if count != 1 {
			t.Errorf("unique prefix %q (-> %q) is shared by %d names, want exactly 1", prefix, name, count)
		}
	}
}

func TestBuildTablesSingleton(t *testing.T) {
	tables := BuildTables([]string{"download"})

	for n := 1; n <= len("download"); n++ {
		prefix := "download"[:n]
		if got := tables.Prefixes[prefix]; got != "download" {
			t.Errorf("prefix %q resolves to %q, want \"download\"", prefix, got)
		}
	}
	if len(tables.Ambiguous) != 0 {
		t.Errorf("singleton set produced ambiguity entries: %v", tables.Ambiguous)
	}
}

func TestBuildTablesDeterministic(t *testing.T) {
	names := []string{"update", "unsubscribe", "subscribe", "search", "set", "list"}

	first := BuildTables(names)
	second := BuildTables(names)

	if !reflect.DeepEqual(first.Prefixes, second.Prefixes) {
		t.Error("prefix tables differ between identical builds")
	}
	if !reflect.DeepEqual(first.Ambiguous, second.Ambiguous) {
		t.Error("ambiguity tables differ between identical builds")
	}
}

func TestResolvePassThrough(t *testing.T) {
	tables := BuildTables([]string{"list"})

	if got := tables.Resolve("li"); got != "list" {
		t.Errorf("Resolve(\"li\") = %q, want \"list\"", got)
	}
	if got := tables.Resolve("frobnicate"); got != "frobnicate" {
		t.Errorf("Resolve passes unknown tokens through, got %q", got)
	}
}

func TestAddAlias(t *testing.T) {
	tables := BuildTables([]string{"help", "list"})
	tables.AddAlias("?", "help")

	if got := tables.Resolve("?"); got != "help" {
		t.Errorf("Resolve(\"?\") = %q, want \"help\"", got)
	}
}

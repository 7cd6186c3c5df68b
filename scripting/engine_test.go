package scripting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/resource-pool/namehash"
	"github.com/wippyai/resource-pool/resource"
)

type soundHandle uint64

type sound struct{ frames int }

func newEngine(t *testing.T, capacity uint32) (*Engine, *resource.Pool[soundHandle, sound, int]) {
	t.Helper()
	sounds := resource.New[soundHandle, sound, int]("sound", capacity, resource.Hooks[soundHandle, sound, int]{}, resource.WithNames())
	reg := resource.NewRegistry()
	reg.MustRegister(sounds)

	e := New(reg, WithoutStdlib())
	t.Cleanup(e.Close)
	return e, sounds
}

func TestEngine_Lifecycle(t *testing.T) {
	e, sounds := newEngine(t, 4)

	err := e.DoString(`
		h = respool.get_or_allocate("sound", "sfx/jump.wav")
		again = respool.get_or_allocate("sound", respool.hash("sfx/jump.wav"))
		same = tostring(h) == tostring(again)
		idx = h:index()
		gen = h:generation()
		live = respool.has("sound", h)
		n = respool.count("sound")
		cap = respool.capacity("sound")
		key = respool.name_of("sound", h)
		respool.destroy("sound", h)
		gone = not respool.has("sound", h)
		missing = respool.lookup("sound", "sfx/jump.wav") == nil
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	checks := map[string]lua.LValue{
		"same":    lua.LTrue,
		"idx":     lua.LNumber(0),
		"gen":     lua.LNumber(1),
		"live":    lua.LTrue,
		"n":       lua.LNumber(1),
		"cap":     lua.LNumber(4),
		"key":     lua.LNumber(namehash.String("sfx/jump.wav")),
		"gone":    lua.LTrue,
		"missing": lua.LTrue,
	}
	for name, want := range checks {
		if got := e.Global(name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	if sounds.Count() != 0 {
		t.Fatalf("pool count = %d after destroy", sounds.Count())
	}
}

func TestEngine_Errors(t *testing.T) {
	e, _ := newEngine(t, 1)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown kind", `respool.count("mesh")`, "unknown resource kind mesh"},
		{"double destroy", `
			local h = respool.get_or_allocate("sound", "a")
			respool.destroy("sound", h)
			respool.destroy("sound", h)`, "double_free"},
		{"exhausted", `
			respool.get_or_allocate("sound", "b")
			respool.get_or_allocate("sound", "c")`, "exhausted"},
		{"bad key", `respool.lookup("sound", {})`, "name or key expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.DoString(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEngine_HostAndScriptShareState(t *testing.T) {
	e, sounds := newEngine(t, 4)

	h, err := sounds.Create(100)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := sounds.SetName(namehash.String("music/theme.ogg"), h); err != nil {
		t.Fatalf("SetName: %v", err)
	}

	err = e.DoString(`
		function find_theme()
			local h = respool.lookup("sound", "music/theme.ogg")
			if h == nil then return -1 end
			return h:index()
		end
		function live_count()
			return #respool.handles("sound")
		end
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	got, err := e.Call("find_theme")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != lua.LNumber(0) {
		t.Fatalf("find_theme = %v", got)
	}
	if n, _ := e.Call("live_count"); n != lua.LNumber(1) {
		t.Fatalf("live_count = %v", n)
	}

	if _, err := e.Call("nope"); err == nil {
		t.Fatal("calling a missing function should fail")
	}
}

func TestEngine_LoadDir(t *testing.T) {
	e, sounds := newEngine(t, 4)
	dir := t.TempDir()

	files := map[string]string{
		"01_alloc.lua": `respool.get_or_allocate("sound", "one")`,
		"02_alloc.lua": `respool.get_or_allocate("sound", "two")`,
		"notes.txt":    `not lua`,
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := e.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if sounds.Count() != 2 {
		t.Fatalf("count = %d, want 2", sounds.Count())
	}
	if err := e.LoadDir(filepath.Join(dir, "missing")); err != nil {
		t.Fatalf("missing dir: %v", err)
	}

	if err := e.DoString(`assert(respool.purge("sound") == 2)`); err != nil {
		t.Fatalf("purge: %v", err)
	}
}

package scene

import (
	"errors"
	"testing"
)

func testCatalog() *Catalog {
	return &Catalog{Scenes: []string{"Assets/Scenes/Menu.unity", "Assets/Scenes/Level1.unity", "Level2", "Assets/Scenes/Win.unity"}}
}

func TestName(t *testing.T) {
	c := testCatalog()
	cases := []struct {
		name string
		ref  Ref
		want string
	}{
		{"path_with_extension", 0, "Menu"},
		{"second", 1, "Level1"},
		{"no_directory", 2, "Level2"},
		{"out_of_range", 7, "#7"},
		{"negative", InvalidRef, "#-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Name(c, tc.ref); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	if got := Name(nil, 0); got != "#0" {
		t.Fatalf("nil resolver should render index, got %q", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog([]byte("scenes:\n  - Scenes/Menu.scene\n  - ' Scenes/Level1.scene '\n"))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if c.Count() != 2 {
		t.Fatalf("expected 2 scenes, got %d", c.Count())
	}
	if ref, ok := c.IndexByName("Level1"); !ok || ref != 1 {
		t.Fatalf("expected Level1 at 1, got %v ok=%v", ref, ok)
	}
	if ref, ok := c.IndexByName("Scenes/Menu.scene"); !ok || ref != 0 {
		t.Fatalf("expected lookup by path, got %v ok=%v", ref, ok)
	}
	if _, ok := c.IndexByName("Missing"); ok {
		t.Fatalf("missing scene should not resolve")
	}

	if _, err := LoadCatalog([]byte("scenes: [")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestManagerLoadAndNotify(t *testing.T) {
	m, err := NewManager(testCatalog(), 0, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	type note struct {
		ref  Ref
		mode LoadMode
		seen Ref
	}
	var notes []note
	sub := m.Subscribe(func(ref Ref, mode LoadMode) {
		notes = append(notes, note{ref: ref, mode: mode, seen: m.Active()})
	})

	if err := m.Load(1, Single); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("notification must wait for Update")
	}
	m.Update(0)
	m.Update(0)
	if len(notes) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notes))
	}
	if notes[0].ref != 1 || notes[0].seen != 1 {
		t.Fatalf("expected active scene updated before notify, got %+v", notes[0])
	}

	if err := m.Load(3, Additive); err != nil {
		t.Fatalf("additive load: %v", err)
	}
	m.Update(0)
	if m.Active() != 1 {
		t.Fatalf("additive load must not change the active scene, got %v", m.Active())
	}
	if notes[1].mode != Additive {
		t.Fatalf("expected additive notification, got %v", notes[1].mode)
	}

	sub.Close()
	sub.Close()
	_ = m.Load(0, Single)
	m.Update(0)
	if len(notes) != 2 {
		t.Fatalf("closed subscription should not be notified, got %d", len(notes))
	}
}

func TestManagerRejectsUnknown(t *testing.T) {
	m, err := NewManager(testCatalog(), 0, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := m.Load(42, Single); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("expected ErrUnknownScene, got %v", err)
	}
	if err := m.LoadByName("Nowhere", Single); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("expected ErrUnknownScene, got %v", err)
	}
	if m.Pending() {
		t.Fatalf("rejected loads must not queue")
	}
	if _, err := NewManager(testCatalog(), 10, nil); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("expected invalid initial scene error, got %v", err)
	}
}

func TestManagerRejectsSecondLoad(t *testing.T) {
	m, _ := NewManager(testCatalog(), 0, nil)
	var got []Ref
	m.Subscribe(func(ref Ref, _ LoadMode) { got = append(got, ref) })
	if err := m.Load(1, Single); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := m.Load(3, Single); !errors.Is(err, ErrLoadPending) {
		t.Fatalf("expected ErrLoadPending, got %v", err)
	}
	if err := Advance(m, ""); !errors.Is(err, ErrLoadPending) {
		t.Fatalf("expected advance to be refused while pending, got %v", err)
	}
	m.Update(0)
	m.Update(0)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected one notification for the accepted load, got %v", got)
	}
	if err := m.Load(3, Single); err != nil {
		t.Fatalf("load after completion: %v", err)
	}
}

func TestManagerLoadFromCallback(t *testing.T) {
	m, _ := NewManager(testCatalog(), 0, nil)
	var got []Ref
	m.Subscribe(func(ref Ref, _ LoadMode) {
		got = append(got, ref)
		if ref == 1 {
			if err := m.Load(2, Single); err != nil {
				t.Fatalf("load from callback: %v", err)
			}
		}
	})
	_ = m.Load(1, Single)
	m.Update(0)
	m.Update(0)
	if len(got) != 2 || got[1] != 2 || m.Active() != 2 {
		t.Fatalf("expected a redirect issued during dispatch to load next, got %v", got)
	}
}

func TestManagerOnLoadFailure(t *testing.T) {
	m, _ := NewManager(testCatalog(), 0, nil)
	diskErr := errors.New("disk")
	m.OnLoad = func(Ref, LoadMode) error { return diskErr }
	called := false
	m.Subscribe(func(Ref, LoadMode) { called = true })

	type failure struct {
		ref  Ref
		mode LoadMode
		err  error
	}
	var failures []failure
	sub := m.SubscribeFailures(func(ref Ref, mode LoadMode, err error) {
		failures = append(failures, failure{ref, mode, err})
	})

	_ = m.Load(1, Single)
	m.Update(0)
	if called || m.Active() != 0 {
		t.Fatalf("failed load must not notify or switch scenes")
	}
	if len(failures) != 1 || failures[0].ref != 1 || failures[0].mode != Single || !errors.Is(failures[0].err, diskErr) {
		t.Fatalf("expected one failure report, got %+v", failures)
	}
	if m.Pending() {
		t.Fatalf("failed load should not stay queued")
	}

	sub.Close()
	_ = m.Load(2, Single)
	m.Update(0)
	if len(failures) != 1 {
		t.Fatalf("closed failure subscription should not be called")
	}
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		name     string
		active   Ref
		override string
		want     Ref
		err      error
	}{
		{"next_index", 0, "", 1, nil},
		{"override_by_name", 0, "Win", 3, nil},
		{"override_whitespace_ignored", 1, "   ", 2, nil},
		{"override_unknown", 0, "Credits", 0, ErrUnknownScene},
		{"past_end", 3, "", 3, ErrNoNextScene},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := NewManager(testCatalog(), tc.active, nil)
			err := Advance(m, tc.override)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("advance: %v", err)
			}
			m.Update(0)
			if m.Active() != tc.want {
				t.Fatalf("expected active %v, got %v", tc.want, m.Active())
			}
		})
	}
}

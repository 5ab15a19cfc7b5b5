package diag

import (
	"sync"
	"testing"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	origin := Origin{Record: "Point", Method: "__init__"}
	if !b.Add(NewError(DrvUnsupportedFeature, origin, "a")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(DrvUnsupportedFeature, origin, "b")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(DrvUnsupportedFeature, origin, "c")) {
		t.Fatal("third add should be dropped")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if !b.HasErrors() {
		t.Fatal("expected errors")
	}
}

func TestBagNegativeLimit(t *testing.T) {
	b := NewBag(-1)
	if b.Add(New(SevInfo, DrvInfo, Origin{}, "x")) {
		t.Fatal("bag with negative limit must not accept items")
	}
}

func TestBagSort(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, DrvInvalidDecl, Origin{Record: "B"}, "w"))
	b.Add(NewError(DrvInternalBug, Origin{Record: "A", Method: "__ne__"}, "bug"))
	b.Add(NewError(DrvUnsupportedFeature, Origin{Record: "A", Method: "__init__"}, "factory"))
	b.Sort()
	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	want := []string{"A.__init__", "A.__ne__", "B"}
	for i, w := range want {
		if got := items[i].Origin.String(); got != w {
			t.Errorf("items[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	b := NewBag(1000)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range 50 {
				b.Add(New(SevInfo, DrvInfo, Origin{Record: "R"}, "x"))
			}
			_ = i
		}(i)
	}
	wg.Wait()
	if b.Len() != 400 {
		t.Fatalf("len = %d, want 400", b.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		DrvUnsupportedFeature: "DRV1001",
		RunIncomparableNone:   "RUN2001",
		IODecodeFailure:       "IO3003",
		Code(42):              "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	origin := Origin{Record: "P", Method: "__hash__"}
	ReportError(r, RunHashUnsupported, origin, "no hash").Emit()
	ReportError(r, RunHashUnsupported, origin, "no hash").Emit()
	builder := ReportError(r, RunHashUnsupported, origin, "no hash").WithNote("again")
	builder.Emit()
	builder.Emit()
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
}

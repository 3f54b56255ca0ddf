package notify

import (
	"testing"

	"github.com/aldred/star-concord/internal/empire"
)

func TestGalactic(t *testing.T) {
	if !(Notice{Audience: empire.None}).Galactic() {
		t.Error("a notice addressed to no one is a broadcast")
	}
	if (Notice{Audience: 2}).Galactic() {
		t.Error("an addressed notice is not a broadcast")
	}
}

func TestRecorder(t *testing.T) {
	var forwarded []Notice
	next := dispatchFunc(func(n Notice) { forwarded = append(forwarded, n) })

	rec := &Recorder{Next: next}
	for i := 0; i < 5; i++ {
		rec.Dispatch(Notice{Turn: i, Audience: empire.ID(i % 2), Event: EventIncident})
	}

	if len(rec.Notices) != 5 || len(forwarded) != 5 {
		t.Fatalf("recorded %d, forwarded %d, want 5 and 5", len(rec.Notices), len(forwarded))
	}

	recent := rec.Recent(2)
	if len(recent) != 2 || recent[0].Turn != 3 || recent[1].Turn != 4 {
		t.Errorf("Recent(2) = %v, want the last two", recent)
	}
	if got := rec.Recent(10); len(got) != 5 {
		t.Errorf("Recent(10) = %d notices, want all 5", len(got))
	}
}

type dispatchFunc func(Notice)

func (f dispatchFunc) Dispatch(n Notice) { f(n) }

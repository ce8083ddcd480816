package sim

import "testing"

func TestPacketKind_String(t *testing.T) {
	cases := map[PacketKind]string{
		KindData:         "Data",
		KindBeacon:       "Beacon",
		KindProbe:        "Probe",
		PacketKind(0xFF): "Unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %s, want %s", k, got, want)
		}
	}
}

func TestDataPacket_Clone_IndependentPath(t *testing.T) {
	p := &DataPacket{Path: Path{"a", "b"}, Size: 100}
	c := p.Clone()
	c.Path[0] = "z"
	if p.Path[0] != "a" {
		t.Error("clone's path mutation leaked into original")
	}
}

func TestBeacon_Clone_DeepCopiesPathAndHops(t *testing.T) {
	b := NewBeacon("r1", "as1")
	b.Path = Path{"r1"}
	b.Hops = []HopInfo{{ASId: "as1", RouterID: "r1"}}

	c := b.Clone()
	c.Path[0] = "mutated"
	c.Hops[0].RouterID = "mutated"

	if b.Path[0] != "r1" {
		t.Error("clone's path mutation leaked into original beacon")
	}
	if b.Hops[0].RouterID != "r1" {
		t.Error("clone's hops mutation leaked into original beacon")
	}

	c.Path = append(c.Path, "extra")
	if len(b.Path) != 1 {
		t.Error("appending to clone's path affected original's length")
	}
}

func TestBeacon_ASPath_DedupesConsecutiveAS(t *testing.T) {
	b := NewBeacon("r1", "as1")
	b.Hops = []HopInfo{
		{ASId: "as1", RouterID: "r1"},
		{ASId: "as1", RouterID: "r2"}, // still within origin AS (router-local hop)
		{ASId: "as2", RouterID: "r3"},
	}
	got := b.ASPath()
	want := []ASID{"as1", "as2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNewProbe_FixedSize(t *testing.T) {
	p := NewProbe(1, Path{"r1", "r2"}, "h1", "r2", 0)
	if p.Size != 64 {
		t.Errorf("expected fixed 64-byte probe, got %d", p.Size)
	}
	if p.IsReply {
		t.Error("expected a freshly constructed probe to not be a reply")
	}
}

func TestProbePacket_Clone_IndependentPath(t *testing.T) {
	p := NewProbe(1, Path{"r1", "r2"}, "h1", "r2", 0)
	c := p.Clone()
	c.Path[0] = "mutated"
	if p.Path[0] != "r1" {
		t.Error("clone's path mutation leaked into original")
	}
}

func TestFrame_Kind_SizeBytes(t *testing.T) {
	var f Frame = &DataPacket{Size: 500}
	if f.Kind() != KindData || f.SizeBytes() != 500 {
		t.Errorf("data packet frame mismatch: kind=%v size=%d", f.Kind(), f.SizeBytes())
	}

	f = NewBeacon("r1", "as1")
	if f.Kind() != KindBeacon || f.SizeBytes() != beaconSizeBytes {
		t.Errorf("beacon frame mismatch: kind=%v size=%d", f.Kind(), f.SizeBytes())
	}

	f = NewProbe(1, Path{"r1"}, "h1", "r1", 0)
	if f.Kind() != KindProbe || f.SizeBytes() != 64 {
		t.Errorf("probe frame mismatch: kind=%v size=%d", f.Kind(), f.SizeBytes())
	}
}

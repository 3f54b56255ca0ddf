package diplomacy

// TreatyKind is the bilateral treaty state between two empires. Both
// directed embassy records of a pair always hold the same kind and start
// turn; only the Registry mutates it, and always on both sides.
type TreatyKind uint8

const (
	TreatyNone TreatyKind = iota
	TreatyPeace
	TreatyPact
	TreatyAlliance
	TreatyWar
)

var treatyNames = [...]string{"none", "peace", "pact", "alliance", "war"}

func (k TreatyKind) String() string {
	if int(k) < len(treatyNames) {
		return treatyNames[k]
	}
	return "none"
}

// Treaty is the treaty state stored on each directed embassy record.
// PeaceLeft counts down the remaining turns of a peace treaty.
type Treaty struct {
	Kind      TreatyKind
	PeaceLeft int
}

func (t Treaty) IsNone() bool     { return t.Kind == TreatyNone }
func (t Treaty) IsPeace() bool    { return t.Kind == TreatyPeace }
func (t Treaty) IsPact() bool     { return t.Kind == TreatyPact }
func (t Treaty) IsAlliance() bool { return t.Kind == TreatyAlliance }
func (t Treaty) IsWar() bool      { return t.Kind == TreatyWar }

package frontend

// MIRProvider maps function (or method) definition ids to their MIR bodies
// (spec §6, "a MIR table mapping function definition ids to full MIR
// bodies"). It is the third leg of the frontend contract alongside
// TypeContext and the HIR Crate.
type MIRProvider interface {
	MIR(id DefID) (*MIR, bool)
}

// FakeMIRTable is an in-memory MIRProvider, the reference implementation
// used by this repository's own tests (mirrors FakeContext's role for
// TypeContext).
type FakeMIRTable map[DefID]*MIR

func (t FakeMIRTable) MIR(id DefID) (*MIR, bool) {
	m, ok := t[id]
	return m, ok
}

package render

import "testing"

func TestMapperRow(t *testing.T) {
	m := &Mapper{BaselineRow: 40, RowsPerMs: 0.02} // 20 rows per second

	tests := map[struct{ occ, now uint64 }]int{
		{1500, 1500}: 40, // on the bar
		{1500, 1000}: 30, // 500ms out, 10 rows above
		{1500, 1475}: 39, // half a row out rounds away from the bar
		{1500, 1600}: 42, // past the bar it keeps scrolling down
		{0, 2000}:    80,
	}
	for in, expected := range tests {
		if got := m.Row(in.occ, in.now); got != expected {
			t.Log("occ     ", in.occ)
			t.Log("now     ", in.now)
			t.Log("got     ", got)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

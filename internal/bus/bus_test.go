package bus

import (
	"errors"
	"testing"
)

func TestPublishSkipsSender(t *testing.T) {
	b := New()
	var chartGot, tableGot []string

	b.Subscribe("chart", func(m RowHover) { chartGot = append(chartGot, m.Code) })
	b.Subscribe("table", func(m RowHover) { tableGot = append(tableGot, m.Code) })

	b.Publish("chart", NewRowHover("04"))
	b.Publish("table", RowHover{Code: "07"})

	if len(chartGot) != 1 || chartGot[0] != "07" {
		t.Fatalf("chart received %v, want [07]", chartGot)
	}
	if len(tableGot) != 1 || tableGot[0] != "04" {
		t.Fatalf("table received %v, want [04]", tableGot)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	unsubscribe := b.Subscribe("table", func(RowHover) { calls++ })
	b.Publish("chart", NewRowHover("1"))
	unsubscribe()
	b.Publish("chart", NewRowHover("2"))
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := NewRowHover("0401").Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"type":"bar-chart-row-hover","code":"0401"}` {
		t.Fatalf("encoded = %s", data)
	}

	m, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Code != "0401" {
		t.Fatalf("code = %q, want 0401", m.Code)
	}

	_, err = Decode([]byte(`{"type":"resize","code":"1"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if _, err := Decode([]byte(`{`)); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}

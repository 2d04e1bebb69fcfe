package ws

import (
	"testing"

	"montyhall/internal/service"
)

func TestParseIntent(t *testing.T) {
	cases := []struct {
		raw    string
		want   intent
		wantOK bool
	}{
		{`{"type":"select","value":2}`, intent{action: service.ActionSelect, door: 2}, true},
		{`{"type":"select","value":7}`, intent{action: service.ActionSelect, door: 7}, true},
		{`{"type":"switch"}`, intent{action: service.ActionSwitch}, true},
		{`{"type":"stay"}`, intent{action: service.ActionStay}, true},
		{`{"type":"reset"}`, intent{action: service.ActionReset}, true},
		{`{"type":"ping"}`, intent{ping: true}, true},
		{`{"type":"select"}`, intent{}, false},
		{`{"type":"select","value":"left"}`, intent{}, false},
		{`{"type":"move","value":"rock"}`, intent{}, false},
		{`not json`, intent{}, false},
	}

	for _, tc := range cases {
		got, err := parseIntent([]byte(tc.raw))
		if (err == nil) != tc.wantOK {
			t.Fatalf("parseIntent(%s) err = %v; wantOK %v", tc.raw, err, tc.wantOK)
		}
		if got != tc.want {
			t.Fatalf("parseIntent(%s) = %+v; want %+v", tc.raw, got, tc.want)
		}
	}
}

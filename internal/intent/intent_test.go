package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsActionToOpen(t *testing.T) {
	in := New("contacts", "", nil)

	require.Equal(t, "contacts", in.ApplicationID())
	require.Equal(t, ActionOpen, in.Action())
	require.Empty(t, in.Params())
}

func TestIntent_ParamsAreCopied(t *testing.T) {
	params := map[string]any{"id": "42"}
	in := New("contacts", ActionView, params)

	params["id"] = "mutated"

	got := in.Params()
	got["id"] = "also mutated"

	v, ok := in.Param("id")
	require.True(t, ok)
	require.Equal(t, "42", v)
}

func TestIntent_String(t *testing.T) {
	in := New("contacts", ActionView, map[string]any{"b": 2, "a": "x"})

	require.Equal(t,
		`[Intent] applicationId="contacts", action="view", params={"a":"x","b":2}`,
		in.String(),
	)
	require.Equal(t,
		`[Intent] applicationId="notes", action="open", params={}`,
		New("notes", "", nil).String(),
	)
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{name: "intent", v: New("a", "", nil), want: true},
		{name: "nil intent", v: (*Intent)(nil), want: false},
		{name: "nil", v: nil, want: false},
		{
			name: "plain map with same fields",
			v:    map[string]any{"applicationId": "a", "action": "open", "params": map[string]any{}},
			want: false,
		},
		{name: "struct value", v: Intent{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsValid(tt.v))
		})
	}
}

func TestFromPayload(t *testing.T) {
	in := FromPayload(map[string]any{
		"applicationId": "docs",
		"action":        "edit",
		"params":        map[string]any{"doc": float64(7)},
	})

	require.True(t, in.Equal(New("docs", "edit", map[string]any{"doc": float64(7)})))

	if diff := cmp.Diff(map[string]any{"doc": float64(7)}, in.Params()); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	empty := FromPayload(map[string]any{})
	require.Equal(t, "", empty.ApplicationID())
	require.Equal(t, ActionOpen, empty.Action())
}

func TestEqual_Nil(t *testing.T) {
	var a, b *Intent

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(New("x", "", nil)))
}

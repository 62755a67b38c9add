package protocol

import (
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/valu-sdk-go/internal/errors"
)

func TestEncode_Envelope(t *testing.T) {
	version := 2

	data, err := Encode("valuApi", KindCreatePointer, &CreatePointer{
		GUID:      "g1",
		API:       "users",
		Version:   &version,
		RequestID: "r1",
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	require.Equal(t, "valuApi", got["target"])
	require.Equal(t, KindCreatePointer, got["name"])
	require.Equal(t, map[string]any{
		"guid":      "g1",
		"api":       "users",
		"version":   float64(2),
		"requestId": "r1",
	}, got["message"])
}

func TestEncode_LatestVersionOmitted(t *testing.T) {
	data, err := Encode("valuApi", KindCreatePointer, &CreatePointer{GUID: "g", API: "users", RequestID: "r"})
	require.NoError(t, err)
	require.NotContains(t, string(data), "version")
}

func TestEncode_RunCommandHasNoRequestID(t *testing.T) {
	data, err := Encode("valuApi", KindRunCommand, &RunCommand{Command: CommandPushRoute, Data: "/home"})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"target":"valuApi","name":"api:run-command","message":{"command":"pushRoute","data":"/home"}}`,
		string(data),
	)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantNil  bool
		wantKind string
		wantID   string
	}{
		{
			name:     "addressed frame",
			data:     `{"target":"valuApi","name":"api:run-completed","message":{"requestId":"r1","result":1}}`,
			wantKind: KindRunCompleted,
			wantID:   "r1",
		},
		{
			name:     "missing payload",
			data:     `{"target":"valuApi","name":"api:ready"}`,
			wantKind: KindReady,
		},
		{
			name:    "foreign target",
			data:    `{"target":"otherApi","name":"api:ready","message":{}}`,
			wantNil: true,
		},
		{
			name:    "missing target",
			data:    `{"name":"api:ready","message":{}}`,
			wantNil: true,
		},
		{
			name:    "missing kind",
			data:    `{"target":"valuApi","message":{}}`,
			wantNil: true,
		},
		{
			name:    "foreign frame with unparsable payload",
			data:    `{"target":"otherApi","name":"x","message":[1,2,3]}`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Decode([]byte(tt.data), "valuApi")
			require.NoError(t, err)

			if tt.wantNil {
				require.Nil(t, in)

				return
			}

			require.NotNil(t, in)
			require.Equal(t, tt.wantKind, in.Kind)
			require.Equal(t, tt.wantID, in.RequestID())
			require.NotNil(t, in.Payload)
		})
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"target":`), "valuApi")

	decodeErr, ok := stderrors.AsType[*errors.FrameDecodeError](err)
	require.True(t, ok)
	require.Equal(t, `{"target":`, decodeErr.RawData)
}

func TestReplyFrom(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		r := ReplyFrom(map[string]any{"requestId": "r", "result": "ok"})
		require.False(t, r.IsErr())
		require.Equal(t, "ok", r.Value())
	})

	t.Run("string error", func(t *testing.T) {
		r := ReplyFrom(map[string]any{"requestId": "r", "error": "not found"})
		require.True(t, r.IsErr())
		require.Equal(t, "not found", r.Error())
		require.Nil(t, r.Value())
	})

	t.Run("object error", func(t *testing.T) {
		r := ReplyFrom(map[string]any{"error": map[string]any{"message": "boom", "code": 3}})
		require.Equal(t, "boom", r.Error())
	})

	t.Run("structured error without message", func(t *testing.T) {
		r := ReplyFrom(map[string]any{"error": map[string]any{"code": float64(3)}})
		require.Equal(t, `{"code":3}`, r.Error())
	})

	t.Run("null error is success", func(t *testing.T) {
		r := ReplyFrom(map[string]any{"error": nil, "result": 5})
		require.False(t, r.IsErr())
		require.Equal(t, 5, r.Value())
	})

	t.Run("payload without result", func(t *testing.T) {
		r := ReplyFrom(map[string]any{"requestId": "r", "version": float64(3)})
		require.Equal(t, map[string]any{"version": float64(3)}, r.Value())

		v, ok := r.Field("version")
		require.True(t, ok)
		require.Equal(t, float64(3), v)
	})
}

func TestNewRequestID_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		id := NewRequestID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)

		seen[id] = struct{}{}
	}
}

func TestTable_ClaimIsExclusive(t *testing.T) {
	table := NewTable[chan Reply]()
	ch := make(chan Reply, 1)

	require.NoError(t, table.Put("r1", ch))
	require.ErrorIs(t, table.Put("r1", ch), ErrDuplicateRequestID)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)

	for range 20 {
		wg.Go(func() {
			if _, ok := table.Claim("r1"); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 0, table.Len())
}

func TestTable_Drain(t *testing.T) {
	table := NewTable[int]()
	require.NoError(t, table.Put("a", 1))
	require.NoError(t, table.Put("b", 2))

	require.ElementsMatch(t, []string{"a", "b"}, table.IDs())

	drained := table.Drain()
	require.Equal(t, map[string]int{"a": 1, "b": 2}, drained)
	require.Equal(t, 0, table.Len())
	require.False(t, table.Has("a"))
}

func TestTombstones_Expire(t *testing.T) {
	now := time.Unix(1000, 0)
	stones := NewTombstones(time.Second)
	stones.now = func() time.Time { return now }

	require.False(t, stones.Seen("r1"))

	stones.Mark("r1")
	require.True(t, stones.Seen("r1"))

	now = now.Add(2 * time.Second)
	require.False(t, stones.Seen("r1"))
}

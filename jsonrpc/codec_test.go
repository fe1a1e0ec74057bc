package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantBatch bool
		wantCode  ErrorCode
	}{
		{
			name:      "single request",
			input:     `{"jsonrpc":"2.0","method":"ping","id":1}`,
			wantCount: 1,
		},
		{
			name:      "batch of two",
			input:     `[{"jsonrpc":"2.0","method":"ping","id":1},{"jsonrpc":"2.0","method":"ping","id":2}]`,
			wantCount: 2,
			wantBatch: true,
		},
		{
			name:     "malformed JSON",
			input:    `{"jsonrpc": "2.0" method: nope}`,
			wantCode: ErrParse,
		},
		{
			name:     "malformed batch",
			input:    `[{"jsonrpc":"2.0"`,
			wantCode: ErrParse,
		},
		{
			name:      "empty batch",
			input:     `[]`,
			wantBatch: true,
			wantCode:  ErrInvalidRequest,
		},
		{
			name:     "empty input",
			input:    "",
			wantCode: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws, batch, err := Split([]byte(tt.input))
			if tt.wantCode != 0 {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantCode, err.Code)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.wantBatch, batch)
			assert.Len(t, raws, tt.wantCount)
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	require.Nil(t, err)
	assert.Equal(t, "tools/list", req.Method)
	require.NotNil(t, req.ID)
	assert.True(t, req.ID.Equal(1))
	assert.False(t, req.IsNotification())
}

func TestDecodeRequestNotification(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.Nil(t, err)
	assert.True(t, req.IsNotification())
}

func TestDecodeRequestRejectsBadEnvelope(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing version", `{"method":"ping","id":1}`},
		{"wrong version", `{"jsonrpc":"1.0","method":"ping","id":1}`},
		{"empty method", `{"jsonrpc":"2.0","method":"","id":1}`},
		{"not an object", `"ping"`},
		{"array element", `1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.input))
			require.NotNil(t, err)
			assert.Equal(t, ErrInvalidRequest, err.Code)
		})
	}
}

func TestDecodeRequestRecoversID(t *testing.T) {
	// The ID survives envelope validation failures so the error response
	// can echo it.
	req, err := DecodeRequest([]byte(`{"jsonrpc":"1.0","method":"ping","id":9}`))
	require.NotNil(t, err)
	require.NotNil(t, req.ID)
	assert.True(t, req.ID.Equal(9))
}

func TestDecodeRequestIgnoresUnknownFields(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","method":"ping","id":1,"extra":{"a":1}}`))
	require.Nil(t, err)
	assert.Equal(t, "ping", req.Method)
}

func TestEncodeResponse(t *testing.T) {
	resp := NewResponse(1, map[string]interface{}{"ok": true}, nil)
	out, err := EncodeResponse(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"ok":true},"id":1}`, string(out))
}

func TestEncodeResponseZeroValueResult(t *testing.T) {
	resp := NewResponse(1, 0.0, nil)
	out, err := EncodeResponse(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":0,"id":1}`, string(out))
}

func TestEncodeResponseError(t *testing.T) {
	resp := NewResponse(nil, nil, NewError(ErrParse, nil))
	out, err := EncodeResponse(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error"},"id":null}`, string(out))

	// An error response never carries a result member
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	_, hasResult := decoded["result"]
	assert.False(t, hasResult)
}

func TestEncodeBatchPreservesOrder(t *testing.T) {
	out, err := EncodeBatch([]Response{
		NewResponse(2, "b", nil),
		NewResponse(1, "a", nil),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"jsonrpc":"2.0","result":"b","id":2},{"jsonrpc":"2.0","result":"a","id":1}]`, string(out))
}

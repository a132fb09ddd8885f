package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := TransferRequest{
		Recipient: "  0xB  ",
		Amount:    " 1.5\n",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "0xB", req.Recipient)
	assert.Equal(t, Amount("1.5"), req.Amount)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	addr := "  0xabc  "
	req := struct {
		Address *string
		Missing *string
	}{Address: &addr}
	SanitizeStruct(&req)

	assert.Equal(t, "0xabc", *req.Address)
	assert.Nil(t, req.Missing)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	req := TransferRequest{Recipient: " 0xB "}
	SanitizeStruct(req)
	assert.Equal(t, " 0xB ", req.Recipient)
}

func TestIsSuiAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x2", true},
		{"0x" + strings.Repeat("a", 64), true},
		{"0xABCdef0123", true},
		{"0x" + strings.Repeat("a", 65), false},
		{"0x", false},
		{"abc", false},
		{"0xzz", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSuiAddress(tt.in), tt.in)
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Amount
	}{
		{"string", `{"amount":"1.5"}`, "1.5"},
		{"number", `{"amount":1.5}`, "1.5"},
		{"integer", `{"amount":2}`, "2"},
		{"many decimals kept", `{"amount":0.000000001}`, "0.000000001"},
		{"null", `{"amount":null}`, ""},
		{"missing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TransferRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Amount)
		})
	}
}

func TestAmount_UnmarshalJSON_Invalid(t *testing.T) {
	var req TransferRequest
	assert.Error(t, json.Unmarshal([]byte(`{"amount":true}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":[1]}`), &req))
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagValueIsInteger(t *testing.T) {
	v, err := Flag(true).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = Flag(false).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestFlagScan(t *testing.T) {
	cases := []struct {
		src  any
		want Flag
	}{
		{int64(1), true},
		{int64(0), false},
		{true, true},
		{nil, false},
		{[]byte("1"), true},
		{[]byte("0"), false},
		{"false", false},
	}
	for _, tc := range cases {
		var f Flag
		require.NoError(t, f.Scan(tc.src))
		assert.Equal(t, tc.want, f, "%#v", tc.src)
	}

	var f Flag
	assert.Error(t, f.Scan(3.5))
}

func TestFlagMarshalsAsBool(t *testing.T) {
	b, err := json.Marshal(struct {
		A Flag `json:"a"`
		B Flag `json:"b"`
	}{A: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":false}`, string(b))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StatusAway.Valid())
	assert.False(t, MemberStatus("LOST").Valid())
	assert.True(t, ContactCounseling.Valid())
	assert.False(t, ContactType("EMAIL").Valid())
	assert.True(t, RoleTeam.Valid())
	assert.False(t, UserRole("OWNER").Valid())
}

package payload

import (
	"testing"

	"pastoral-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) Map {
	t.Helper()
	m, err := Decode([]byte(body))
	require.NoError(t, err)
	return m
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"x"`, `{bad`, `null`} {
		_, err := Decode([]byte(body))
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), body)
	}

	m, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestFlagTruthiness(t *testing.T) {
	m := decode(t, `{"a":true,"b":1,"c":"1","d":"yes","e":0,"f":"false","g":"","h":null,"i":2.5}`)
	want := map[string]bool{"a": true, "b": true, "c": true, "d": true, "e": false, "f": false, "g": false, "h": false, "i": true, "absent": false}
	for key, exp := range want {
		got, err := m.Flag(key)
		require.NoError(t, err, key)
		assert.Equal(t, exp, got, key)
	}

	_, err := decode(t, `{"x":"maybe"}`).Flag("x")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	_, err = decode(t, `{"x":[1]}`).Flag("x")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestOptionalID(t *testing.T) {
	m := decode(t, `{"n":7,"s":"12","e":"","z":null,"neg":-1,"f":1.5,"b":true}`)

	id, err := m.OptionalID("n")
	require.NoError(t, err)
	assert.Equal(t, uint(7), *id)

	id, err = m.OptionalID("s")
	require.NoError(t, err)
	assert.Equal(t, uint(12), *id)

	for _, key := range []string{"e", "z", "absent"} {
		id, err = m.OptionalID(key)
		require.NoError(t, err)
		assert.Nil(t, id, key)
	}

	for _, key := range []string{"neg", "f", "b"} {
		_, err = m.OptionalID(key)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), key)
	}
}

func TestStrings(t *testing.T) {
	m := decode(t, `{"name":"  Ana  ","blank":"   ","num":3,"phone":""}`)

	name, err := m.RequiredString("name")
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)

	_, err = m.RequiredString("blank")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	_, err = m.RequiredString("missing")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = m.OptionalString("num")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	phone, err := m.OptionalString("phone")
	require.NoError(t, err)
	require.NotNil(t, phone)
	assert.Equal(t, "", *phone)
}

func TestOptionalDate(t *testing.T) {
	m := decode(t, `{"ok":"2024-02-29","empty":"","bad":"29/02/2024"}`)

	d, err := m.OptionalDate("ok")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", *d)

	d, err = m.OptionalDate("empty")
	require.NoError(t, err)
	assert.Equal(t, "", *d)

	_, err = m.OptionalDate("bad")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("15", "member")
	require.NoError(t, err)
	assert.Equal(t, uint(15), id)

	for _, raw := range []string{"", "0", "abc", "-3"} {
		_, err := ParseID(raw, "member")
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput), raw)
	}
}

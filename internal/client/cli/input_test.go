package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func stubTerminal(t *testing.T, terminal bool) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() { isTerminal = old })
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true)
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(rdr(""), &out)
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(rdr(""), &out)
	require.Error(t, err)
}

func TestGetPassword_Piped(t *testing.T) {
	stubTerminal(t, false)

	var out bytes.Buffer
	in := rdr(" pass word \r\nnext\n")
	pw, err := GetPassword(in, &out)
	require.NoError(t, err)
	require.Equal(t, " pass word ", string(pw))

	rest, err := GetSimpleText(in, "", &out)
	require.NoError(t, err)
	require.Equal(t, "next", rest)
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer

	got, err := GetWithDefault(rdr("\n"), "Email", "a@b.c", &out)
	require.NoError(t, err)
	require.Equal(t, "a@b.c", got)
	require.Contains(t, out.String(), "Email [a@b.c]")

	got, err = GetWithDefault(rdr("new@b.c\n"), "Email", "a@b.c", &out)
	require.NoError(t, err)
	require.Equal(t, "new@b.c", got)
}

func TestGetScore(t *testing.T) {
	var out bytes.Buffer

	got, err := GetScore(rdr("\n"), "Math", 88.5, &out)
	require.NoError(t, err)
	require.Equal(t, 88.5, got)

	got, err = GetScore(rdr("91\n"), "Math", 88.5, &out)
	require.NoError(t, err)
	require.Equal(t, 91.0, got)

	_, err = GetScore(rdr("ninety\n"), "Math", 0, &out)
	require.ErrorContains(t, err, "not a number")

	_, err = GetScore(rdr("-1\n"), "Math", 0, &out)
	require.ErrorContains(t, err, "must not be negative")
}

func TestParseID(t *testing.T) {
	id, err := parseID([]string{"42", "extra"}, "deluser <id>")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = parseID(nil, "deluser <id>")
	require.EqualError(t, err, "usage: deluser <id>")

	for _, bad := range []string{"0", "-3", "abc"} {
		_, err = parseID([]string{bad}, "deluser <id>")
		require.Error(t, err, bad)
	}
}

func TestParsePaging(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		page     int
		size     int
		wantErr  bool
		wantPage int
		wantSize int
	}{
		{name: "defaults", size: 10, wantSize: 10},
		{name: "one-based page", args: []string{"3"}, size: 10, wantPage: 2, wantSize: 10},
		{name: "page and size", args: []string{"1", "25"}, size: 10, wantPage: 0, wantSize: 25},
		{name: "page zero", args: []string{"0"}, wantErr: true},
		{name: "bad size", args: []string{"1", "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size, err := parsePaging(tt.args, tt.page, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantPage, page)
			require.Equal(t, tt.wantSize, size)
		})
	}
}

package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessions(t *testing.T) {
	out := "There are screens on:\n" +
		"\t12345.work\t(01/02/25 10:11:12)\t(Attached)\n" +
		"\t12346.scratch\t(01/02/25 10:11:12)\t(Detached)\n" +
		"\t12347.gone\t(01/02/25 10:11:12)\t(Dead ???)\n" +
		"\tnot-a-session-line\n" +
		"3 Sockets in /run/screen/S-user.\n"

	sessions := parseSessions(out)
	require.Len(t, sessions, 2)

	assert.Equal(t, "work", sessions[0].Name)
	assert.Equal(t, "12345.work", sessions[0].PidName)
	assert.Equal(t, StateAttached, sessions[0].State)

	assert.Equal(t, "scratch", sessions[1].Name)
	assert.Equal(t, StateDetached, sessions[1].State)
}

func TestParseSessionsNameWithDots(t *testing.T) {
	out := "\t999.my.dotted.name\t(date)\t(Detached)\n"
	sessions := parseSessions(out)
	require.Len(t, sessions, 1)
	assert.Equal(t, "my.dotted.name", sessions[0].Name)
	assert.Equal(t, "999.my.dotted.name", sessions[0].PidName)
}

func TestParseSessionsEmpty(t *testing.T) {
	assert.Nil(t, parseSessions("No Sockets found in /run/screen/S-user.\n"))
	assert.Nil(t, parseSessions(""))
	assert.Nil(t, parseSessions("   \n"))
}

func TestTrimDump(t *testing.T) {
	lines := []string{"", "  ", "first", "", "last   ", "", ""}
	got := trimDump(lines)
	assert.Equal(t, []string{"first", "", "last"}, got)

	assert.Nil(t, trimDump([]string{"", "   ", ""}))
	assert.Nil(t, trimDump(nil))
}

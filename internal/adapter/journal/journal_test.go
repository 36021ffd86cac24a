package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	j := openTestJournal(t)

	e, err := j.Record(Entry{Archive: "chat.zip", Status: StatusOK, Output: "chat_transcript.docx", Duration: 3 * time.Second})
	require.NoError(t, err)

	assert.NotEmpty(t, e.RunID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestListNewestFirst(t *testing.T) {
	j := openTestJournal(t)

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, archive := range []string{"a.zip", "b.zip", "c.zip"} {
		_, err := j.Record(Entry{Archive: archive, Status: StatusOK, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	entries, err := j.List(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c.zip", entries[0].Archive)
	assert.Equal(t, "b.zip", entries[1].Archive)
}

func TestListRoundTripsFields(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.Record(Entry{Archive: "chat.zip", Status: StatusFailed, Error: "parse error", Duration: 1500 * time.Millisecond})
	require.NoError(t, err)

	entries, err := j.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "parse error", entries[0].Error)
	assert.Equal(t, 1500*time.Millisecond, entries[0].Duration)
}

func TestLastSuccess(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.Record(Entry{Archive: "chat.zip", Status: StatusFailed})
	require.NoError(t, err)

	ok, err := j.LastSuccess("chat.zip")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = j.Record(Entry{Archive: "chat.zip", Status: StatusOK})
	require.NoError(t, err)

	ok, err = j.LastSuccess("chat.zip")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = j.LastSuccess("other.zip")
	require.NoError(t, err)
	assert.False(t, ok)
}

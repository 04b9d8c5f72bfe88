package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zuo-Peng/studylog/internal/parse"
)

const sampleLog = `Click;100;TextField;true
CursorPosition;90;10;10
Keystroke;110;a;true
Keystroke;120;Backspace;false
FieldCompletion;130;0
CursorPosition;150;20;30
TaskCompletion;200;0
`

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "db", "studylog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func writeLog(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestIndexAllStoresAndReloads(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeLog(t, root, "day1/p01.log", sampleLog)

	stats, err := IndexAll(db, root, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 1, Updated: 1}, stats)

	session, err := db.GetSessionByKey("day1/p01")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 7, session.EventCount)
	assert.Equal(t, 1, session.TaskCount)
	assert.Equal(t, int64(90), session.FirstTS)
	assert.Equal(t, int64(200), session.LastTS)

	events, err := db.LoadEvents("day1/p01")
	require.NoError(t, err)
	want, err := parse.ParseReader(strings.NewReader(sampleLog))
	require.NoError(t, err)
	assert.Equal(t, want, events, "events come back in file order with every field")

	counts, err := db.KindCounts("day1/p01")
	require.NoError(t, err)
	assert.Equal(t, 2, counts[parse.KindKeystroke])
	assert.Equal(t, 2, counts[parse.KindCursorPosition])
}

func TestIndexAllSkipsUnchangedAndPrunes(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	p1 := writeLog(t, root, "p01.log", sampleLog)
	writeLog(t, root, "p02.log", sampleLog)

	_, err := IndexAll(db, root, nil)
	require.NoError(t, err)

	stats, err := IndexAll(db, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 0, stats.Updated)

	require.NoError(t, os.Remove(p1))
	stats, err = IndexAll(db, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pruned)

	n, err := db.SessionCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = db.EventCount()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestIndexAllCountsParseErrors(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeLog(t, root, "good.log", sampleLog)
	writeLog(t, root, "bad.log", "Click;1;a;true\nScroll;2;10\n")

	stats, err := IndexAll(db, root, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Errors)

	bad, err := db.GetSessionByKey("bad")
	require.NoError(t, err)
	assert.Nil(t, bad, "a log that fails to parse is not stored partially")
}

func TestIndexAllDropsSessionThatStopsParsing(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeLog(t, root, "p01.log", sampleLog)

	_, err := IndexAll(db, root, nil)
	require.NoError(t, err)

	// rewritten with a different size, so it is re-read
	writeLog(t, root, "p01.log", sampleLog+"Scroll;300;10\n")
	stats, err := IndexAll(db, root, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 0, stats.Pruned)

	s, err := db.GetSessionByKey("p01")
	require.NoError(t, err)
	assert.Nil(t, s, "old rows of an unparsable log are removed")
	n, err := db.EventCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStoreSessionAndList(t *testing.T) {
	db := openTestDB(t)
	path := writeLog(t, t.TempDir(), "solo.log", sampleLog)

	result, err := parse.ParseFile(path)
	require.NoError(t, err)
	require.NoError(t, StoreSession(db, result))
	// storing again replaces instead of duplicating
	require.NoError(t, StoreSession(db, result))

	sessions, err := db.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "solo", sessions[0].SessionKey)
	assert.Equal(t, path, sessions[0].FilePath)

	n, err := db.EventCount()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestGetSessionMissing(t *testing.T) {
	db := openTestDB(t)
	s, err := db.GetSessionByKey("nobody")
	require.NoError(t, err)
	assert.Nil(t, s)

	info, err := db.GetSessionInfo("nobody")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestReopenKeepsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studylog.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var ver string
	require.NoError(t, db.Raw().QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver))
	assert.Equal(t, schemaVersion, ver)
}

package log

import (
	"fmt"
	"testing"

	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLogMessage(name string) []byte {
	bufSize := len([]byte(name))
	buf := make([]byte, bufSize+4)
	page := disk.NewPageFromByteSlice(buf)
	page.PutString(0, name)
	return page.Contents()
}

func createLogRecordAndAppendToLogFile(t *testing.T, lm *LogManager, start, end int) {
	for i := start; i < end; i++ {
		newLogRecord := createLogMessage(fmt.Sprintf("lintang %d", i))
		lsn, err := lm.append(newLogRecord)
		require.NoError(t, err)
		assert.Equal(t, i+1, lsn)
	}
}

func readBackLogRecords(t *testing.T, lm *LogManager, maxLogIdx int) {
	logIterator, err := lm.GetIterator()
	require.NoError(t, err)

	logIdx := maxLogIdx - 1
	for record := range logIterator.IterateLog() {
		page := disk.NewPageFromByteSlice(record)
		assert.Equal(t, fmt.Sprintf("lintang %d", logIdx), page.GetString(0))
		logIdx--
	}
	assert.NoError(t, logIterator.GetError())
}

func TestLogManager(t *testing.T) {
	dir := t.TempDir()
	dm, err := disk.NewDiskManager(dir, disk.PageSize)
	require.NoError(t, err)
	defer dm.Close()

	lm, err := NewLogManager(dm)
	require.NoError(t, err)

	t.Run("insert log records", func(t *testing.T) {
		createLogRecordAndAppendToLogFile(t, lm, 0, 1000)
	})

	t.Run("iterate log records", func(t *testing.T) {
		readBackLogRecords(t, lm, 1000)
	})
}

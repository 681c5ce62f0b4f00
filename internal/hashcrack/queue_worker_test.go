package hashcrack

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/dictcrack/internal/messages/request"
	"github.com/ykhdr/dictcrack/internal/queue"
	"github.com/ykhdr/dictcrack/internal/store/requeststore"
	"github.com/ykhdr/dictcrack/pkg/messages"
)

func newTestQueueWorker(t *testing.T) (*QueueWorker, requeststore.RequestStore) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "words.txt"), []byte("hello\nworld\npassword\n"), 0o600))
	store := requeststore.NewMemoryStore()
	svc := NewService(strategy.NewStrategy(strategy.SequentialStrategyType, strategy.Options{}))
	return NewQueueWorker(queue.DefaultConfig(), dir, svc, store, nil), store
}

func TestQueueWorkerCrackTask(t *testing.T) {
	w, store := newTestQueueWorker(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		task      messages.CrackTask
		status    messages.TaskStatus
		candidate string
		stored    request.Status
	}{
		{
			name:      "found",
			task:      messages.CrackTask{RequestId: "r1", Algorithm: "md5", Hash: hex.EncodeToString(digest.MD5.Sum([]byte("world"))), Wordlist: "words.txt"},
			status:    messages.TaskFound,
			candidate: "world",
			stored:    request.StatusReady,
		},
		{
			name:   "not found",
			task:   messages.CrackTask{RequestId: "r2", Algorithm: "sha1", Hash: hex.EncodeToString(digest.SHA1.Sum([]byte("nope"))), Wordlist: "words.txt"},
			status: messages.TaskNotFound,
			stored: request.StatusReady,
		},
		{
			name:   "invalid digest",
			task:   messages.CrackTask{RequestId: "r3", Algorithm: "md5", Hash: "abc", Wordlist: "words.txt"},
			status: messages.TaskError,
			stored: request.StatusError,
		},
		{
			name:   "unknown algorithm",
			task:   messages.CrackTask{RequestId: "r4", Algorithm: "rot13", Hash: "abc", Wordlist: "words.txt"},
			status: messages.TaskError,
			stored: request.StatusError,
		},
		{
			name:   "escaping wordlist",
			task:   messages.CrackTask{RequestId: "r5", Algorithm: "md5", Hash: hex.EncodeToString(digest.MD5.Sum(nil)), Wordlist: "../words.txt"},
			status: messages.TaskError,
			stored: request.StatusError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			res := w.crackTask(ctx, &task)
			assert.Equal(t, tt.task.RequestId, res.RequestId)
			assert.NotEmpty(t, res.Id)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.candidate, res.Candidate)
			if tt.status == messages.TaskError {
				assert.NotEmpty(t, res.Error)
			}

			info, err := store.Get(ctx, request.Id(tt.task.RequestId))
			require.NoError(t, err)
			assert.Equal(t, tt.stored, info.Status)
		})
	}
}

func TestQueueWorkerAssignsRequestId(t *testing.T) {
	w, _ := newTestQueueWorker(t)
	res := w.crackTask(context.Background(), &messages.CrackTask{Algorithm: "md5", Hash: "abc", Wordlist: "words.txt"})
	assert.NotEmpty(t, res.RequestId)
}

package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	qport "chatline/internal/infrastructure/queue/port"
)

type capturingServer struct {
	handlers map[string]qport.Handler
}

func (s *capturingServer) Register(taskType string, h qport.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]qport.Handler)
	}
	s.handlers[taskType] = h
}

func (s *capturingServer) Run(context.Context) error  { return nil }
func (s *capturingServer) Stop(context.Context) error { return nil }

type noticeRecord struct {
	UserID int64
	Kind   string
	Body   string
}

type fakeNotificationRepo struct {
	created []noticeRecord
	err     error
}

func (r *fakeNotificationRepo) Create(_ context.Context, userID int64, kind, body string) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, noticeRecord{UserID: userID, Kind: kind, Body: body})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOfflineNotice(t *testing.T) {
	require := require.New(t)

	task, err := NewOfflineNotice(7, "Alice", "see you at eight")
	require.NoError(err)
	require.Equal(OfflineNoticeTaskType, task.Type)
	require.Contains(string(task.Payload), `"receiverId":7`)
	require.Contains(string(task.Payload), `"preview":"see you at eight"`)
}

func TestNewOfflineNoticeTruncatesPreview(t *testing.T) {
	require := require.New(t)

	task, err := NewOfflineNotice(7, "Alice", strings.Repeat("a", 300))
	require.NoError(err)
	require.Contains(string(task.Payload), strings.Repeat("a", 100)+"...")
	require.NotContains(string(task.Payload), strings.Repeat("a", 101))
}

func TestOfflineNoticeHandler(t *testing.T) {
	require := require.New(t)
	srv := &capturingServer{}
	repo := &fakeNotificationRepo{}
	RegisterOfflineNoticeTask(srv, repo, testLogger())

	h, ok := srv.handlers[OfflineNoticeTaskType]
	require.True(ok)

	task, err := NewOfflineNotice(7, "Alice", "dinner?")
	require.NoError(err)
	require.NoError(h(context.Background(), task))

	require.Len(repo.created, 1)
	require.Equal(int64(7), repo.created[0].UserID)
	require.Equal("chat.message", repo.created[0].Kind)
	require.Equal("New message from Alice: dinner?", repo.created[0].Body)
}

func TestOfflineNoticeHandlerMalformedPayload(t *testing.T) {
	require := require.New(t)
	srv := &capturingServer{}
	repo := &fakeNotificationRepo{}
	RegisterOfflineNoticeTask(srv, repo, testLogger())

	// Garbage payloads are dropped, not retried.
	err := srv.handlers[OfflineNoticeTaskType](context.Background(), qport.Task{
		Type:    OfflineNoticeTaskType,
		Payload: []byte("{not json"),
	})
	require.NoError(err)
	require.Empty(repo.created)
}

func TestOfflineNoticeHandlerRetriesOnStoreFailure(t *testing.T) {
	require := require.New(t)
	srv := &capturingServer{}
	repo := &fakeNotificationRepo{err: errors.New("db down")}
	RegisterOfflineNoticeTask(srv, repo, testLogger())

	task, err := NewOfflineNotice(7, "Alice", "hi")
	require.NoError(err)
	require.Error(srv.handlers[OfflineNoticeTaskType](context.Background(), task))
}

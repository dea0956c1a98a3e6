package usecase

import (
	"errors"
	"testing"

	"lms-backend/pkg/fcm"
	"lms-backend/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverReport(t *testing.T) {
	tokens := &fakeTokens{
		byUser: map[string][]string{"u1": {"t1", "t2"}},
		all:    []string{"t1", "t2", "t3", "t4"},
	}

	tests := []struct {
		name       string
		task       queue.Task
		results    map[string]fcm.Outcome
		wantReport Report
		wantTokens []string
	}{
		{
			name:       "single user",
			task:       queue.Task{UserID: "u1", Title: "Hi"},
			wantReport: Report{Sent: 2},
			wantTokens: []string{"t1", "t2"},
		},
		{
			name:       "user without tokens",
			task:       queue.Task{UserID: "u2", Title: "Hi"},
			wantReport: Report{},
		},
		{
			name: "broadcast with mixed outcomes",
			task: queue.Task{Title: "Hi"},
			results: map[string]fcm.Outcome{
				"t2": fcm.Failed,
				"t4": fcm.TokenRemoved,
			},
			wantReport: Report{Sent: 2, Failed: 1, Removed: 1},
			wantTokens: []string{"t1", "t2", "t3", "t4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &scriptedDispatcher{results: tt.results}
			worker := NewDeliveryWorker(tokens, dispatcher)

			report, err := worker.Deliver(testContext(t), tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReport, report)

			var sentTo []string
			for _, msg := range dispatcher.sent {
				sentTo = append(sentTo, msg.Token)
			}
			assert.Equal(t, tt.wantTokens, sentTo)
		})
	}
}

func TestDeliverPassesDataAsStrings(t *testing.T) {
	dispatcher := &scriptedDispatcher{}
	worker := NewDeliveryWorker(&fakeTokens{byUser: map[string][]string{"u1": {"t1"}}}, dispatcher)

	_, err := worker.Deliver(testContext(t), queue.Task{
		UserID: "u1",
		Title:  "New test",
		Body:   "Algebra",
		Data:   map[string]string{"link": "/tests", "type": "new_test"},
	})
	require.NoError(t, err)

	require.Len(t, dispatcher.sent, 1)
	msg := dispatcher.sent[0]
	assert.Equal(t, "New test", msg.Title)
	assert.Equal(t, "Algebra", msg.Body)
	assert.Equal(t, map[string]string{"link": "/tests", "type": "new_test"}, fcm.StringifyData(msg.Data))
}

func TestHandleReturnsLookupErrors(t *testing.T) {
	lookupErr := errors.New("db down")
	worker := NewDeliveryWorker(&fakeTokens{err: lookupErr}, &scriptedDispatcher{})

	assert.ErrorIs(t, worker.Handle(testContext(t), queue.Task{UserID: "u1"}), lookupErr)
	assert.ErrorIs(t, worker.Handle(testContext(t), queue.Task{}), lookupErr)
}

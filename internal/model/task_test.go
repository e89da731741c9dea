package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/model"
)

func TestStatusDerivedFromCompleted(t *testing.T) {
	assert.Equal(t, model.StatusPending, model.Task{Title: "x"}.Status())
	assert.Equal(t, model.StatusCompleted, model.Task{Title: "x", Completed: true}.Status())
}

func TestParseStatus(t *testing.T) {
	completed, err := model.ParseStatus("completed")
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = model.ParseStatus(" Pending ")
	require.NoError(t, err)
	assert.False(t, completed)

	_, err = model.ParseStatus("done")
	require.Error(t, err)
}

func TestTaskDecodeNumericID(t *testing.T) {
	var tasks []model.Task
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"title":"X","completed":false}]`), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, model.ID("1"), tasks[0].ID)
	assert.Equal(t, model.StatusPending, tasks[0].Status())
}

func TestTaskDecodeStringID(t *testing.T) {
	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a1b2","title":"X","description":"body","completed":true}`), &task))
	assert.Equal(t, model.ID("a1b2"), task.ID)
	assert.Equal(t, "body", task.Description)
	assert.Equal(t, model.StatusCompleted, task.Status())
}

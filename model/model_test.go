package model

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/shopagent/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("hello", "hi there")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel()

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleUser, Content: "anything"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", resp.Text)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel()
	boom := errors.New("boom")
	m.FailWith(boom)

	_, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleUser, Content: "x"}},
	})
	assert.ErrorIs(t, err, boom)

	m.FailWith(nil)
	_, err = m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleUser, Content: "x"}},
	})
	assert.NoError(t, err)
}

func TestMockModel_EmptyMessages(t *testing.T) {
	m := NewMockModel()
	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

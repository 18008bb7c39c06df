package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ingestion service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestionService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Ingestion: &mockIngestionService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil ingestion service returns error", func(t *testing.T) {
		ports := &Ports{Articles: &mockArticleService{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingIngestionService)
	})

	t.Run("ingestion only is valid", func(t *testing.T) {
		ports := &Ports{
			Ingestion: &mockIngestionService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Ingestion: &mockIngestionService{},
			Articles:  &mockArticleService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

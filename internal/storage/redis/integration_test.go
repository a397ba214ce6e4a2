//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	store     *KVStore
}

func (s *RedisIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379/tcp")
	s.Require().NoError(err)

	store, err := New(s.ctx, Config{
		Addr:      fmt.Sprintf("%s:%s", host, port.Port()),
		KeyPrefix: "channel:",
	})
	s.Require().NoError(err)
	s.store = store
}

func (s *RedisIntegrationSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RedisIntegrationSuite) SetupTest() {
	s.Require().NoError(s.store.client.FlushDB(s.ctx).Err())
}

func TestRedisIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RedisIntegrationSuite))
}

func (s *RedisIntegrationSuite) TestGetMissing() {
	value, found, err := s.store.Get(s.ctx, "missing")
	s.NoError(err)
	s.False(found)
	s.Nil(value)
}

func (s *RedisIntegrationSuite) TestSetGetDelete() {
	s.NoError(s.store.Set(s.ctx, "content", []byte(`{"videos":[]}`)))

	value, found, err := s.store.Get(s.ctx, "content")
	s.NoError(err)
	s.True(found)
	s.Equal(`{"videos":[]}`, string(value))

	raw, err := s.store.client.Get(s.ctx, "channel:content").Result()
	s.NoError(err)
	s.Equal(`{"videos":[]}`, raw)

	s.NoError(s.store.Delete(s.ctx, "content"))
	_, found, err = s.store.Get(s.ctx, "content")
	s.NoError(err)
	s.False(found)
}

func (s *RedisIntegrationSuite) TestSetMany() {
	err := s.store.SetMany(s.ctx, map[string][]byte{
		"content":   []byte("doc"),
		"watched:v": []byte("[1]"),
	})
	s.NoError(err)

	for key, want := range map[string]string{"content": "doc", "watched:v": "[1]"} {
		value, found, err := s.store.Get(s.ctx, key)
		s.NoError(err)
		s.True(found)
		s.Equal(want, string(value))
	}
}

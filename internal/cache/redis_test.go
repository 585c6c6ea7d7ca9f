package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumapi/internal/model"
	"forumapi/internal/repository"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "forum:topics:mb:3:ver", versionKey(3))
	assert.Equal(t, "forum:topics:mb:3:v7:p2:n50", pageKey(3, "7", 2, 50))
}

func TestRedisCache_GetTopics(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, time.Minute)

		page := repository.PageResult[model.Topic]{Items: []model.Topic{{ID: 1, Title: "Hi"}}, Total: 1}
		b, err := json.Marshal(page)
		require.NoError(t, err)

		mock.ExpectGet(versionKey(3)).SetVal("2")
		mock.ExpectGet(pageKey(3, "2", 1, 50)).SetVal(string(b))

		res, hit, err := c.GetTopics(ctx, 3, 1, 50)

		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "Hi", res.Items[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss without version", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, time.Minute)

		mock.ExpectGet(versionKey(3)).RedisNil()
		mock.ExpectGet(pageKey(3, "0", 1, 50)).RedisNil()

		res, hit, err := c.GetTopics(ctx, 3, 1, 50)

		assert.NoError(t, err)
		assert.False(t, hit)
		assert.Nil(t, res)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		c := NewRedisCache(client, time.Minute)

		mock.ExpectGet(versionKey(3)).SetErr(errors.New("conn reset"))

		_, hit, err := c.GetTopics(ctx, 3, 1, 50)

		assert.Error(t, err)
		assert.False(t, hit)
	})
}

func TestRedisCache_SetTopics(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, time.Minute)

	page := &repository.PageResult[model.Topic]{Items: []model.Topic{}, Total: 0}
	b, err := json.Marshal(page)
	require.NoError(t, err)

	mock.ExpectGet(versionKey(1)).SetVal("4")
	mock.ExpectSet(pageKey(1, "4", 2, 25), b, time.Minute).SetVal("OK")

	assert.NoError(t, c.SetTopics(context.Background(), 1, 2, 25, page))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, 0)

	mock.ExpectIncr(versionKey(1)).SetVal(5)

	assert.NoError(t, c.Invalidate(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 30*time.Second, c.ttl)
}

func TestNoop(t *testing.T) {
	var c TopicListCache = Noop{}
	ctx := context.Background()

	res, hit, err := c.GetTopics(ctx, 1, 1, 50)
	assert.Nil(t, res)
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, c.SetTopics(ctx, 1, 1, 50, nil))
	assert.NoError(t, c.Invalidate(ctx, 1))
}

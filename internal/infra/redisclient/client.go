package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Options параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Client обертка над клиентом Redis
type Client struct {
	client *redis.Client
}

// NewClient создает клиент и проверяет соединение
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return &Client{client: client}, nil
}

// Client возвращает нижележащий клиент go-redis
func (c *Client) Client() *redis.Client {
	return c.client
}

// Ping проверяет соединение
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает соединение
func (c *Client) Close() error {
	return c.client.Close()
}

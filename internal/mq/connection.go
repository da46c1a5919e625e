package mq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Параметры переподключения по умолчанию.
const (
	defaultReconnectDelay    = time.Second
	defaultMaxReconnectDelay = 30 * time.Second
)

// Connection держит AMQP соединение и один канал, переподключается при разрыве.
//
// Канал общий для publisher'а и consumer'а одного процесса.
// Доступ к нему защищён RWMutex.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool

	done        chan struct{}
	reconnected chan struct{}

	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration
}

// NewConnection подключается к RabbitMQ и запускает наблюдение за соединением.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Connection{
		url:               url,
		logger:            logger.With("component", "amqp"),
		done:              make(chan struct{}),
		reconnected:       make(chan struct{}, 1),
		reconnectDelay:    defaultReconnectDelay,
		maxReconnectDelay: defaultMaxReconnectDelay,
	}

	if err := c.dial(); err != nil {
		return nil, err
	}

	go c.watch()

	return c, nil
}

// dial открывает соединение и канал.
func (c *Connection) dial() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.logger.Info("connected to RabbitMQ")
	return nil
}

// watch ждёт закрытия соединения или канала и переподключается.
func (c *Connection) watch() {
	for {
		c.mu.RLock()
		conn, ch := c.conn, c.channel
		c.mu.RUnlock()

		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chanClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

		var cause *amqp.Error
		select {
		case <-c.done:
			return
		case cause = <-connClosed:
		case cause = <-chanClosed:
		}

		if cause != nil {
			c.logger.Warn("amqp connection lost", "error", cause)
		}

		if !c.redial() {
			return
		}
	}
}

// redial переподключается с экспоненциальной задержкой.
// Возвращает false, если соединение закрыто через Close.
func (c *Connection) redial() bool {
	delay := c.reconnectDelay

	for {
		select {
		case <-c.done:
			return false
		case <-time.After(delay):
		}

		c.mu.RLock()
		old := c.conn
		c.mu.RUnlock()
		if old != nil && !old.IsClosed() {
			old.Close()
		}

		if err := c.dial(); err != nil {
			c.logger.Warn("reconnect failed", "error", err, "retry_in", delay)
			delay = min(delay*2, c.maxReconnectDelay)
			continue
		}

		select {
		case c.reconnected <- struct{}{}:
		default:
		}
		return true
	}
}

// Channel возвращает текущий AMQP канал (может быть nil).
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// ReconnectNotify сигнализирует об успешном переподключении.
func (c *Connection) ReconnectNotify() <-chan struct{} {
	return c.reconnected
}

// IsConnected проверяет, живо ли соединение.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil && !c.conn.IsClosed()
}

// WithChannel выполняет fn с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	closed, ch := c.closed, c.channel
	c.mu.RUnlock()

	if closed {
		return ErrConnectionClosed
	}
	if ch == nil || ch.IsClosed() {
		return ErrNoChannel
	}

	return fn(ch)
}

// Close закрывает канал и соединение. Повторный вызов ничего не делает.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close channel: %w", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close connection: %w", err)
		}
	}

	c.logger.Info("amqp connection closed")
	return firstErr
}

package interpreter

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ErrRetriesExhausted is returned when the interpreter API stayed unreachable.
var ErrRetriesExhausted = errors.New("interpreter: max retries reached")

type ListenerOptions struct {
	MaxRetries     int
	BaseRetryDelay time.Duration
	MaxRetryDelay  time.Duration
	// A connection without messages for this long is considered dead.
	ReadTimeout  time.Duration
	PingInterval time.Duration
}

func DefaultListenerOptions() ListenerOptions {
	return ListenerOptions{
		MaxRetries:     10,
		BaseRetryDelay: 2 * time.Second,
		MaxRetryDelay:  60 * time.Second,
		// Expect message every second
		ReadTimeout:  10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Manage websocket connection and call funcToCall for each reading.
// Blocks until ctx is done (returns nil) or the retries run out.
func StartListener(
	ctx context.Context,
	host string,
	logger zerolog.Logger,
	funcToCall func(reading *RawMeterReading),
) error {
	return StartListenerWithOptions(ctx, host, DefaultListenerOptions(), logger, funcToCall)
}

func StartListenerWithOptions(
	ctx context.Context,
	host string,
	opts ListenerOptions,
	logger zerolog.Logger,
	funcToCall func(reading *RawMeterReading),
) error {
	// WebSocket server URL
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}

	retryCount := 0
	for {
		if ctx.Err() != nil {
			logger.Info().Msg("listener stopped")
			return nil
		}

		if retryCount > 0 {
			// Exponential backoff
			retryDelay := time.Duration(1<<(retryCount-1)) * opts.BaseRetryDelay
			if retryDelay > opts.MaxRetryDelay {
				retryDelay = opts.MaxRetryDelay
			}
			logger.Info().
				Dur("delay", retryDelay).
				Int("attempt", retryCount+1).
				Int("max_attempts", opts.MaxRetries).
				Msg("retrying connection")
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				logger.Info().Msg("listener stopped during retry wait")
				return nil
			}
		}

		logger.Info().Str("url", u.String()).Msg("connecting")

		dialer := *websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		c, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn().Err(err).Msg("connection failed")
			retryCount++
			if retryCount >= opts.MaxRetries {
				logger.Error().Int("max_retries", opts.MaxRetries).Msg("giving up")
				return ErrRetriesExhausted
			}
			continue
		}

		logger.Info().Msg("connected, accepting meter readings")
		retryCount = 0

		connectionBroken := handleConnection(ctx, c, opts, logger, funcToCall)
		c.Close()

		if !connectionBroken {
			// Clean shutdown requested
			return nil
		}
		logger.Warn().Msg("connection lost, will retry")
	}
}

// Returns true when the connection broke, false when ctx ended it.
func handleConnection(
	ctx context.Context,
	c *websocket.Conn,
	opts ListenerOptions,
	logger zerolog.Logger,
	funcToCall func(reading *RawMeterReading),
) bool {
	done := make(chan struct{})

	c.SetReadDeadline(time.Now().Add(opts.ReadTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(opts.ReadTimeout))
	})

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn().Err(err).Msg("websocket error")
				} else {
					logger.Debug().Err(err).Msg("connection closed")
				}
				return
			}

			c.SetReadDeadline(time.Now().Add(opts.ReadTimeout))

			if messageType != websocket.TextMessage {
				logger.Debug().Int("type", messageType).Msg("ignoring non-text message")
				continue
			}
			if reading := MeterReadingFromJsonBytes(message); reading != nil {
				funcToCall(reading)
			} else {
				logger.Warn().Str("message", string(message)).Msg("failed to parse meter reading")
			}
		}
	}()

	ticker := time.NewTicker(opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return true
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				logger.Warn().Err(err).Msg("failed to send ping")
			}
		case <-ctx.Done():
			logger.Info().Msg("closing connection")
			err := c.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			if err != nil {
				logger.Debug().Err(err).Msg("error sending close message")
			}

			// Wait for close confirmation or timeout
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return false
		}
	}
}

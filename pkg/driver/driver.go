// Package driver forwards eye orientations to an external eye controller,
// such as a servo rig listening on a websocket.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/teslashibe/go-gaze/pkg/tracking"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotConnected is returned when a pose is sent while no connection is up.
var ErrNotConnected = errors.New("driver: not connected")

// EyeDriver applies an orientation to something physical.
type EyeDriver interface {
	SetEyePose(o tracking.Orientation) error
	Close() error
}

// Pose is the JSON command sent per update.
type Pose struct {
	Type  string  `json:"type"`
	Yaw   float64 `json:"yaw"`   // radians
	Pitch float64 `json:"pitch"` // radians
	Seq   uint64  `json:"seq"`
}

// Config configures a WSDriver.
type Config struct {
	URL          string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	// Poses closer than this (radians, both axes) to the last one sent are
	// skipped.
	Deadband float64
	// How long to wait before redialing after a failure.
	ReconnectDelay time.Duration
}

// DefaultConfig returns driver defaults for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		DialTimeout:    5 * time.Second,
		WriteTimeout:   time.Second,
		Deadband:       0.002,
		ReconnectDelay: 2 * time.Second,
	}
}

// WSDriver sends poses as JSON text messages over a websocket. A failed
// write drops the connection; the next SetEyePose after ReconnectDelay
// redials. Safe for concurrent use.
type WSDriver struct {
	config Config
	dialer *websocket.Dialer
	logger *slog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	lastSent   tracking.Orientation
	haveSent   bool
	seq        uint64
	nextDialAt time.Time
}

// Dial connects to the controller.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*WSDriver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &WSDriver{
		config: cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.DialTimeout},
		logger: logger.With("component", "driver", "url", cfg.URL),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dialLocked(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *WSDriver) dialLocked(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.config.DialTimeout)
	defer cancel()

	conn, _, err := d.dialer.DialContext(ctx, d.config.URL, nil)
	if err != nil {
		d.nextDialAt = time.Now().Add(d.config.ReconnectDelay)
		return fmt.Errorf("dial eye driver %s: %w", d.config.URL, err)
	}
	d.conn = conn
	d.haveSent = false
	d.logger.Info("eye driver connected")
	return nil
}

// SetEyePose sends o unless it is within the deadband of the last pose sent.
func (d *WSDriver) SetEyePose(o tracking.Orientation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		if time.Now().Before(d.nextDialAt) {
			return ErrNotConnected
		}
		if err := d.dialLocked(context.Background()); err != nil {
			return err
		}
	}

	if d.haveSent && withinDeadband(o, d.lastSent, d.config.Deadband) {
		return nil
	}

	d.seq++
	data, err := json.Marshal(Pose{Type: "eye_pose", Yaw: o.Yaw, Pitch: o.Pitch, Seq: d.seq})
	if err != nil {
		return err
	}

	d.conn.SetWriteDeadline(time.Now().Add(d.config.WriteTimeout))
	if err := d.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		d.logger.Warn("eye driver write failed, dropping connection", "error", err)
		d.conn.Close()
		d.conn = nil
		d.nextDialAt = time.Now().Add(d.config.ReconnectDelay)
		return fmt.Errorf("send pose: %w", err)
	}

	d.lastSent = o
	d.haveSent = true
	return nil
}

// Sent returns how many poses have been sent.
func (d *WSDriver) Sent() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Close sends a close frame and closes the connection.
func (d *WSDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = d.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := d.conn.Close()
	d.conn = nil
	return err
}

func withinDeadband(a, b tracking.Orientation, band float64) bool {
	dy := a.Yaw - b.Yaw
	dp := a.Pitch - b.Pitch
	return dy <= band && dy >= -band && dp <= band && dp >= -band
}

// Nop is a driver that does nothing, used when no controller is configured.
type Nop struct{}

func (Nop) SetEyePose(tracking.Orientation) error { return nil }
func (Nop) Close() error                          { return nil }

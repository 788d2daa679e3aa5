package device

import (
	"errors"
	"math"
	"net"
	"strconv"
	"sync"
	"time"

	"clamir/models"

	"go.uber.org/zap"
)

type Options struct {
	Addr        string
	CommandPort int
	ImagePort   int
	DialTimeout time.Duration
}

// Client holds the command and image connections of one device.
type Client struct {
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	command net.Conn
	image   net.Conn
}

var _ Library = (*Client)(nil)

func NewClient(opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{opts: opts, log: log.Named("device")}
}

func (c *Client) Add(a, b int) int      { return a + b }
func (c *Client) Subtract(a, b int) int { return a - b }
func (c *Client) Multiply(a, b int) int { return a * b }

func (c *Client) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	// the only 32-bit quotient that does not fit in 32 bits
	if a == math.MinInt32 && b == -1 {
		return 0, ErrOverflow
	}
	return a / b, nil
}

// ConnectDevice opens the command socket, then the image socket. It returns
// -1 when no socket can be assigned for the address and -2 when either
// connection fails. Calling it while connected is a no-op returning 0.
func (c *Client) ConnectDevice() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.command != nil && c.image != nil {
		return models.ResultOK
	}
	if c.opts.Addr == "" {
		c.log.Error("no device address configured")
		return models.ResultSocketFailure
	}

	command, code := c.dial(c.opts.CommandPort)
	if code != models.ResultOK {
		return code
	}
	image, code := c.dial(c.opts.ImagePort)
	if code != models.ResultOK {
		command.Close()
		return code
	}

	c.command = command
	c.image = image
	c.log.Info("device connected", zap.String("addr", c.opts.Addr))
	return models.ResultOK
}

func (c *Client) dial(port int) (net.Conn, int) {
	address := net.JoinHostPort(c.opts.Addr, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", address, c.opts.DialTimeout)
	if err == nil {
		return conn, models.ResultOK
	}

	c.log.Warn("device dial failed", zap.String("address", address), zap.Error(err))

	var dnsErr *net.DNSError
	var addrErr *net.AddrError
	if errors.As(err, &dnsErr) || errors.As(err, &addrErr) {
		return nil, models.ResultSocketFailure
	}
	return nil, models.ResultConnectFailed
}

// DisconnectDevice closes both sockets. It returns -2 when there was nothing
// to close and -1 when closing failed; the sockets are released either way.
func (c *Client) DisconnectDevice() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.command == nil && c.image == nil {
		return models.ResultConnectFailed
	}

	var errs []error
	for _, conn := range []net.Conn{c.command, c.image} {
		if conn == nil {
			continue
		}
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.command = nil
	c.image = nil

	if err := errors.Join(errs...); err != nil {
		c.log.Warn("device disconnect failed", zap.Error(err))
		return models.ResultSocketFailure
	}
	c.log.Info("device disconnected", zap.String("addr", c.opts.Addr))
	return models.ResultOK
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.command != nil && c.image != nil
}

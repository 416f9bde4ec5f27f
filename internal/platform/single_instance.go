package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"

	appLog "digitalclock/internal/log"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateMessage = "activate"
	handshakeWait   = time.Second
)

// InstanceGuard holds the single-instance lock. A later launch that finds
// the lock taken pings the holder, which surfaces as an activation.
type InstanceGuard struct {
	listener    net.Listener
	address     string
	activations chan struct{}
}

// AcquireSingleInstance binds a deterministic localhost port. When the port
// is taken the running instance is asked to activate and ErrAlreadyRunning
// is returned.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if notifyErr := activateRunning(address); notifyErr != nil {
			appLog.Debug("running instance did not take the activation", "error", notifyErr)
		}
		return nil, ErrAlreadyRunning
	}
	guard := &InstanceGuard{
		listener:    listener,
		address:     address,
		activations: make(chan struct{}, 1),
	}
	go guard.serve()
	return guard, nil
}

// Activations signals each later launch. It is closed on Release.
func (guard *InstanceGuard) Activations() <-chan struct{} {
	return guard.activations
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve() {
	defer close(guard.activations)
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		if guard.readActivation(conn) {
			select {
			case guard.activations <- struct{}{}:
			default:
			}
		}
	}
}

func (guard *InstanceGuard) readActivation(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == activateMessage
}

func activateRunning(address string) error {
	conn, err := net.DialTimeout("tcp", address, handshakeWait)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(handshakeWait))
	if _, err := conn.Write([]byte(activateMessage + "\n")); err != nil {
		return fmt.Errorf("send activation: %w", err)
	}
	return nil
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

package lambda

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Runtime is everything an invocation needs, built once per warm sandbox
type Runtime struct {
	Router  *Router
	Flusher Flusher
	Close   func() error
}

// BuildFunc creates the runtime on first use
type BuildFunc func() (*Runtime, error)

// DefaultMaxIdle is how long a runtime may sit unused before it is rebuilt
const DefaultMaxIdle = 5 * time.Minute

// ConnectionManager lazily builds the runtime and reuses it across invocations.
// A failed build is retried on the next invocation, and a runtime left idle
// longer than MaxIdle is closed and rebuilt since its connections may be stale.
type ConnectionManager struct {
	MaxIdle time.Duration

	build    BuildFunc
	runtime  *Runtime
	lastUsed time.Time
	mu       sync.Mutex
	logger   *logrus.Logger
	now      func() time.Time
}

// NewConnectionManager creates a connection manager around a build function
func NewConnectionManager(build BuildFunc, logger *logrus.Logger) *ConnectionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionManager{MaxIdle: DefaultMaxIdle, build: build, logger: logger, now: time.Now}
}

// Runtime returns the shared runtime, building it if necessary
func (cm *ConnectionManager) Runtime() (*Runtime, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.runtime != nil && !cm.healthy() {
		cm.logger.WithField("idle", cm.now().Sub(cm.lastUsed)).Info("Function runtime idle, rebuilding")
		if err := cm.release(); err != nil {
			cm.logger.WithError(err).Warn("Failed to close idle runtime")
		}
	}

	if cm.runtime == nil {
		start := cm.now()
		runtime, err := cm.build()
		if err != nil {
			return nil, err
		}
		cm.runtime = runtime
		cm.logger.WithField("duration", cm.now().Sub(start)).Info("Function runtime initialized")
	}
	cm.lastUsed = cm.now()
	return cm.runtime, nil
}

// healthy reports whether the runtime was used within MaxIdle. Callers hold mu.
func (cm *ConnectionManager) healthy() bool {
	if cm.MaxIdle <= 0 {
		return true
	}
	return cm.now().Sub(cm.lastUsed) < cm.MaxIdle
}

// Cleanup releases the runtime's resources. It runs on sandbox shutdown.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.release()
}

func (cm *ConnectionManager) release() error {
	if cm.runtime == nil {
		return nil
	}
	var err error
	if cm.runtime.Close != nil {
		err = cm.runtime.Close()
	}
	cm.runtime = nil
	return err
}

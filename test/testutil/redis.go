package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredislib "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisContainer wraps a password-protected Redis test container.
type RedisContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
	Password  string
}

// RedisOptions configures the Redis container.
type RedisOptions struct {
	// Image is the Redis image to use. Defaults to "redis:7-alpine".
	Image string
	// Password is the initial requirepass value. Defaults to "initial-key".
	Password string
}

// DefaultRedisOptions returns default options for the Redis container.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Image:    "redis:7-alpine",
		Password: "initial-key",
	}
}

// StartRedis starts a password-protected Redis container for testing.
//
// The container is automatically terminated when the test completes.
//
// Parameters:
//   - ctx: Context for container operations
//   - t: Testing context for cleanup registration
//   - opts: Optional configuration (nil uses defaults)
//
// Returns:
//   - *RedisContainer: Container with connection details
//   - error: Error if the container fails to start
func StartRedis(ctx context.Context, t *testing.T, opts *RedisOptions) (*RedisContainer, error) {
	t.Helper()

	if opts == nil {
		defaultOpts := DefaultRedisOptions()
		opts = &defaultOpts
	}

	req := testcontainers.ContainerRequest{
		Image:        opts.Image,
		ExposedPorts: []string{"6379/tcp"},
		Cmd:          []string{"redis-server", "--requirepass", opts.Password},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mapped, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Host:      host,
		Port:      mapped.Int(),
		Password:  opts.Password,
	}, nil
}

// SetPassword rotates the server's requirepass to newPassword using an
// administrative connection authenticated with the current password.
//
// This simulates an operator regenerating an access key: existing client
// connections keep working until they reconnect, but new AUTH handshakes
// with the old password are rejected.
//
// Parameters:
//   - ctx: Context for the admin commands
//   - currentPassword: The password accepted right now
//   - newPassword: The password to switch to
//
// Returns:
//   - error: Error if the CONFIG SET fails
func (c *RedisContainer) SetPassword(ctx context.Context, currentPassword, newPassword string) error {
	admin := goredislib.NewClient(&goredislib.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password: currentPassword,
	})
	defer admin.Close()

	if err := admin.ConfigSet(ctx, "requirepass", newPassword).Err(); err != nil {
		return fmt.Errorf("failed to rotate requirepass: %w", err)
	}
	c.Password = newPassword

	return nil
}

// Package gate implements the shared-password gate in front of the stack.
//
// A device proves it knows the shared password once; the gate then persists
// an "authenticated" flag for that device under the storage key
// [StorageKey] and lets it through on later visits. There are no accounts,
// tokens or expiry: logging out deletes the flag.
//
// Flags live in a [Store]: [FileStore] for the CLI and single-instance
// servers, [RedisStore] for servers that share state, [MemoryStore] for tests.
package gate

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

// StorageKey names the persisted flag.
const StorageKey = "painted-dog-auth"

// DefaultPassword is the shared password when none is configured.
const DefaultPassword = "The-Quick-Spotted-Dog"

// LocalDevice is the device id the CLI uses for itself.
const LocalDevice = "local"

var devicePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,63}$`)

// Flag is the persisted state for one device.
type Flag struct {
	Device        string    `json:"device"`
	Authenticated bool      `json:"authenticated"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists flags by device id.
type Store interface {
	// Get returns the flag for device and whether one exists.
	Get(ctx context.Context, device string) (Flag, bool, error)

	// Set stores f under f.Device.
	Set(ctx context.Context, f Flag) error

	// Delete removes the flag for device. Missing flags are not an error.
	Delete(ctx context.Context, device string) error

	Close() error
}

// NewDeviceID returns a fresh random device id.
func NewDeviceID() string { return uuid.NewString() }

// ValidDevice reports whether id is safe to use as a device id.
func ValidDevice(id string) bool { return devicePattern.MatchString(id) }

// Gate checks passwords and remembers authenticated devices.
type Gate struct {
	store  Store
	digest [sha256.Size]byte
	logger *log.Logger
}

// New returns a gate for password backed by store. An empty password uses
// [DefaultPassword]; a nil logger uses log.Default().
func New(password string, store Store, logger *log.Logger) *Gate {
	if password == "" {
		password = DefaultPassword
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Gate{store: store, digest: sha256.Sum256([]byte(password)), logger: logger}
}

// Check compares password with the shared password in constant time.
func (g *Gate) Check(password string) bool {
	d := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(d[:], g.digest[:]) == 1
}

// Login authenticates device when password matches and persists the flag.
// A wrong password fails with UNAUTHORIZED and leaves any existing flag alone.
func (g *Gate) Login(ctx context.Context, device, password string) error {
	if !ValidDevice(device) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid device id")
	}
	if !g.Check(password) {
		g.logger.Warn("rejected password", "device", device)
		return errs.New(errs.ErrCodeUnauthorized, "incorrect password")
	}
	f := Flag{Device: device, Authenticated: true, UpdatedAt: time.Now().UTC()}
	if err := g.store.Set(ctx, f); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "persist %s", StorageKey)
	}
	g.logger.Info("device authenticated", "device", device)
	return nil
}

// Authenticated reports whether device has logged in.
func (g *Gate) Authenticated(ctx context.Context, device string) (bool, error) {
	if !ValidDevice(device) {
		return false, nil
	}
	f, ok, err := g.store.Get(ctx, device)
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeInternal, err, "read %s", StorageKey)
	}
	return ok && f.Authenticated, nil
}

// Logout forgets device.
func (g *Gate) Logout(ctx context.Context, device string) error {
	if !ValidDevice(device) {
		return nil
	}
	if err := g.store.Delete(ctx, device); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "delete %s", StorageKey)
	}
	return nil
}

// Close closes the underlying store.
func (g *Gate) Close() error { return g.store.Close() }

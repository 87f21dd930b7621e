package gate

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func TestGateLogin(t *testing.T) {
	ctx := context.Background()
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			g := New("", mk(t), quiet())
			defer g.Close()
			device := NewDeviceID()

			if ok, _ := g.Authenticated(ctx, device); ok {
				t.Fatal("new device is authenticated")
			}
			err := g.Login(ctx, device, "the-quick-spotted-dog")
			if !errs.Is(err, errs.ErrCodeUnauthorized) {
				t.Errorf("wrong password = %v, want UNAUTHORIZED", err)
			}
			if err := g.Login(ctx, device, DefaultPassword); err != nil {
				t.Fatalf("Login: %v", err)
			}
			if ok, err := g.Authenticated(ctx, device); !ok || err != nil {
				t.Errorf("Authenticated = %v, %v", ok, err)
			}
			if ok, _ := g.Authenticated(ctx, NewDeviceID()); ok {
				t.Error("flag leaked to another device")
			}

			if err := g.Logout(ctx, device); err != nil {
				t.Fatalf("Logout: %v", err)
			}
			if ok, _ := g.Authenticated(ctx, device); ok {
				t.Error("device still authenticated after logout")
			}
		})
	}
}

func TestGateCustomPassword(t *testing.T) {
	g := New("open sesame", NewMemoryStore(), quiet())
	if g.Check(DefaultPassword) {
		t.Error("default password accepted with a custom one configured")
	}
	if !g.Check("open sesame") {
		t.Error("configured password rejected")
	}
}

func TestValidDevice(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{NewDeviceID(), true},
		{LocalDevice, true},
		{"", false},
		{"../etc/passwd", false},
		{"a/b", false},
	}
	for _, tt := range tests {
		if got := ValidDevice(tt.id); got != tt.want {
			t.Errorf("ValidDevice(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestLoginRejectsBadDevice(t *testing.T) {
	g := New("", NewMemoryStore(), quiet())
	err := g.Login(context.Background(), "../x", DefaultPassword)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Login with bad device = %v", err)
	}
}

func TestFileStorePermissions(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	if err := s.Set(context.Background(), Flag{Device: LocalDevice, Authenticated: true}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.Path(LocalDevice))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("flag file mode = %v, want 0600", perm)
	}
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		opts    StoreOptions
		want    string
		wantErr bool
	}{
		{"file", StoreOptions{Dir: t.TempDir()}, "*gate.FileStore", false},
		{"memory", StoreOptions{Backend: BackendMemory}, "*gate.MemoryStore", false},
		{"unknown", StoreOptions{Backend: "etcd"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := OpenStore(context.Background(), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer s.Close()
			if got := fmt.Sprintf("%T", s); got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

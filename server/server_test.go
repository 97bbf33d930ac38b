package server

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/momentics/pairflow/fake"
	"github.com/momentics/pairflow/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SupplyPort == 0 || cfg.DemandPort == 0 {
		t.Fatal("default ports must be nonzero")
	}
	if cfg.DriverPort != 0 {
		t.Fatal("driver endpoint must default to disabled")
	}
	if cfg.WaitTimeout <= 0 {
		t.Fatal("wait timeout must default to a positive bound")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{SupplyPort: 4000, DemandPort: 4001}, true},
		{"valid with driver", Config{SupplyPort: 4000, DemandPort: 4001, DriverPort: 4002}, true},
		{"missing supply", Config{DemandPort: 4001}, false},
		{"missing demand", Config{SupplyPort: 4000}, false},
		{"demand collides", Config{SupplyPort: 4000, DemandPort: 4000}, false},
		{"driver collides", Config{SupplyPort: 4000, DemandPort: 4001, DriverPort: 4001}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("Validate accepted a broken config")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairflow.toml")
	body := `
supply_port = 5000
demand_port = 5001
driver_port = 5002
verbose = true
idle_timeout = 30
driver_period = 5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SupplyPort != 5000 || cfg.DemandPort != 5001 || cfg.DriverPort != 5002 {
		t.Fatalf("ports = %d/%d/%d", cfg.SupplyPort, cfg.DemandPort, cfg.DriverPort)
	}
	if !cfg.Verbose || cfg.IdleTimeout != 30 || cfg.DriverPeriod != 5 {
		t.Fatalf("options = %+v", cfg)
	}
	if cfg.WaitTimeout != DefaultConfig().WaitTimeout {
		t.Fatal("wait timeout must keep its default")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("LoadConfig succeeded on a missing file")
	}
}

func TestOptionsApply(t *testing.T) {
	sock := fake.NewSocketService()
	sig := fake.NewSignalQueue()
	var logs bytes.Buffer

	s, err := New(
		&Config{SupplyPort: 4000, DemandPort: 4001},
		WithVerbose(),
		WithDriverPort(4002),
		WithIdleTimeout(10),
		WithDriverPeriod(3),
		WithWaitTimeout(50*time.Millisecond),
		WithLogger(logging.New(&logs)),
		WithSocketService(sock),
		WithSignalQueue(sig),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.cfg.Verbose || s.cfg.DriverPort != 4002 || s.cfg.IdleTimeout != 10 ||
		s.cfg.DriverPeriod != 3 || s.cfg.WaitTimeout != 50*time.Millisecond {
		t.Fatalf("options not applied: %+v", s.cfg)
	}
	if s.sock != sock {
		t.Fatal("socket service option not applied")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(&Config{SupplyPort: 4000, DemandPort: 4000}); err == nil {
		t.Fatal("New accepted colliding ports")
	}
}

func TestRunShutsDownOnTerminatingSignal(t *testing.T) {
	sock := fake.NewSocketService()
	sig := fake.NewSignalQueue()
	var logs bytes.Buffer

	sock.OnServe(func(step int) {
		if step == 2 {
			sig.Raise(syscall.SIGINT)
		}
	})

	s, err := New(
		&Config{SupplyPort: 4000, DemandPort: 4001},
		WithLogger(logging.New(&logs)),
		WithSocketService(sock),
		WithSignalQueue(sig),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(logs.String(), "Listening on ports 4000 and 4001...") {
		t.Fatalf("banner missing:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "Caught signal") {
		t.Fatalf("signal line missing:\n%s", logs.String())
	}
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.AccessTokenTTL != "15m" {
		t.Errorf("AccessTokenTTL = %q, want %q", cfg.AccessTokenTTL, "15m")
	}
	if cfg.RefreshTokenTTL != "168h" {
		t.Errorf("RefreshTokenTTL = %q, want %q", cfg.RefreshTokenTTL, "168h")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.HashWorkers != 4 {
		t.Errorf("HashWorkers = %d, want 4", cfg.HashWorkers)
	}
	if cfg.MailKafkaTopic != "identity-mail" {
		t.Errorf("MailKafkaTopic = %q, want default", cfg.MailKafkaTopic)
	}
	if cfg.AuthRatePerMinute != 60 {
		t.Errorf("AuthRatePerMinute = %d, want 60", cfg.AuthRatePerMinute)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("BCRYPT_COST", "12")
	os.Setenv("HASH_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.HashWorkers != 8 {
		t.Errorf("HashWorkers = %d, want 8", cfg.HashWorkers)
	}
}

func TestLoad_BcryptCostRange(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  int
		err   bool
	}{
		{"valid min", "4", 4, false},
		{"valid max", "31", 31, false},
		{"valid middle", "12", 12, false},
		{"too low", "3", 0, true},
		{"too high", "32", 0, true},
		{"zero", "0", 10, false}, // should default to 10
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("HTTP_ADDR", ":8080")
			os.Setenv("BCRYPT_COST", tc.value)

			cfg, err := Load()
			if tc.err {
				if err == nil {
					t.Fatal("Load should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.BcryptCost != tc.want {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tc.want)
			}
		})
	}
}

func TestAccessTTL_ValidDuration(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("ACCESS_TOKEN_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ttl := cfg.AccessTTL(); ttl != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want %v", ttl, 30*time.Minute)
	}
}

func TestAccessTTL_InvalidDuration(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("ACCESS_TOKEN_TTL", "invalid")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ttl := cfg.AccessTTL(); ttl != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want %v (default)", ttl, 15*time.Minute)
	}
}

func TestRefreshTTL_ValidDuration(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("REFRESH_TOKEN_TTL", "336h") // 14 days

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ttl := cfg.RefreshTTL(); ttl != 14*24*time.Hour {
		t.Errorf("RefreshTTL = %v, want %v", ttl, 14*24*time.Hour)
	}
}

func TestRefreshTTL_NegativeDuration(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("REFRESH_TOKEN_TTL", "-1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ttl := cfg.RefreshTTL(); ttl != 168*time.Hour {
		t.Errorf("RefreshTTL = %v, want %v (default)", ttl, 168*time.Hour)
	}
}

func TestMailKafkaBrokersList(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("KAFKA_BROKERS", "localhost:9092, broker2:9092 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	brokers := cfg.MailKafkaBrokersList()
	if len(brokers) != 2 {
		t.Fatalf("brokers = %v, want 2 entries", brokers)
	}
	if brokers[0] != "localhost:9092" || brokers[1] != "broker2:9092" {
		t.Errorf("brokers = %v", brokers)
	}
}

package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Enabled {
		t.Error("database must default to disabled")
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka must default to disabled")
	}
	if cfg.Kafka.Topic != "transaction_completed" {
		t.Errorf("unexpected default topic %s", cfg.Kafka.Topic)
	}
	if cfg.Telemetry.ServiceName != "teller-api" {
		t.Errorf("unexpected default service name %s", cfg.Telemetry.ServiceName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("KAFKA_ENABLED", "yes")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Server.Port)
	}
	if !cfg.Database.Enabled || cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected kafka config: %+v", cfg.Kafka)
	}

	conn := cfg.Database.ConnectionString()
	for _, want := range []string{"host=db.internal", "port=5433", "password=hunter2", "sslmode=disable"} {
		if !strings.Contains(conn, want) {
			t.Errorf("connection string is missing %q: %s", want, conn)
		}
	}
}

func TestLoadInvalidDBPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for a non-numeric DB_PORT")
	}
}

func TestLoadKafkaWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when kafka is enabled without brokers")
	}
}

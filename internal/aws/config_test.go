package aws

import (
	"context"
	"testing"
)

func TestLoadAWSConfigDefaultRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")

	cfg, err := LoadAWSConfig(context.Background())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != "ap-south-1" {
		t.Fatalf("expected default region ap-south-1, got %q", cfg.Region)
	}
}

func TestLoadAWSConfigRespectsEnvRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")

	cfg, err := LoadAWSConfig(context.Background())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != "us-east-1" {
		t.Fatalf("expected region us-east-1, got %q", cfg.Region)
	}
}

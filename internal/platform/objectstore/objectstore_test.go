package objectstore

import "testing"

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() err=%v", err)
	}
	if cfg.Bucket != "datasets" {
		t.Fatalf("bucket=%q, want datasets", cfg.Bucket)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{
		Endpoint:  "localhost:9000",
		AccessKey: "k",
		SecretKey: "s",
		Region:    "us-east-1",
		Bucket:    "datasets",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	invalid := cfg
	invalid.Endpoint = "http://localhost:9000"
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected scheme error")
	}

	invalid = cfg
	invalid.Bucket = ""
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected bucket error")
	}
}

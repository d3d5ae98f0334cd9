package config

import (
	"strings"
	"testing"
)

// TestParsePortHelper tests the parsePort helper function directly
func TestParsePortHelper(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
		errMsg  string
	}{
		{name: "valid port 8080", input: "8080", want: 8080},
		{name: "minimum valid port", input: "1", want: 1},
		{name: "maximum valid port", input: "65535", want: 65535},
		{name: "port too low", input: "0", wantErr: true, errMsg: "must be between 1 and 65535"},
		{name: "port too high", input: "65536", wantErr: true, errMsg: "must be between 1 and 65535"},
		{name: "negative port", input: "-100", wantErr: true, errMsg: "must be between 1 and 65535"},
		{name: "not a number", input: "abc", wantErr: true, errMsg: "invalid port number"},
		{name: "floating point", input: "8080.5", wantErr: true, errMsg: "invalid port number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parsePort() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("parsePort() error = %v, want error containing %q", err, tt.errMsg)
			}
			if got != tt.want {
				t.Errorf("parsePort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("COURIER_TEST_BOOL", "")
	got, err := parseBoolEnv("COURIER_TEST_BOOL", true)
	if err != nil || !got {
		t.Fatalf("parseBoolEnv() = %v, %v; want default true", got, err)
	}

	t.Setenv("COURIER_TEST_BOOL", "false")
	got, err = parseBoolEnv("COURIER_TEST_BOOL", true)
	if err != nil || got {
		t.Fatalf("parseBoolEnv() = %v, %v; want false", got, err)
	}

	t.Setenv("COURIER_TEST_BOOL", "1")
	if _, err = parseBoolEnv("COURIER_TEST_BOOL", true); err == nil {
		t.Fatal("parseBoolEnv() expected error for non-boolean value")
	}
}

package utils

import "testing"

func TestParseHostNoPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"127.0.0.1:8750", "127.0.0.1"},
		{"[::1]:8750", "::1"},
		{"10.0.0.5", "10.0.0.5"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseHostNoPort(tt.in); got != tt.want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsLoopbackAddr(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"127.0.0.1:51234", true},
		{"[::1]:51234", true},
		{"192.168.1.10:51234", false},
		{"not-an-ip:80", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsLoopbackAddr(tt.in); got != tt.want {
			t.Errorf("IsLoopbackAddr(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

package utils

import "net"

// ParseHostNoPort returns the host part (no port) from strings like
// "ip:port", "[v6]:port", or "ip".
func ParseHostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// IsLoopbackAddr reports whether a RemoteAddr string resolves to a loopback
// address. Non-IP hosts return false.
func IsLoopbackAddr(remoteAddr string) bool {
	ip := net.ParseIP(ParseHostNoPort(remoteAddr))
	return ip != nil && ip.IsLoopback()
}

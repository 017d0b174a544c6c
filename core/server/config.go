package server

import "net"

// Config holds configuration for local HTTP listeners.
type Config struct {
	// Host is the interface to bind; empty binds all.
	Host string `mapstructure:"host" default:""`
	// Port is the port to listen on.
	Port string `mapstructure:"port" default:"8080"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

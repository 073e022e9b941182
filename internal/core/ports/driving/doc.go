// Package driving defines the inbound ports of the hexagon: interfaces
// implemented by core services and consumed by outer surfaces (the CLI
// today, an HTTP layer tomorrow).
package driving

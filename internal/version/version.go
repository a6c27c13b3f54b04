// ABOUTME: Build identity constants for the client
// ABOUTME: Reported in logs and the status display
package version

const (
	// Version is the client release string
	Version = "0.3.0"

	// Product is the player name shown to users
	Product = "Gavel Player"

	// Manufacturer identifies the project
	Manufacturer = "Gavel Project"
)

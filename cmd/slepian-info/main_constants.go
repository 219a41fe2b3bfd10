package main

import "math"

// Default command-line flag values
const (
	defaultBandLimit = 16   // L
	defaultThetaMax  = 40.0 // cap radius in degrees
	defaultDilation  = 2.0  // B
	defaultShow      = 10   // eigenvalues to print
)

// Conversion constants
const (
	degreesToRadians = math.Pi / 180
	bytesPerKilobyte = 1024
)

// Region types accepted in run files
const (
	regionCap    = "cap"
	regionLatLon = "latlon"
	regionMesh   = "mesh"
)

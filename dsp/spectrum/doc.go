// Package spectrum provides spectrum-domain helpers: magnitude and power
// extraction from split or complex bins, and a dominant-frequency estimator
// used to verify pitch-shifted material.
package spectrum

// Package branding holds product naming shared by the binaries.
package branding

// AppName is the user-facing product name.
const AppName = "Dualidade"

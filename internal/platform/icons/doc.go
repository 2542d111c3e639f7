// Package icons maps the companion's icon identifiers to Lucide icons.
//
// Pages refer to icons by ID so the icon set can change without touching
// templates.
package icons

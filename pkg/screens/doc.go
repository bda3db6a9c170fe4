// Package screens loads the wizard's screen catalogue. A screen binds one
// form definition to a hub section, names the status that section takes when
// the screen is accepted and points at the next screen. Screens are declared
// in JSON or YAML files; the built-in catalogue is embedded.
package screens

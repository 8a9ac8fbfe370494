// Package logging builds the structured loggers used by the command line
// front end and bridges sync progress events onto them.
package logging

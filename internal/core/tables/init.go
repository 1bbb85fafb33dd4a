// Package tables registers the exportable datasets with the core registry.
// Import this package for its side effects to make them available to
// core.Service.Export.
package tables

// This file exists to provide a single import point.
// Each table file uses init() to register its table.

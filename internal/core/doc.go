// Package core provides the business logic for the airline and airport
// reference datasets.
//
// The package has no transport or database dependencies. Handlers, CLI tools
// and tests drive it through [Service], and persistence is reached only
// through the [Store] interface that the database package implements.
//
// # Architecture
//
//   - Validators: pure functions that normalize IATA, ICAO, numeric and
//     country codes and range-check coordinates (validation.go).
//   - Service: validate, persist, respond for each entity (airlines.go,
//     airports.go). Every mutation is a single store call.
//   - Optional: a presence-aware field wrapper so a merge-patch can tell
//     "not supplied" from "set to null" (optional.go).
//   - Export: CSV rendering of a whole dataset with a UTF-8 BOM and
//     locale-formatted labels and timestamps (export.go, locale.go).
//
// # Table Registry
//
// Exportable datasets are registered at init time using [Register]. Each
// [TableDefinition] names its columns and knows how to read and format its
// rows:
//
//	core.Register(core.TableDefinition{
//	    Info:    core.TableInfo{Key: "airlines", Label: "Airlines"},
//	    Columns: []core.ColumnSpec{{Header: "ID"}, {Header: "Airline name", Quoted: true}},
//	    Rows:    airlineRows,
//	})
//
// Import internal/core/tables for its side effects to register the built-in
// datasets.
//
// # Errors
//
// Every error returned by [Service] can be classified with [KindOf]:
// [KindInvalidArgument] for validation failures, [KindNotFound] for unknown
// identifiers, [KindConflict] for uniqueness violations and [KindInternal]
// for everything else.
package core

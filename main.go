// =============================================================================
// rfmaker - Main Entry Point
// =============================================================================
//
// rfmaker converts a folder of XML resource files into C++ headers, one
// header per file, one static constant struct per <struct> element.
//
// USAGE:
//   rfmaker -i in -o out [options]   - Generate headers
//   rfmaker types                    - Print the type table
//   rfmaker version                  - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loader, extractor, type table, header writer, converter
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/rfmaker/cmd"
)

func main() {
	cmd.Execute()
}

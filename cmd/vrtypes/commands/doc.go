// Package commands defines the vrtypes CLI.
//
// Commands
//
//   - list              List registered datatypes and components
//   - describe          Show the Arrow datatype and doc of one entry
//   - encode-blueprint  Compile a blueprint file into a .vrlog stream
//   - inspect           Print the chunks of a .vrlog stream
//   - version           Print build metadata
//
// # Implementation
//
// The root command resolves the type registry and the log streams before
// any subcommand runs. All file access goes through an fsutil.FileSystem
// so the commands run against memory in tests.
package commands

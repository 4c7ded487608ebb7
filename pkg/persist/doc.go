// Package persist writes upstream JSON responses to an export directory
// and prunes old exports on a schedule.
//
// The caller-supplied file name is reduced to a safe base name before it is
// joined with the directory: the stem keeps only [A-Za-z0-9_-], the extension
// keeps its leading dot followed by the same character class.
//
//	SanitizeFilename("../../evil<name>!!.json") // "evilname.json"
//
// Exports are pretty-printed with two-space indentation and sorted object
// keys. Writing a name that already exists replaces the file.
package persist

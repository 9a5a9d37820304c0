// Package diff compares documents through their YAML renderings.
//
// Lines produces a line diff suitable for Unified output; Same compares the
// content directly and ignores key order.
package diff

// Package diag defines the validation problem model shared by every
// rule-set: severities, positions, the immutable Problem value object, the
// per-run Result, and the file-keyed presentation Store that the validation
// engine republishes after each run. It also provides the Reporter that
// renders results as colored text, JSON, or YAML.
package diag

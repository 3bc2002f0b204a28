package types

// Version is the canonical project version, shared by the CLI and the
// journal record format.
const Version = "0.1.0"

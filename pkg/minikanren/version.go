package minikanren

// Version is the package's semantic version, bumped on any change to the
// public Goal/Term/Query surface.
const Version = "0.1.0"

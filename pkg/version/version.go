package version

// Version is the release of the choreography engine. It is stamped into every
// output's input hash so a new release regenerates all choreography.
const Version = "v0.3.1"

package model

// Version is the current release of moreever-nav.
var Version = "0.3.0"

package videoqa

var Version = "v0.0.1"

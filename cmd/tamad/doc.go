// Command tamad boots TamaOS: it loads environment configuration, creates
// the VFS and log directories, and prints the boot banner.
//
// By default the process exits after boot. With -serve it stays up and
// exposes the device over HTTP and WebSocket:
//
//	tamad              # boot, print banner, exit
//	tamad -serve       # boot, then serve on HOST:PORT
//	tamad -serve -port 9000
//
// Configuration comes from the environment; see the config package for
// the full variable list.
package main
